package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"tsumego_lab/internal/bootstrap"
	"tsumego_lab/internal/domain"
	errs "tsumego_lab/internal/errors"
	katagoProto "tsumego_lab/microservices/proto"
)

// GrpcAnalyzer forwards analysis queries to the katago microservice.
type GrpcAnalyzer struct {
	client katagoProto.KatagoServiceClient
	conn   *grpc.ClientConn
	log    *zap.SugaredLogger
}

func NewGrpcAnalyzer(cfg *bootstrap.Config, log *zap.SugaredLogger) (*GrpcAnalyzer, error) {
	conn, err := grpc.NewClient(cfg.KatagoGrpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to dial katago service %s: %w", cfg.KatagoGrpcAddr, err)
	}
	analyzer := NewGrpcAnalyzerFromClient(katagoProto.NewKatagoServiceClient(conn), log)
	analyzer.conn = conn
	return analyzer, nil
}

func NewGrpcAnalyzerFromClient(client katagoProto.KatagoServiceClient, log *zap.SugaredLogger) *GrpcAnalyzer {
	return &GrpcAnalyzer{
		client: client,
		log:    log,
	}
}

func (g *GrpcAnalyzer) Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	if request.ID == "" {
		request.ID = GenerateUuid()
	}
	in, err := katagoProto.RequestToStruct(request)
	if err != nil {
		return domain.AnalysisResponse{}, err
	}

	out, err := g.client.Analyze(ctx, in)
	if err != nil {
		g.log.Errorw("katago service call failed", "id", request.ID, "error", err)
		return domain.AnalysisResponse{}, fromStatus(err)
	}
	return katagoProto.StructToResponse(out)
}

func (g *GrpcAnalyzer) Close() error {
	if g.conn != nil {
		return g.conn.Close()
	}
	return nil
}

// fromStatus maps gRPC codes back to the sentinels the service started from.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", errs.ErrMalformedInput, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", errs.ErrAnalysisFailed, st.Message())
	case codes.Unavailable:
		return fmt.Errorf("%w: %s", errs.ErrEngineClosed, st.Message())
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	case codes.Canceled:
		return context.Canceled
	}
	return fmt.Errorf("%w: %s", errs.ErrInternal, st.Message())
}
