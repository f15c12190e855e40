package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"tsumego_lab/internal/domain"
	errs "tsumego_lab/internal/errors"
	katagoRPC "tsumego_lab/microservices/proto"
)

type KatagoStore interface {
	Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error)
}

type KatagoUseCase struct {
	store KatagoStore
	log   *zap.SugaredLogger
	katagoRPC.UnimplementedKatagoServiceServer
}

func NewKatagoUseCase(store KatagoStore, log *zap.SugaredLogger) *KatagoUseCase {
	return &KatagoUseCase{
		store: store,
		log:   log,
	}
}

func (k *KatagoUseCase) Analyze(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	// Преобразуем RPC-структуру в доменную модель
	request, err := katagoRPC.StructToRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if request.BoardXSize <= 0 || request.BoardYSize <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "board size %dx%d", request.BoardXSize, request.BoardYSize)
	}

	// Вызов анализа через store
	response, err := k.store.Analyze(ctx, request)
	if err != nil {
		k.log.Errorw("analysis failed", "id", request.ID, "error", err)
		return nil, toStatus(err)
	}

	// Преобразуем доменный ответ в RPC-структуру
	out, err := katagoRPC.ResponseToStruct(response)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, errs.ErrMalformedInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errs.ErrAnalysisFailed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, errs.ErrEngineClosed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}
