package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"tsumego_lab/internal/bootstrap"
	internalRepo "tsumego_lab/internal/repository"
	katago "tsumego_lab/microservices/proto"
	"tsumego_lab/microservices/repository"
	"tsumego_lab/microservices/usecase"
)

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", "error", err)
		return
	}

	engine, err := internalRepo.NewKatagoClient(cfg, logger)
	if err != nil {
		logger.Errorw("Failed to start katago", "error", err)
		return
	}
	defer engine.Close()

	lis, err := net.Listen("tcp", cfg.KatagoGrpcPort)
	if err != nil {
		logger.Errorw("cant listen port", "port", cfg.KatagoGrpcPort, "error", err)
		return
	}

	server := grpc.NewServer()
	katagoStorage := repository.NewKatagoRepository(cfg, logger, engine)
	katago.RegisterKatagoServiceServer(server, usecase.NewKatagoUseCase(katagoStorage, logger))

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down katago service")
		server.GracefulStop()
	}()

	logger.Infow("starting server", "port", cfg.KatagoGrpcPort)
	if err := server.Serve(lis); err != nil {
		logger.Errorw("grpc server stopped", "error", err)
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger.Sugar()
}
