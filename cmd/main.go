package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"tsumego_lab/internal/adapters"
	"tsumego_lab/internal/bootstrap"
	katagoDelivery "tsumego_lab/internal/delivery/katago"
	tasksDelivery "tsumego_lab/internal/delivery/tasks"
	tsumegoDelivery "tsumego_lab/internal/delivery/tsumego"
	ownMiddleware "tsumego_lab/internal/middleware"
	"tsumego_lab/internal/repository"
	"tsumego_lab/internal/usecase/tasks"
	"tsumego_lab/internal/usecase/tsumego"
)

type mainDeliveryHandler struct {
	katago  *katagoDelivery.KatagoHandler
	tsumego *tsumegoDelivery.TsumegoHandler
	tasks   *tasksDelivery.TaskHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
	defer databaseAdapters.mongoAdapter.Close(context.Background())
	if databaseAdapters.redisAdapter != nil {
		defer databaseAdapters.redisAdapter.Close(context.Background())
	}

	grpcKatago, err := repository.NewGrpcAnalyzer(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to dial grpc", "addr", cfg.KatagoGrpcAddr, "error", err)
	}
	defer grpcKatago.Close()

	var analyzer repository.Analyzer = grpcKatago
	if databaseAdapters.redisAdapter != nil {
		analyzer = repository.NewAnalysisCache(grpcKatago, databaseAdapters.redisAdapter.GetClient(), cfg.AnalysisCacheTTL, logger)
	}

	r := chi.NewRouter()
	handlers, err := initializeDeliveryHandlers(ctx, cfg, logger, analyzer, databaseAdapters)
	if err != nil {
		logger.Fatalw("Failed to initialize handlers", "error", err)
	}
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{Addr: cfg.ServerPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Failed to start server", "error", err)
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/tsumego/frame", h.tsumego.HandleFrame)
	r.Post("/tsumego/verify", h.tsumego.HandleVerify)

	r.Post("/tasks/import", h.tasks.HandleStoreInMongo)
	r.Get("/tasks", h.tasks.HandleGetTasks)
	r.Get("/tasks/{number}", h.tasks.HandleGetTask)
	r.Post("/tasks/{number}/verify", h.tasks.HandleVerifyTask)

	r.Post("/analysis", h.katago.HandleAnalyze)
	r.Get("/analysis/ws", h.katago.HandleAnalysisWS)
}

// initDatabaseAdapters connects to MongoDB and, when REDIS_URL is set, to
// the Redis analysis cache.
func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatalw("Не удалось инициализировать MongoDB", "error", err)
	}

	var redisAdapter *adapters.AdapterRedis
	if cfg.RedisUrl != "" {
		redisAdapter = adapters.NewAdapterRedis(cfg, log)
		if err := redisAdapter.Init(ctx); err != nil {
			log.Fatalw("Не удалось инициализировать Redis", "error", err)
		}
	}

	log.Info("Адаптеры баз данных инициализированы")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandlers(
	ctx context.Context,
	cfg *bootstrap.Config,
	log *zap.SugaredLogger,
	analyzer repository.Analyzer,
	databaseAdapters *dataBaseAdapters,
) (*mainDeliveryHandler, error) {
	taskStorage := repository.NewTaskStorage(cfg, databaseAdapters.mongoAdapter, log)
	if err := taskStorage.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	tsumegoUC := tsumego.NewTsumegoUseCase(analyzer, cfg, log)
	taskUC := tasks.NewTaskUseCase(taskStorage, tsumegoUC, cfg.TasksRoot, log)

	return &mainDeliveryHandler{
		katago:  katagoDelivery.NewKatagoHandler(log, analyzer),
		tsumego: tsumegoDelivery.NewTsumegoHandler(cfg, log, tsumegoUC),
		tasks:   tasksDelivery.NewTaskHandler(log, taskUC),
	}, nil
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
