package repository

import (
	"context"

	"go.uber.org/zap"

	"tsumego_lab/internal/bootstrap"
	"tsumego_lab/internal/domain"
	internalRepo "tsumego_lab/internal/repository"
)

// KatagoRepository owns the engine process of the microservice and bounds
// every query by KATAGO_TIMEOUT.
type KatagoRepository struct {
	cfg    *bootstrap.Config
	log    *zap.SugaredLogger
	client internalRepo.Analyzer
}

func NewKatagoRepository(cfg *bootstrap.Config, log *zap.SugaredLogger, client internalRepo.Analyzer) *KatagoRepository {
	return &KatagoRepository{
		cfg:    cfg,
		log:    log,
		client: client,
	}
}

func (k *KatagoRepository) Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	if k.cfg.KatagoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.cfg.KatagoTimeout)
		defer cancel()
	}
	if request.ID == "" {
		request.ID = internalRepo.GenerateUuid()
	}
	if request.MaxVisits == 0 {
		request.MaxVisits = k.cfg.MaxVisits
	}
	return k.client.Analyze(ctx, request)
}
