package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tsumego_lab/internal/bootstrap"
	"tsumego_lab/internal/domain"
)

type recordingEngine struct {
	got      domain.AnalysisRequest
	deadline bool
}

func (r *recordingEngine) Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	r.got = request
	_, r.deadline = ctx.Deadline()
	return domain.AnalysisResponse{ID: request.ID}, nil
}

func TestKatagoRepository_Defaults(t *testing.T) {
	engine := &recordingEngine{}
	cfg := &bootstrap.Config{MaxVisits: 500, KatagoTimeout: time.Minute}
	repo := NewKatagoRepository(cfg, zap.NewNop().Sugar(), engine)

	resp, err := repo.Analyze(context.Background(), domain.AnalysisRequest{BoardXSize: 9, BoardYSize: 9})
	require.NoError(t, err)
	assert.NotEmpty(t, engine.got.ID)
	assert.Equal(t, engine.got.ID, resp.ID)
	assert.Equal(t, 500, engine.got.MaxVisits)
	assert.True(t, engine.deadline)

	_, err = repo.Analyze(context.Background(), domain.AnalysisRequest{ID: "mine", MaxVisits: 7})
	require.NoError(t, err)
	assert.Equal(t, "mine", engine.got.ID)
	assert.Equal(t, 7, engine.got.MaxVisits)
}

func TestKatagoRepository_NoTimeout(t *testing.T) {
	engine := &recordingEngine{}
	repo := NewKatagoRepository(&bootstrap.Config{}, zap.NewNop().Sugar(), engine)

	_, err := repo.Analyze(context.Background(), domain.AnalysisRequest{})
	require.NoError(t, err)
	assert.False(t, engine.deadline)
}
