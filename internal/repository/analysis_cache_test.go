package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tsumego_lab/internal/domain"
	errs "tsumego_lab/internal/errors"
)

func TestAnalysisKey(t *testing.T) {
	a := domain.AnalysisRequest{ID: "1", BoardXSize: 19, BoardYSize: 19, InitialStones: []domain.Stone{{"B", "D4"}}}
	b := a
	b.ID = "2"
	c := a
	c.Komi = 6.5

	ka, err := analysisKey(a)
	require.NoError(t, err)
	kb, err := analysisKey(b)
	require.NoError(t, err)
	kc, err := analysisKey(c)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ka, analysisKeyPrefix))
	assert.Equal(t, ka, kb, "the request id is not part of the key")
	assert.NotEqual(t, ka, kc)
	assert.Equal(t, "1", a.ID, "the caller's request is untouched")
}

// unreachableRedis fails every command quickly.
func unreachableRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestAnalysisCache_RedisDown(t *testing.T) {
	calls := 0
	next := analyzerFunc(func(_ context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error) {
		calls++
		return domain.AnalysisResponse{ID: req.ID, RootInfo: domain.RootInfo{Visits: 7}}, nil
	})
	cache := NewAnalysisCache(next, unreachableRedis(t), time.Hour, zap.NewNop().Sugar())

	for i := 0; i < 2; i++ {
		resp, err := cache.Analyze(context.Background(), domain.AnalysisRequest{ID: "q", BoardXSize: 9, BoardYSize: 9})
		require.NoError(t, err)
		assert.Equal(t, 7, resp.RootInfo.Visits)
	}
	assert.Equal(t, 2, calls)
}

func TestAnalysisCache_PassesErrors(t *testing.T) {
	next := analyzerFunc(func(context.Context, domain.AnalysisRequest) (domain.AnalysisResponse, error) {
		return domain.AnalysisResponse{}, errs.ErrEngineClosed
	})
	cache := NewAnalysisCache(next, unreachableRedis(t), time.Hour, zap.NewNop().Sugar())

	_, err := cache.Analyze(context.Background(), domain.AnalysisRequest{})
	assert.True(t, errors.Is(err, errs.ErrEngineClosed))
}
