package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tsumego_lab/internal/domain"
)

const analysisKeyPrefix = "analysis:"

// Analyzer answers analysis queries.
type Analyzer interface {
	Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error)
}

// AnalysisCache remembers engine answers in Redis. Identical positions
// asked with different request ids share one entry. Redis failures only
// cost a cache miss.
type AnalysisCache struct {
	next  Analyzer
	redis *redis.Client
	ttl   time.Duration
	log   *zap.SugaredLogger
}

func NewAnalysisCache(next Analyzer, client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *AnalysisCache {
	return &AnalysisCache{
		next:  next,
		redis: client,
		ttl:   ttl,
		log:   log,
	}
}

func (a *AnalysisCache) Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	key, err := analysisKey(request)
	if err != nil {
		return domain.AnalysisResponse{}, err
	}

	if resp, ok := a.load(ctx, key); ok {
		resp.ID = request.ID
		return resp, nil
	}

	resp, err := a.next.Analyze(ctx, request)
	if err != nil {
		return resp, err
	}
	a.store(ctx, key, resp)
	return resp, nil
}

func (a *AnalysisCache) load(ctx context.Context, key string) (domain.AnalysisResponse, bool) {
	var resp domain.AnalysisResponse
	val, err := a.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return resp, false
	}
	if err != nil {
		a.log.Warnw("analysis cache read failed", "key", key, "error", err)
		return resp, false
	}
	if err := json.Unmarshal(val, &resp); err != nil {
		a.log.Warnw("analysis cache entry is corrupt", "key", key, "error", err)
		return resp, false
	}
	a.log.Debugw("analysis cache hit", "key", key)
	return resp, true
}

func (a *AnalysisCache) store(ctx context.Context, key string, resp domain.AnalysisResponse) {
	bytes, err := json.Marshal(resp)
	if err != nil {
		a.log.Warnw("failed to marshal analysis", "error", err)
		return
	}
	if err := a.redis.Set(ctx, key, bytes, a.ttl).Err(); err != nil {
		a.log.Warnw("analysis cache write failed", "key", key, "error", err)
	}
}

// analysisKey hashes everything but the request id.
func analysisKey(request domain.AnalysisRequest) (string, error) {
	request.ID = ""
	raw, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	sum := sha256.Sum256(raw)
	return analysisKeyPrefix + hex.EncodeToString(sum[:]), nil
}
