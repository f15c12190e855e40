package tsumego

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tsumego_lab/internal/bootstrap"
	"tsumego_lab/internal/domain"
	"tsumego_lab/internal/domain/task"
	tsumegoUC "tsumego_lab/internal/usecase/tsumego"
)

const cornerSGF = "(;GM[1]SZ[19]AB[ac][bc][cb][ca])"

type analyzerFunc func(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error)

func (f analyzerFunc) Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	return f(ctx, request)
}

// unresolved reports zero ownership everywhere.
var unresolved = analyzerFunc(func(_ context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	return domain.AnalysisResponse{
		ID:        req.ID,
		RootInfo:  domain.RootInfo{Visits: 10},
		Ownership: make([]float64, req.BoardXSize*req.BoardYSize),
	}, nil
})

func newHandler(koAllowed bool) *TsumegoHandler {
	cfg := &bootstrap.Config{
		KoAllowed:          koAllowed,
		WallDistance:       4,
		OwnershipThreshold: 2.0 / 3.0,
		MaxVisits:          10,
		Rules:              "japanese",
	}
	log := zap.NewNop().Sugar()
	return NewTsumegoHandler(cfg, log, tsumegoUC.NewTsumegoUseCase(unresolved, cfg, log))
}

func post(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(string(raw))))
	return rec
}

func TestHandleFrame(t *testing.T) {
	h := newHandler(true)

	rec := post(t, h.HandleFrame, FrameRequest{SGF: cornerSGF})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Body struct {
			FrameColor   string   `json:"frame_color"`
			KoAllowed    bool     `json:"ko_allowed"`
			SGF          string   `json:"sgf"`
			AllowedMoves []string `json:"allowed_moves"`
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "W", resp.Body.FrameColor)
	assert.True(t, resp.Body.KoAllowed, "configured default")
	assert.Contains(t, resp.Body.SGF, "AW[")
	assert.NotEmpty(t, resp.Body.AllowedMoves)

	off := false
	rec = post(t, h.HandleFrame, FrameRequest{SGF: cornerSGF, KoAllowed: &off})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Body.KoAllowed)
}

func TestHandleFrame_BadInput(t *testing.T) {
	h := newHandler(false)

	assert.Equal(t, http.StatusBadRequest, post(t, h.HandleFrame, FrameRequest{SGF: "(;SZ[19]"}).Code)
	assert.Equal(t, http.StatusBadRequest, post(t, h.HandleFrame, map[string]string{"board": "x"}).Code)

	rec := httptest.NewRecorder()
	h.HandleFrame(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleVerify(t *testing.T) {
	h := newHandler(false)

	rec := post(t, h.HandleVerify, VerifyRequest{SGF: cornerSGF})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Body VerifyResponse
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, task.StatusCorrect, resp.Body.Status)
	require.Len(t, resp.Body.Verdicts, 2)
	assert.Equal(t, 10, resp.Body.Verdicts[0].Visits)
}
