package katago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tsumego_lab/internal/domain"
	errs "tsumego_lab/internal/errors"
	"tsumego_lab/internal/utils"
)

type analyzerFunc func(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error)

func (f analyzerFunc) Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	return f(ctx, request)
}

// engine answers with as many visits as the board has columns and fails on
// 1x1 boards.
var engine = analyzerFunc(func(_ context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	if req.BoardXSize == 1 {
		return domain.AnalysisResponse{}, errs.ErrAnalysisFailed
	}
	return domain.AnalysisResponse{ID: "engine-id", RootInfo: domain.RootInfo{Visits: req.BoardXSize}}, nil
})

func TestHandleAnalyze(t *testing.T) {
	h := NewKatagoHandler(zap.NewNop().Sugar(), engine)

	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, httptest.NewRequest(http.MethodPost, "/analysis", strings.NewReader(`{"id":"q1","boardXSize":9,"boardYSize":9}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "q1", resp.ID)
	assert.Equal(t, 9, resp.RootInfo.Visits)

	rec = httptest.NewRecorder()
	h.HandleAnalyze(rec, httptest.NewRequest(http.MethodPost, "/analysis", strings.NewReader(`{"id":"q2","boardXSize":1}`)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleAnalyze(rec, httptest.NewRequest(http.MethodPost, "/analysis", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_BodyLimit(t *testing.T) {
	h := NewKatagoHandler(zap.NewNop().Sugar(), engine)

	huge := `{"id":"` + strings.Repeat("q", utils.MaxBodyBytes) + `","boardXSize":9,"boardYSize":9}`
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, httptest.NewRequest(http.MethodPost, "/analysis", strings.NewReader(huge)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "too large")
}

func TestHandleAnalysisWS(t *testing.T) {
	h := NewKatagoHandler(zap.NewNop().Sugar(), engine)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleAnalysisWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	require.NoError(t, conn.WriteJSON(domain.AnalysisRequest{ID: "a", BoardXSize: 9, BoardYSize: 9}))
	require.NoError(t, conn.WriteJSON(domain.AnalysisRequest{ID: "b", BoardXSize: 1, BoardYSize: 1}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	got := map[string]domain.AnalysisResponse{}
	for i := 0; i < 3; i++ {
		var resp domain.AnalysisResponse
		require.NoError(t, conn.ReadJSON(&resp))
		got[resp.ID] = resp
	}

	assert.Equal(t, 9, got["a"].RootInfo.Visits)
	assert.Empty(t, got["a"].Error)
	assert.Contains(t, got["b"].Error, errs.ErrAnalysisFailed.Error())
	assert.Contains(t, got[""].Error, "invalid JSON")
}
