package katago

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tsumego_lab/internal/domain"
	"tsumego_lab/internal/httpresponse"
	"tsumego_lab/internal/utils"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsSendBuffer       = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Analyzer interface {
	Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error)
}

type KatagoHandler struct {
	log      *zap.SugaredLogger
	analyzer Analyzer
}

func NewKatagoHandler(log *zap.SugaredLogger, analyzer Analyzer) *KatagoHandler {
	return &KatagoHandler{
		log:      log,
		analyzer: analyzer,
	}
}

// HandleAnalyze runs a single raw analysis query.
func (k *KatagoHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	body := http.MaxBytesReader(w, r.Body, utils.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSONError(k.log, w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	resp, err := k.analyze(r.Context(), req)
	if err != nil {
		k.log.Errorf("failed to analyze position: %v", err)
		writeJSONError(k.log, w, httpresponse.StatusFromError(err), err.Error())
		return
	}
	writeJSON(k.log, w, http.StatusOK, resp)
}

// HandleAnalysisWS relays analysis queries over a websocket. Every text
// message is one query; answers come back as they finish, matched by id,
// and failures are reported as {"id", "error"} messages.
func (k *KatagoHandler) HandleAnalysisWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		k.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(utils.MaxBodyBytes)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan []byte, wsSendBuffer)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := writeWSWithHeartbeat(conn, send); err != nil {
			k.log.Debugw("websocket writer stopped", "error", err)
			cancel()
		}
	}()

	var inFlight sync.WaitGroup
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var req domain.AnalysisRequest
		if err := json.Unmarshal(message, &req); err != nil {
			k.reply(ctx, send, domain.AnalysisResponse{Error: "invalid JSON: " + err.Error()})
			continue
		}

		inFlight.Add(1)
		go func() {
			defer inFlight.Done()
			resp, err := k.analyze(ctx, req)
			if err != nil {
				resp = domain.AnalysisResponse{ID: req.ID, Error: err.Error()}
			}
			k.reply(ctx, send, resp)
		}()
	}

	cancel()
	inFlight.Wait()
	close(send)
	<-writerDone
}

// analyze keeps the caller's id on the answer; the engine client assigns
// its own.
func (k *KatagoHandler) analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	resp, err := k.analyzer.Analyze(ctx, req)
	if err != nil {
		return domain.AnalysisResponse{}, err
	}
	resp.ID = req.ID
	return resp, nil
}

func (k *KatagoHandler) reply(ctx context.Context, send chan<- []byte, resp domain.AnalysisResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		k.log.Errorf("failed to encode analysis response: %v", err)
		return
	}
	select {
	case send <- payload:
	case <-ctx.Done():
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

func writeJSON(log *zap.SugaredLogger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("writeJSON encode error: %v", err)
	}
}

func writeJSONError(log *zap.SugaredLogger, w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	log.Debugf("writeJSONError: %s", msg)
}
