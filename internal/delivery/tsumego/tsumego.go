package tsumego

import (
	"net/http"

	"go.uber.org/zap"

	"tsumego_lab/internal/bootstrap"
	"tsumego_lab/internal/domain"
	"tsumego_lab/internal/domain/task"
	"tsumego_lab/internal/httpresponse"
	tsumegoUC "tsumego_lab/internal/usecase/tsumego"
	"tsumego_lab/internal/utils"
)

type FrameRequest struct {
	SGF       string `json:"sgf"`
	KoAllowed *bool  `json:"ko_allowed,omitempty"`
}

type VerifyRequest struct {
	SGF string `json:"sgf"`
}

type VerifyResponse struct {
	Status   string           `json:"status"`
	Verdicts []domain.Verdict `json:"verdicts"`
}

type TsumegoHandler struct {
	cfg       *bootstrap.Config
	log       *zap.SugaredLogger
	tsumegoUC *tsumegoUC.TsumegoUseCase
}

func NewTsumegoHandler(cfg *bootstrap.Config, log *zap.SugaredLogger, uc *tsumegoUC.TsumegoUseCase) *TsumegoHandler {
	return &TsumegoHandler{
		cfg:       cfg,
		log:       log,
		tsumegoUC: uc,
	}
}

// HandleFrame answers with the framed problem. ko_allowed falls back to the
// configured default.
func (th *TsumegoHandler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	var req FrameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		th.log.Debugw("bad frame request", "error", err)
		httpresponse.WriteError(w, err)
		return
	}
	koAllowed := th.cfg.KoAllowed
	if req.KoAllowed != nil {
		koAllowed = *req.KoAllowed
	}

	res, err := th.tsumegoUC.BuildFrame(r.Context(), req.SGF, koAllowed)
	if err != nil {
		th.log.Infow("frame rejected", "error", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, res)
}

func (th *TsumegoHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		th.log.Debugw("bad verify request", "error", err)
		httpresponse.WriteError(w, err)
		return
	}

	verdicts, err := th.tsumegoUC.Verify(r.Context(), req.SGF)
	if err != nil {
		th.log.Errorw("verification failed", "error", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, VerifyResponse{
		Status:   task.StatusOf(verdicts),
		Verdicts: verdicts,
	})
}
