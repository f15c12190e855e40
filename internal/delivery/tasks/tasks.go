package tasks

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	errs "tsumego_lab/internal/errors"
	"tsumego_lab/internal/httpresponse"
	"tsumego_lab/internal/usecase/tasks"
	"tsumego_lab/internal/utils"
)

type ImportRequest struct {
	Path string `json:"path"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type TaskHandler struct {
	log    *zap.SugaredLogger
	taskUC *tasks.TaskUseCase
}

func NewTaskHandler(log *zap.SugaredLogger, taskUC *tasks.TaskUseCase) *TaskHandler {
	return &TaskHandler{
		taskUC: taskUC,
		log:    log,
	}
}

func (th *TaskHandler) HandleStoreInMongo(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		th.log.Error(err)
		httpresponse.WriteError(w, err)
		return
	}

	imported, err := th.taskUC.PutTasksToMongoByPath(r.Context(), req.Path)
	if err != nil {
		th.log.Error(err)
		httpresponse.WriteError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, ImportResponse{Imported: imported})
}

// HandleGetTasks lists tasks. Query: page (default 1), level (0 or absent
// for all), status.
func (th *TaskHandler) HandleGetTasks(w http.ResponseWriter, r *http.Request) {
	pageNumInt, err := queryInt(r, "page", 1)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	levelInt, err := queryInt(r, "level", 0)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	status := r.URL.Query().Get("status")

	taskResponse, err := th.taskUC.GetTasksByLevelByPage(r.Context(), levelInt, status, pageNumInt)
	if err != nil {
		th.log.Error(err)
		httpresponse.WriteError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, taskResponse)
}

func (th *TaskHandler) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	number, err := taskNumber(r)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}

	tsk, err := th.taskUC.GetTask(r.Context(), number)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, tsk)
}

func (th *TaskHandler) HandleVerifyTask(w http.ResponseWriter, r *http.Request) {
	number, err := taskNumber(r)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}

	tsk, err := th.taskUC.VerifyTask(r.Context(), number)
	if err != nil {
		th.log.Errorw("failed to verify task", "task", number, "error", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, tsk)
}

func taskNumber(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "number")
	number, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: task number %q", errs.ErrMalformedInput, raw)
	}
	return number, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query %s=%q", errs.ErrMalformedInput, key, raw)
	}
	return v, nil
}
