package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tsumego_lab/internal/domain"
	"tsumego_lab/internal/domain/task"
	errs "tsumego_lab/internal/errors"
	"tsumego_lab/internal/usecase/tasks"
)

type memoryStore struct {
	tasks map[int]task.Task
	query string
}

func (m *memoryStore) PutAllTasksToMongoByPath(_ context.Context, path string) (int, error) {
	return len(path), nil
}

func (m *memoryStore) GetTasksWithStatusPaginated(_ context.Context, level int, status string, page int) (*task.TaskResponse, error) {
	m.query = fmt.Sprintf("level=%d status=%s page=%d", level, status, page)
	return &task.TaskResponse{PageNum: page, TotalPages: 1}, nil
}

func (m *memoryStore) GetTask(_ context.Context, number int) (*task.Task, error) {
	tsk, ok := m.tasks[number]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errs.ErrTaskNotFound, number)
	}
	return &tsk, nil
}

func (m *memoryStore) SaveVerdicts(_ context.Context, number int, verdicts []domain.Verdict) error {
	tsk := m.tasks[number]
	tsk.Verdicts = verdicts
	tsk.TaskStatus = task.StatusOf(verdicts)
	m.tasks[number] = tsk
	return nil
}

type allCorrect struct{}

func (allCorrect) Verify(context.Context, string) ([]domain.Verdict, error) {
	return []domain.Verdict{{Correct: true}, {KoAllowed: true, Correct: true}}, nil
}

func router(store *memoryStore) http.Handler {
	log := zap.NewNop().Sugar()
	h := NewTaskHandler(log, tasks.NewTaskUseCase(store, allCorrect{}, "library", log))
	r := chi.NewRouter()
	r.Post("/tasks/import", h.HandleStoreInMongo)
	r.Get("/tasks", h.HandleGetTasks)
	r.Get("/tasks/{number}", h.HandleGetTask)
	r.Post("/tasks/{number}/verify", h.HandleVerifyTask)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestTaskRoutes(t *testing.T) {
	store := &memoryStore{tasks: map[int]task.Task{
		12: {TaskUniqNumber: 12, TaskLevel: 1, TaskSgf: "(;SZ[19]AB[aa])", TaskStatus: task.StatusUnverified},
	}}
	h := router(store)

	rec := do(t, h, http.MethodPost, "/tasks/import", `{"path":"level1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Status":200,"Body":{"imported":14}}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/tasks?level=1&status=correct&page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "level=1 status=correct page=2", store.query)

	rec = do(t, h, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "level=0 status= page=1", store.query)

	rec = do(t, h, http.MethodGet, "/tasks/12", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct{ Body task.Task }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, task.StatusUnverified, got.Body.TaskStatus)

	rec = do(t, h, http.MethodPost, "/tasks/12/verify", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, task.StatusCorrect, got.Body.TaskStatus)
	assert.Len(t, got.Body.Verdicts, 2)
	assert.Equal(t, task.StatusCorrect, store.tasks[12].TaskStatus)
}

func TestTaskRoutes_Errors(t *testing.T) {
	h := router(&memoryStore{tasks: map[int]task.Task{}})

	for _, tc := range []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/tasks/99", "", http.StatusNotFound},
		{http.MethodPost, "/tasks/99/verify", "", http.StatusNotFound},
		{http.MethodGet, "/tasks/abc", "", http.StatusBadRequest},
		{http.MethodGet, "/tasks?page=x", "", http.StatusBadRequest},
		{http.MethodGet, "/tasks?status=solved", "", http.StatusBadRequest},
		{http.MethodPost, "/tasks/import", `{"path":""}`, http.StatusBadRequest},
		{http.MethodPost, "/tasks/import", `{"dir":"x"}`, http.StatusBadRequest},
		{http.MethodPost, "/tasks/import", `{"path":"../.."}`, http.StatusBadRequest},
		{http.MethodPost, "/tasks/import", `{"path":"/etc"}`, http.StatusBadRequest},
	} {
		rec := do(t, h, tc.method, tc.target, tc.body)
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.target)
	}
}
