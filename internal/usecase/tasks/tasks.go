package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tsumego_lab/internal/domain"
	"tsumego_lab/internal/domain/task"
	errs "tsumego_lab/internal/errors"
)

type TaskStore interface {
	PutAllTasksToMongoByPath(ctx context.Context, pathToTasks string) (int, error)
	GetTasksWithStatusPaginated(ctx context.Context, taskLevel int, status string, pageNum int) (*task.TaskResponse, error)
	GetTask(ctx context.Context, taskUniqNumber int) (*task.Task, error)
	SaveVerdicts(ctx context.Context, taskUniqNumber int, verdicts []domain.Verdict) error
}

// Verifier judges an SGF problem under every ko regime.
type Verifier interface {
	Verify(ctx context.Context, sgfText string) ([]domain.Verdict, error)
}

type TaskUseCase struct {
	taskStore TaskStore
	verifier  Verifier
	tasksRoot string
	log       *zap.SugaredLogger
}

func NewTaskUseCase(taskStore TaskStore, verifier Verifier, tasksRoot string, log *zap.SugaredLogger) *TaskUseCase {
	return &TaskUseCase{
		taskStore: taskStore,
		verifier:  verifier,
		tasksRoot: filepath.Clean(tasksRoot),
		log:       log,
	}
}

// PutTasksToMongoByPath imports the problems under path, taken relative to
// the tasks root. Paths leaving the root are rejected.
func (t *TaskUseCase) PutTasksToMongoByPath(ctx context.Context, path string) (int, error) {
	full, err := t.taskPath(path)
	if err != nil {
		return 0, err
	}
	return t.taskStore.PutAllTasksToMongoByPath(ctx, full)
}

func (t *TaskUseCase) taskPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty task path", errs.ErrMalformedInput)
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: task path %q must be relative to the tasks root", errs.ErrMalformedInput, path)
	}
	full := filepath.Join(t.tasksRoot, path)
	rel, err := filepath.Rel(t.tasksRoot, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: task path %q leaves the tasks root", errs.ErrMalformedInput, path)
	}
	return full, nil
}

// GetTasksByLevelByPage lists a page of tasks; status narrows the listing to
// one verification state when set.
func (t *TaskUseCase) GetTasksByLevelByPage(ctx context.Context, level int, status string, pageNum int) (*task.TaskResponse, error) {
	switch status {
	case "", task.StatusUnverified, task.StatusCorrect, task.StatusIncorrect:
	default:
		return nil, fmt.Errorf("%w: unknown task status %q", errs.ErrMalformedInput, status)
	}
	if level < 0 {
		return nil, fmt.Errorf("%w: negative level %d", errs.ErrMalformedInput, level)
	}
	return t.taskStore.GetTasksWithStatusPaginated(ctx, level, status, pageNum)
}

func (t *TaskUseCase) GetTask(ctx context.Context, taskUniqNumber int) (*task.Task, error) {
	return t.taskStore.GetTask(ctx, taskUniqNumber)
}

// VerifyTask runs the analysis of a stored task and records the verdicts.
func (t *TaskUseCase) VerifyTask(ctx context.Context, taskUniqNumber int) (*task.Task, error) {
	tsk, err := t.taskStore.GetTask(ctx, taskUniqNumber)
	if err != nil {
		return nil, err
	}

	verdicts, err := t.verifier.Verify(ctx, tsk.TaskSgf)
	if err != nil {
		t.log.Errorw("task verification failed", "task", taskUniqNumber, "error", err)
		return nil, err
	}
	if err := t.taskStore.SaveVerdicts(ctx, taskUniqNumber, verdicts); err != nil {
		return nil, err
	}

	tsk.Verdicts = verdicts
	tsk.TaskStatus = task.StatusOf(verdicts)
	t.log.Infow("task verified", "task", taskUniqNumber, "status", tsk.TaskStatus)
	return tsk, nil
}
