package task

import (
	"time"

	"tsumego_lab/internal/domain"
)

// Verification states of a task.
const (
	StatusUnverified = "unverified"
	StatusCorrect    = "correct"
	StatusIncorrect  = "incorrect"
)

type Task struct {
	TaskUniqNumber int              `json:"task_number" bson:"task_number"`
	TaskLevel      int              `json:"task_level" bson:"task_level"`
	TaskSgf        string           `json:"task_sgf" bson:"task_sgf"`
	TaskStatus     string           `json:"task_status" bson:"task_status"`
	Verdicts       []domain.Verdict `json:"verdicts,omitempty" bson:"verdicts,omitempty"`
	VerifiedAt     *time.Time       `json:"verified_at,omitempty" bson:"verified_at,omitempty"`
}

type TaskResponse struct {
	PageNum            int    `json:"page_tmp" bson:"page_tmp"`
	TotalPages         int    `json:"total_pages" bson:"total_pages"`
	PageWithUnresolved int    `json:"page_with_unresolved" bson:"page_with_unresolved"`
	Tasks              []Task `json:"tasks" bson:"tasks"`
}

// StatusOf folds the verdicts of all ko regimes into one task status.
func StatusOf(verdicts []domain.Verdict) string {
	if len(verdicts) == 0 {
		return StatusUnverified
	}
	for _, v := range verdicts {
		if !v.Correct {
			return StatusIncorrect
		}
	}
	return StatusCorrect
}
