package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"tsumego_lab/internal/adapters"
	"tsumego_lab/internal/bootstrap"
	"tsumego_lab/internal/domain"
	"tsumego_lab/internal/domain/sgf"
	"tsumego_lab/internal/domain/task"
	errs "tsumego_lab/internal/errors"
)

const tasksCollection = "tasks"

var chapterRe = regexp.MustCompile(`(?i)^Chapter (\d+)$`)

type TaskStorage struct {
	cfg   *bootstrap.Config
	mongo *adapters.AdapterMongo
	log   *zap.SugaredLogger
}

func NewTaskStorage(cfg *bootstrap.Config, mongoAdapter *adapters.AdapterMongo, log *zap.SugaredLogger) *TaskStorage {
	return &TaskStorage{
		cfg:   cfg,
		mongo: mongoAdapter,
		log:   log,
	}
}

func (t *TaskStorage) collection() *mongo.Collection {
	return t.mongo.Database.Collection(tasksCollection)
}

// EnsureIndexes makes task numbers unique; SaveToMongo relies on it.
func (t *TaskStorage) EnsureIndexes(ctx context.Context) error {
	_, err := t.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "task_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create task index: %w", err)
	}
	return nil
}

// PutAllTasksToMongoByPath imports every NNN.sgf below pathToTasks. Tasks
// already stored keep their verdicts unless the SGF changed.
func (t *TaskStorage) PutAllTasksToMongoByPath(ctx context.Context, pathToTasks string) (int, error) {
	imported := 0
	err := filepath.Walk(pathToTasks, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(info.Name(), ".sgf") {
			return nil
		}

		taskStruct, err := ConvertSgfTaskToStructTask(path)
		if err != nil {
			return fmt.Errorf("ошибка при обработке файла %s: %w", path, err)
		}

		err = t.SaveToMongo(ctx, taskStruct)
		if err != nil {
			return fmt.Errorf("ошибка при сохранении в Mongo %s: %w", path, err)
		}
		imported++
		return nil
	})
	if err != nil {
		return imported, err
	}

	t.log.Infow("tasks imported", "path", pathToTasks, "count", imported)
	return imported, nil
}

// ConvertSgfTaskToStructTask reads one task file. The file name is the task
// number and a "Chapter N" directory on the path gives its level.
func ConvertSgfTaskToStructTask(pathToTask string) (*task.Task, error) {
	filename := filepath.Base(pathToTask)
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	taskUniqNum, err := strconv.Atoi(name)
	if err != nil {
		return nil, fmt.Errorf("%w: task file name %q is not a number", errs.ErrMalformedInput, filename)
	}
	taskLevel, ok := ExtractChapterIndex(pathToTask)
	if !ok {
		taskLevel = 0
	}

	data, err := os.ReadFile(pathToTask)
	if err != nil {
		return nil, err
	}
	if _, err := sgf.Parse(string(data)); err != nil {
		return nil, err
	}

	processedTask := &task.Task{
		TaskUniqNumber: taskUniqNum,
		TaskLevel:      taskLevel,
		TaskSgf:        string(data),
		TaskStatus:     task.StatusUnverified,
	}

	return processedTask, nil
}

func ExtractChapterIndex(pathToTask string) (int, bool) {
	dirs := strings.Split(filepath.ToSlash(pathToTask), "/")

	for _, dir := range dirs {
		if match := chapterRe.FindStringSubmatch(dir); len(match) == 2 {
			indexNum, err := strconv.Atoi(match[1])
			if err != nil {
				return 0, false
			}
			return indexNum, true
		}
	}
	return 0, false
}

// SaveToMongo upserts the task by number. A changed SGF resets the verdicts.
func (t *TaskStorage) SaveToMongo(ctx context.Context, tsk *task.Task) error {
	filter := bson.M{"task_number": tsk.TaskUniqNumber, "task_sgf": bson.M{"$ne": tsk.TaskSgf}}
	update := bson.M{
		"$set": bson.M{
			"task_level":  tsk.TaskLevel,
			"task_sgf":    tsk.TaskSgf,
			"task_status": tsk.TaskStatus,
		},
		"$unset": bson.M{"verdicts": "", "verified_at": ""},
	}
	_, err := t.collection().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// same number and same SGF: nothing to do
		return nil
	}
	return err
}

func (t *TaskStorage) GetTask(ctx context.Context, taskUniqNumber int) (*task.Task, error) {
	var result task.Task
	err := t.collection().FindOne(ctx, bson.M{"task_number": taskUniqNumber}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %d", errs.ErrTaskNotFound, taskUniqNumber)
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (t *TaskStorage) SaveVerdicts(ctx context.Context, taskUniqNumber int, verdicts []domain.Verdict) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"task_status": task.StatusOf(verdicts),
			"verdicts":    verdicts,
			"verified_at": now,
		},
	}
	res, err := t.collection().UpdateOne(ctx, bson.M{"task_number": taskUniqNumber}, update)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении вердикта: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %d", errs.ErrTaskNotFound, taskUniqNumber)
	}
	return nil
}

// GetTasksWithStatusPaginated lists the tasks of a level (all levels for 0),
// optionally only those with the given status.
func (t *TaskStorage) GetTasksWithStatusPaginated(
	ctx context.Context,
	taskLevel int,
	status string,
	pageNum int,
) (*task.TaskResponse, error) {
	filter := bson.M{}
	if taskLevel > 0 {
		filter["task_level"] = taskLevel
	}
	if status != "" {
		filter["task_status"] = status
	}

	cursor, err := t.collection().Find(ctx, filter, options.Find().SetProjection(bson.M{"task_sgf": 0}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var allTasks []task.Task
	if err := cursor.All(ctx, &allTasks); err != nil {
		return nil, err
	}

	return Paginate(allTasks, pageNum, t.cfg.PageLimitTasks), nil
}

// Paginate orders tasks by number and cuts out page pageNum (1-based).
func Paginate(allTasks []task.Task, pageNum, pageLimit int) *task.TaskResponse {
	if pageLimit < 1 {
		pageLimit = 1
	}
	if pageNum < 1 {
		pageNum = 1
	}
	sort.SliceStable(allTasks, func(i, j int) bool {
		return allTasks[i].TaskUniqNumber < allTasks[j].TaskUniqNumber
	})

	pageWithUnresolved := 0
	for i, tsk := range allTasks {
		if tsk.TaskStatus == task.StatusUnverified || tsk.TaskStatus == "" {
			pageWithUnresolved = (i / pageLimit) + 1
			break
		}
	}

	totalPages := (len(allTasks) + pageLimit - 1) / pageLimit
	start := min((pageNum-1)*pageLimit, len(allTasks))
	end := min(start+pageLimit, len(allTasks))

	return &task.TaskResponse{
		PageNum:            pageNum,
		TotalPages:         totalPages,
		PageWithUnresolved: pageWithUnresolved,
		Tasks:              allTasks[start:end],
	}
}
