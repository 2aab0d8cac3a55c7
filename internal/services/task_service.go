package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/apperrors"
	"enough/internal/gamification"
	"enough/internal/models"
)

// taskTemplate defines one of the objectives every user gets each day.
type taskTemplate struct {
	Code        string
	TitleEN     string
	TitleRU     string
	MaxProgress int
	Points      decimal.Decimal
}

var dailyTaskTemplates = []taskTemplate{
	{"log_three", "Log 3 refusals", "Запишите 3 отказа", 3, decimal.NewFromInt(15)},
	{"save_ten", "Save $10 today", "Сэкономьте $10 сегодня", 10, decimal.NewFromInt(20)},
	{"use_why_tag", "Tag a refusal with a why", "Отметьте причину отказа", 1, decimal.NewFromInt(10)},
}

// TaskService owns the per-day objectives: generation, progress, claiming.
type TaskService struct {
	db     *gorm.DB
	engine *gamification.Engine
	log    *zap.SugaredLogger
}

// NewTaskService creates a new TaskService
func NewTaskService(db *gorm.DB, engine *gamification.Engine, log *zap.SugaredLogger) *TaskService {
	return &TaskService{db: db, engine: engine, log: log}
}

// localDay renders the viewer's calendar date given their UTC offset in
// minutes (JS getTimezoneOffset convention). Task days follow the viewer's
// clock for the same reason "today" aggregation does.
func localDay(now time.Time, tzOffsetMinutes int) string {
	return now.In(time.FixedZone("client", -tzOffsetMinutes*60)).Format("2006-01-02")
}

// ListToday returns the user's tasks for their current local day, creating
// them from the templates on first read. Generation is idempotent: the
// unique (user, code, day) index swallows races.
func (s *TaskService) ListToday(userID uint, tzOffsetMinutes int) ([]models.DailyTask, error) {
	day := localDay(time.Now(), tzOffsetMinutes)

	for _, tpl := range dailyTaskTemplates {
		task := models.DailyTask{
			UserID:      userID,
			Code:        tpl.Code,
			Day:         day,
			TitleEN:     tpl.TitleEN,
			TitleRU:     tpl.TitleRU,
			MaxProgress: tpl.MaxProgress,
			Points:      tpl.Points,
		}
		if err := s.db.Create(&task).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create daily task: %w", err)
		}
	}

	var tasks []models.DailyTask
	if err := s.db.Where("user_id = ? AND day = ?", userID, day).
		Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load daily tasks: %w", err)
	}
	return tasks, nil
}

// Complete claims a finished task's reward. Eligibility requires full
// progress; the completed flag flips exactly once under a row lock, so a
// second claim returns a conflict instead of a second award.
func (s *TaskService) Complete(userID, taskID uint) (decimal.Decimal, error) {
	var earned decimal.Decimal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task models.DailyTask
		if err := lockForUpdate(tx).First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("task not found")
			}
			return fmt.Errorf("failed to load task: %w", err)
		}

		if task.UserID != userID {
			return apperrors.NotFound("task not found")
		}
		if task.IsCompleted {
			return apperrors.Conflict("task already completed")
		}
		if task.Progress < task.MaxProgress {
			return apperrors.Validation("task not finished yet: %d/%d", task.Progress, task.MaxProgress)
		}

		now := time.Now()
		if err := tx.Model(&task).Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark task completed: %w", err)
		}

		if err := s.engine.Award(tx, userID, task.Points,
			models.PointSourceTask, fmt.Sprintf("%d", task.ID)); err != nil {
			return err
		}

		earned = task.Points
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.log.Infow("daily task completed", "user_id", userID, "task_id", taskID, "points", earned.String())
	return earned, nil
}

// OnEntryCreated advances today's task counters for a new entry. Runs inside
// the entry-creation transaction; progress caps at max and completion is
// still claimed explicitly by the user.
func (s *TaskService) OnEntryCreated(tx *gorm.DB, entry *models.Entry, tzOffsetMinutes int) error {
	day := localDay(entry.CreatedAt, tzOffsetMinutes)

	var tasks []models.DailyTask
	if err := tx.Where("user_id = ? AND day = ? AND is_completed = ?", entry.UserID, day, false).
		Find(&tasks).Error; err != nil {
		return fmt.Errorf("failed to load daily tasks: %w", err)
	}

	for i := range tasks {
		task := &tasks[i]
		delta := 0
		switch task.Code {
		case "log_three":
			delta = 1
		case "save_ten":
			delta = int(entry.USDAmount.IntPart())
		case "use_why_tag":
			if len(entry.Tags) > 0 {
				delta = 1
			}
		}
		if delta == 0 {
			continue
		}

		progress := task.Progress + delta
		if progress > task.MaxProgress {
			progress = task.MaxProgress
		}
		if progress == task.Progress {
			continue
		}
		if err := tx.Model(task).Update("progress", progress).Error; err != nil {
			return fmt.Errorf("failed to advance task %s: %w", task.Code, err)
		}
	}

	return nil
}
