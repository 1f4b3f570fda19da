package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lifebooster/core/internal/application/scheduler"
	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	store         *store.Store
	notifications *NotificationService
	scheduler     *scheduler.Scheduler
	logger        *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(st *store.Store, notifications *NotificationService, sched *scheduler.Scheduler, appLogger *logger.Logger) *TaskService {
	return &TaskService{
		store:         st,
		notifications: notifications,
		scheduler:     sched,
		logger:        appLogger,
	}
}

// CreateTask appends a task for a calendar day. A task with a reminder time
// additionally arms best-effort deliveries and records an in-app trace that a
// reminder was set.
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, entities.ErrEmptyText
	}

	task := entities.Task{
		ID:         entities.NewID(),
		Text:       text,
		Completed:  false,
		IsPriority: req.IsPriority,
		Date:       req.Date,
		Time:       req.Time,
	}

	snap := s.store.Snapshot()
	next := append(snap.Tasks, task)

	if err := s.store.Apply(ctx, store.Patch{Tasks: &next}); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if req.Time != "" {
		if err := s.scheduler.Schedule(text, req.Time, time.Now()); err != nil {
			s.logger.Warnw("Failed to arm reminder", "error", err, "task_id", task.ID)
		}
		message := fmt.Sprintf("We'll remind you 10 mins before: %q", text)
		if _, err := s.notifications.Add(ctx, "Reminder Set", message, entities.NotificationInfo); err != nil {
			s.logger.Warnw("Failed to record reminder notification", "error", err)
		}
	}

	s.logger.Info("Task created", "task_id", task.ID, "date", task.Date)

	return &task, nil
}

// ToggleTask flips a task's completed flag.
func (s *TaskService) ToggleTask(ctx context.Context, id string) (*entities.Task, error) {
	snap := s.store.Snapshot()

	var toggled *entities.Task
	next := make([]entities.Task, len(snap.Tasks))
	for i, t := range snap.Tasks {
		t := t
		if t.ID == id {
			t.Completed = !t.Completed
			toggled = &t
		}
		next[i] = t
	}
	if toggled == nil {
		return nil, entities.ErrTaskNotFound
	}

	if err := s.store.Apply(ctx, store.Patch{Tasks: &next}); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return toggled, nil
}

// SetPriority flips a task's priority flag.
func (s *TaskService) SetPriority(ctx context.Context, id string, priority bool) (*entities.Task, error) {
	snap := s.store.Snapshot()

	var updated *entities.Task
	next := make([]entities.Task, len(snap.Tasks))
	for i, t := range snap.Tasks {
		t := t
		if t.ID == id {
			t.IsPriority = priority
			updated = &t
		}
		next[i] = t
	}
	if updated == nil {
		return nil, entities.ErrTaskNotFound
	}

	if err := s.store.Apply(ctx, store.Patch{Tasks: &next}); err != nil {
		return nil, fmt.Errorf("failed to update task priority: %w", err)
	}

	return updated, nil
}

// TasksForDay returns the tasks whose calendar day matches.
func (s *TaskService) TasksForDay(ctx context.Context, day string) []entities.Task {
	var out []entities.Task
	for _, t := range s.store.Snapshot().Tasks {
		if t.Date == day {
			out = append(out, t)
		}
	}
	return out
}

// ListTasks returns every live task.
func (s *TaskService) ListTasks(ctx context.Context) []entities.Task {
	return s.store.Snapshot().Tasks
}
