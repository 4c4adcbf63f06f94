package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"focus-planner/internal/model"
	"focus-planner/internal/repository"
)

// TaskInput represents data required to create or replace a task. The flag
// fields are pointers so an absent flag reads as "leave unchanged" on update
// rather than false.
type TaskInput struct {
	UserID      uint       `json:"user_id"`
	PlannerID   *uint      `json:"planner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CategoryID  *uint      `json:"category_id"`
	Priority    int        `json:"priority"`
	StatusID    *uint      `json:"status_id"`
	StartTime   *time.Time `json:"start_time"`
	Duration    *int       `json:"duration"`
	Deadline    *time.Time `json:"deadline"`
	IsShared    *bool      `json:"is_shared"`
	IsRepeating *bool      `json:"is_repeating"`
}

// TaskService wraps task CRUD and the shared-task propagation logic.
type TaskService struct {
	taskRepo    *repository.TaskRepository
	subRepo     *repository.SubscriptionRepository
	categorySvc *CategoryService
}

func NewTaskService(taskRepo *repository.TaskRepository, subRepo *repository.SubscriptionRepository, categorySvc *CategoryService) *TaskService {
	return &TaskService{taskRepo: taskRepo, subRepo: subRepo, categorySvc: categorySvc}
}

// Create stores the task and, when it is shared inside a planner, fans a
// private copy out to every other subscriber.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Priority == 0 {
		input.Priority = 1
	}

	task := model.Task{
		UserID:      input.UserID,
		PlannerID:   input.PlannerID,
		Title:       input.Title,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Priority:    input.Priority,
		StatusID:    input.StatusID,
		StartTime:   input.StartTime,
		Duration:    input.Duration,
		Deadline:    input.Deadline,
	}
	if input.IsShared != nil {
		task.IsShared = *input.IsShared
	}
	if input.IsRepeating != nil {
		task.IsRepeating = *input.IsRepeating
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	if task.IsShared && task.PlannerID != nil {
		s.fanOut(ctx, &task)
	}

	return &task, nil
}

// Update replaces the task's fields and fires propagation when the task
// crosses the is_shared boundary in either direction. Copies are never
// touched while the flag stays put, even if other fields change.
func (s *TaskService) Update(ctx context.Context, taskID uint, input TaskInput) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	if err != nil {
		return nil, err
	}

	wasShared := task.IsShared

	task.Title = input.Title
	task.Description = input.Description
	task.StatusID = input.StatusID
	if input.Priority != 0 {
		task.Priority = input.Priority
	}
	task.StartTime = input.StartTime
	task.Duration = input.Duration
	task.Deadline = input.Deadline
	if input.IsRepeating != nil {
		task.IsRepeating = *input.IsRepeating
	}
	if input.CategoryID != nil {
		task.CategoryID = input.CategoryID
	}
	if input.PlannerID != nil {
		task.PlannerID = input.PlannerID
	}
	if input.IsShared != nil {
		task.IsShared = *input.IsShared
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	switch {
	case !wasShared && task.IsShared && task.PlannerID != nil:
		s.fanOut(ctx, task)
	case wasShared && !task.IsShared && task.PlannerID != nil:
		if err := s.removeCopies(ctx, task); err != nil {
			return nil, err
		}
	}

	return task, nil
}

// List returns the user's own tasks plus shared tasks from every planner the
// user is subscribed to.
func (s *TaskService) List(ctx context.Context, userID uint) ([]model.Task, error) {
	subs, err := s.subRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	plannerIDs := make([]uint, 0, len(subs))
	for _, sub := range subs {
		plannerIDs = append(plannerIDs, sub.PlannerID)
	}
	return s.taskRepo.ListVisible(ctx, userID, plannerIDs)
}

// Delete removes the owner's task; subscriber copies stay untouched.
func (s *TaskService) Delete(ctx context.Context, taskID uint) error {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}

// fanOut creates a private copy of the shared task for every subscriber of
// its planner except the owner. Each copy is best-effort: one subscriber
// failing does not roll back the source task or sibling copies.
func (s *TaskService) fanOut(ctx context.Context, task *model.Task) {
	subs, err := s.subRepo.ListByPlanner(ctx, *task.PlannerID)
	if err != nil {
		log.Printf("share task %d: list subscribers: %v", task.ID, err)
		return
	}

	for _, sub := range subs {
		if sub.UserID == task.UserID {
			continue
		}

		categoryID, err := s.categorySvc.ResolveForUser(ctx, task.CategoryID, sub.UserID)
		if err != nil {
			log.Printf("share task %d with user %d: resolve category: %v", task.ID, sub.UserID, err)
			continue
		}

		clone := model.Task{
			UserID:      sub.UserID,
			PlannerID:   task.PlannerID,
			Title:       task.Title,
			Description: task.Description,
			CategoryID:  categoryID,
			Priority:    task.Priority,
			StatusID:    task.StatusID,
			StartTime:   task.StartTime,
			Duration:    task.Duration,
			Deadline:    task.Deadline,
			IsShared:    false,
			IsRepeating: task.IsRepeating,
		}
		if err := s.taskRepo.Create(ctx, &clone); err != nil {
			log.Printf("share task %d with user %d: %v", task.ID, sub.UserID, err)
		}
	}
}

// removeCopies deletes subscriber copies after a shared task went private.
// Copies carry no link to their source, so the match is structural (planner,
// other subscribers, not shared, same title and description) and can over- or
// under-delete when two shared tasks in one planner collide on both fields.
func (s *TaskService) removeCopies(ctx context.Context, task *model.Task) error {
	subs, err := s.subRepo.ListByPlanner(ctx, *task.PlannerID)
	if err != nil {
		return err
	}

	subscriberIDs := make([]uint, 0, len(subs))
	for _, sub := range subs {
		if sub.UserID != task.UserID {
			subscriberIDs = append(subscriberIDs, sub.UserID)
		}
	}

	return s.taskRepo.DeleteDerivedCopies(ctx, *task.PlannerID, subscriberIDs, task.Title, task.Description)
}
