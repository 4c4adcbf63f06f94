package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"focus-planner/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser returns every task owned by the user.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListVisible returns the user's own tasks plus shared tasks from the given
// planners, newest first.
func (r *TaskRepository) ListVisible(ctx context.Context, userID uint, plannerIDs []uint) ([]model.Task, error) {
	var tasks []model.Task
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(plannerIDs) > 0 {
		query = query.Or("planner_id IN ? AND is_shared = ?", plannerIDs, true)
	}
	if err := query.Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListDueBetween returns tasks whose deadline falls inside (from, to].
func (r *TaskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("deadline IS NOT NULL AND deadline > ? AND deadline <= ?", from, to).
		Order("deadline ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, id).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteDerivedCopies removes subscriber copies of a shared task by
// structural match: same planner, subscriber-owned, not shared, same title
// and description.
func (r *TaskRepository) DeleteDerivedCopies(ctx context.Context, plannerID uint, userIDs []uint, title, description string) error {
	if len(userIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Where("planner_id = ? AND user_id IN ? AND is_shared = ? AND title = ? AND description = ?",
			plannerID, userIDs, false, title, description).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete derived copies: %w", err)
	}
	return nil
}

// DeletePlannerCopies removes every non-shared task the user holds in the
// planner. Used when the user unsubscribes.
func (r *TaskRepository) DeletePlannerCopies(ctx context.Context, plannerID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("planner_id = ? AND user_id = ? AND is_shared = ?", plannerID, userID, false).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete planner copies: %w", err)
	}
	return nil
}
