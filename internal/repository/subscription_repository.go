package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"focus-planner/internal/model"
)

// SubscriptionRepository manages planner membership rows.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Find(ctx context.Context, plannerID, userID uint) (*model.PlannerSubscription, error) {
	var sub model.PlannerSubscription
	if err := r.db.WithContext(ctx).
		Where("planner_id = ? AND user_id = ?", plannerID, userID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.PlannerSubscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// Delete removes every subscription row for the pair; normally exactly one.
func (r *SubscriptionRepository) Delete(ctx context.Context, plannerID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("planner_id = ? AND user_id = ?", plannerID, userID).
		Delete(&model.PlannerSubscription{}).Error; err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// ListByPlanner returns all subscribers of a planner with user detail.
func (r *SubscriptionRepository) ListByPlanner(ctx context.Context, plannerID uint) ([]model.PlannerSubscription, error) {
	var subs []model.PlannerSubscription
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("planner_id = ?", plannerID).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ListByUser returns all of a user's subscriptions with planner detail.
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID uint) ([]model.PlannerSubscription, error) {
	var subs []model.PlannerSubscription
	if err := r.db.WithContext(ctx).
		Preload("Planner").
		Where("user_id = ?", userID).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// UpdateRole changes the role on every row matching the pair and reports how
// many rows were touched.
func (r *SubscriptionRepository) UpdateRole(ctx context.Context, plannerID, userID uint, role string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.PlannerSubscription{}).
		Where("planner_id = ? AND user_id = ?", plannerID, userID).
		Update("role", role)
	if res.Error != nil {
		return 0, fmt.Errorf("update role: %w", res.Error)
	}
	return res.RowsAffected, nil
}
