package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"focus-planner/internal/model"
)

// PlannerRepository manages shared planner workspaces.
type PlannerRepository struct {
	db *gorm.DB
}

func NewPlannerRepository(db *gorm.DB) *PlannerRepository {
	return &PlannerRepository{db: db}
}

// CreateWithOwner creates the planner together with its OWNER subscription
// in one transaction, so a planner can never exist without its owner row.
func (r *PlannerRepository) CreateWithOwner(ctx context.Context, planner *model.Planner) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(planner).Error; err != nil {
			return err
		}
		sub := model.PlannerSubscription{
			PlannerID: planner.ID,
			UserID:    planner.OwnerID,
			Role:      model.RoleOwner,
		}
		return tx.Create(&sub).Error
	})
	if err != nil {
		return fmt.Errorf("create planner: %w", err)
	}
	return nil
}

func (r *PlannerRepository) GetByID(ctx context.Context, id uint) (*model.Planner, error) {
	var planner model.Planner
	if err := r.db.WithContext(ctx).First(&planner, id).Error; err != nil {
		return nil, err
	}
	return &planner, nil
}

// ListAll returns every planner with its subscribers and their user detail.
func (r *PlannerRepository) ListAll(ctx context.Context) ([]model.Planner, error) {
	var planners []model.Planner
	if err := r.db.WithContext(ctx).
		Preload("Subscriptions.User").
		Order("id ASC").
		Find(&planners).Error; err != nil {
		return nil, err
	}
	return planners, nil
}
