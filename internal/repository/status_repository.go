package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"focus-planner/internal/model"
)

// StatusRepository handles CRUD for global task statuses.
type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

func (r *StatusRepository) Create(ctx context.Context, status *model.Status) error {
	if err := r.db.WithContext(ctx).Create(status).Error; err != nil {
		return fmt.Errorf("create status: %w", err)
	}
	return nil
}

func (r *StatusRepository) GetByID(ctx context.Context, id uint) (*model.Status, error) {
	var status model.Status
	if err := r.db.WithContext(ctx).First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *StatusRepository) ListAll(ctx context.Context) ([]model.Status, error) {
	var statuses []model.Status
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *StatusRepository) Save(ctx context.Context, status *model.Status) error {
	if err := r.db.WithContext(ctx).Save(status).Error; err != nil {
		return fmt.Errorf("save status: %w", err)
	}
	return nil
}

func (r *StatusRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Status{}, id).Error; err != nil {
		return fmt.Errorf("delete status: %w", err)
	}
	return nil
}
