package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"focus-planner/internal/model"
)

// StatisticsRepository stores productivity snapshots.
type StatisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

func (r *StatisticsRepository) Create(ctx context.Context, stat *model.Statistics) error {
	if err := r.db.WithContext(ctx).Create(stat).Error; err != nil {
		return fmt.Errorf("create statistics: %w", err)
	}
	return nil
}

func (r *StatisticsRepository) GetByID(ctx context.Context, id uint) (*model.Statistics, error) {
	var stat model.Statistics
	if err := r.db.WithContext(ctx).First(&stat, id).Error; err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *StatisticsRepository) ListAll(ctx context.Context) ([]model.Statistics, error) {
	var stats []model.Statistics
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// LatestByUser returns the most recent snapshot of the user, highest ID wins.
func (r *StatisticsRepository) LatestByUser(ctx context.Context, userID uint) (*model.Statistics, error) {
	var stat model.Statistics
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&stat).Error; err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *StatisticsRepository) Save(ctx context.Context, stat *model.Statistics) error {
	if err := r.db.WithContext(ctx).Save(stat).Error; err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	return nil
}

func (r *StatisticsRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Statistics{}, id).Error; err != nil {
		return fmt.Errorf("delete statistics: %w", err)
	}
	return nil
}
