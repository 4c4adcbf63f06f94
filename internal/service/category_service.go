package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"focus-planner/internal/model"
	"focus-planner/internal/repository"
)

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, userID uint) ([]model.Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ResolveForUser maps a source category onto the target user's categories.
// A nil source or a source that no longer exists resolves to nil, the task
// simply loses its category. A name match on the target user reuses that
// category; otherwise a new one is cloned from the source's name and color.
func (s *CategoryService) ResolveForUser(ctx context.Context, sourceCategoryID *uint, targetUserID uint) (*uint, error) {
	if sourceCategoryID == nil {
		return nil, nil
	}

	source, err := s.repo.GetByID(ctx, *sourceCategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	category, err := s.repo.GetOrCreate(ctx, targetUserID, source.Name, source.Color)
	if err != nil {
		return nil, err
	}
	id := category.ID
	return &id, nil
}
