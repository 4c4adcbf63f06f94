package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"focus-planner/internal/model"
	"focus-planner/internal/repository"
)

// PlannerService manages shared workspaces and their memberships.
type PlannerService struct {
	plannerRepo *repository.PlannerRepository
	subRepo     *repository.SubscriptionRepository
	taskRepo    *repository.TaskRepository
}

func NewPlannerService(plannerRepo *repository.PlannerRepository, subRepo *repository.SubscriptionRepository, taskRepo *repository.TaskRepository) *PlannerService {
	return &PlannerService{plannerRepo: plannerRepo, subRepo: subRepo, taskRepo: taskRepo}
}

// Create makes a public planner owned by ownerID; the OWNER subscription is
// created in the same transaction.
func (s *PlannerService) Create(ctx context.Context, name string, ownerID uint) (*model.Planner, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	planner := model.Planner{
		Name:     name,
		OwnerID:  ownerID,
		IsPublic: true,
	}
	if err := s.plannerRepo.CreateWithOwner(ctx, &planner); err != nil {
		return nil, err
	}
	return &planner, nil
}

func (s *PlannerService) List(ctx context.Context) ([]model.Planner, error) {
	return s.plannerRepo.ListAll(ctx)
}

// Subscribe adds the user to the planner with role USER. A second subscribe
// for the same pair is rejected. The existence check and the insert are two
// statements, so concurrent double-submission can still race past it.
func (s *PlannerService) Subscribe(ctx context.Context, plannerID, userID uint) (*model.PlannerSubscription, error) {
	_, err := s.subRepo.Find(ctx, plannerID, userID)
	switch {
	case err == nil:
		return nil, ErrAlreadySubscribed
	case errors.Is(err, gorm.ErrRecordNotFound):
		// free to subscribe
	default:
		return nil, err
	}

	sub := model.PlannerSubscription{
		PlannerID: plannerID,
		UserID:    userID,
		Role:      model.RoleUser,
	}
	if err := s.subRepo.Create(ctx, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Unsubscribe removes the membership and the leaver's non-shared tasks in
// that planner, which clears any derived copies fanned out to them.
func (s *PlannerService) Unsubscribe(ctx context.Context, plannerID, userID uint) error {
	if err := s.subRepo.Delete(ctx, plannerID, userID); err != nil {
		return err
	}
	return s.taskRepo.DeletePlannerCopies(ctx, plannerID, userID)
}

func (s *PlannerService) Subscribers(ctx context.Context, plannerID uint) ([]model.PlannerSubscription, error) {
	return s.subRepo.ListByPlanner(ctx, plannerID)
}

// UpdateRole bulk-updates the matching membership rows, normally exactly one.
func (s *PlannerService) UpdateRole(ctx context.Context, plannerID, userID uint, role string) (int64, error) {
	switch role {
	case model.RoleOwner, model.RoleAdmin, model.RoleUser:
	default:
		return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return s.subRepo.UpdateRole(ctx, plannerID, userID, role)
}

func (s *PlannerService) UserSubscriptions(ctx context.Context, userID uint) ([]model.PlannerSubscription, error) {
	return s.subRepo.ListByUser(ctx, userID)
}
