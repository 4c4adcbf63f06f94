package service

import (
	"context"
	"errors"
	"testing"

	"focus-planner/internal/model"
	"focus-planner/internal/repository"
)

func TestCreatePlannerAddsOwnerSubscription(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	svc := NewPlannerService(
		repository.NewPlannerRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewTaskRepository(db),
	)

	planner, err := svc.Create(ctx, "team", owner.ID)
	if err != nil {
		t.Fatalf("create planner: %v", err)
	}

	subs, err := svc.Subscribers(ctx, planner.ID)
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("want 1 subscription, got %d", len(subs))
	}
	if subs[0].UserID != owner.ID || subs[0].Role != model.RoleOwner {
		t.Errorf("owner subscription wrong: %+v", subs[0])
	}
}

func TestSubscribeTwiceIsRejected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	planner := createPlannerWithOwner(t, db, "team", owner.ID)

	svc := NewPlannerService(
		repository.NewPlannerRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewTaskRepository(db),
	)

	if _, err := svc.Subscribe(ctx, planner.ID, bob.ID); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	if _, err := svc.Subscribe(ctx, planner.ID, bob.ID); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("second subscribe: want ErrAlreadySubscribed, got %v", err)
	}

	subs, err := svc.Subscribers(ctx, planner.ID)
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("want owner + bob, got %d rows", len(subs))
	}
}

func TestUnsubscribeRemovesOnlyThatUsersCopies(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	plannerP := createPlannerWithOwner(t, db, "p", owner.ID)
	plannerQ := createPlannerWithOwner(t, db, "q", owner.ID)
	subscribeUser(t, db, plannerP.ID, bob.ID)
	subscribeUser(t, db, plannerQ.ID, bob.ID)

	taskSvc := newTaskService(db)
	// Shared task in P fans a copy out to bob.
	if _, err := taskSvc.Create(ctx, TaskInput{
		UserID:    owner.ID,
		PlannerID: &plannerP.ID,
		Title:     "shared in p",
		IsShared:  boolPtr(true),
	}); err != nil {
		t.Fatalf("create shared task in p: %v", err)
	}
	// Bob's own task in Q must survive the unsubscribe from P.
	if _, err := taskSvc.Create(ctx, TaskInput{
		UserID:    bob.ID,
		PlannerID: &plannerQ.ID,
		Title:     "own in q",
	}); err != nil {
		t.Fatalf("create bob's task in q: %v", err)
	}

	plannerSvc := NewPlannerService(
		repository.NewPlannerRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewTaskRepository(db),
	)
	if err := plannerSvc.Unsubscribe(ctx, plannerP.ID, bob.ID); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}

	tasks := userTasks(t, db, bob.ID)
	if len(tasks) != 1 {
		t.Fatalf("want only bob's q task to survive, got %d tasks", len(tasks))
	}
	if tasks[0].Title != "own in q" {
		t.Errorf("wrong survivor: %+v", tasks[0])
	}
	if n := len(userTasks(t, db, owner.ID)); n != 1 {
		t.Errorf("owner's shared source must be untouched, got %d", n)
	}

	subs, err := plannerSvc.Subscribers(ctx, plannerP.ID)
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	for _, sub := range subs {
		if sub.UserID == bob.ID {
			t.Error("bob's subscription row must be gone")
		}
	}
}

func TestUpdateRole(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	planner := createPlannerWithOwner(t, db, "team", owner.ID)
	subscribeUser(t, db, planner.ID, bob.ID)

	svc := NewPlannerService(
		repository.NewPlannerRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewTaskRepository(db),
	)

	updated, err := svc.UpdateRole(ctx, planner.ID, bob.ID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated != 1 {
		t.Errorf("want exactly one row updated, got %d", updated)
	}

	if _, err := svc.UpdateRole(ctx, planner.ID, bob.ID, "SUPERUSER"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown role must be rejected, got %v", err)
	}
}
