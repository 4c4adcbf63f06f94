package service

import (
	"context"
	"errors"
	"testing"

	"focus-planner/internal/model"
	"focus-planner/internal/repository"
)

func TestCreateSharedTaskFansOutToSubscribers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	carol := createUser(t, db, "carol@example.com")
	planner := createPlannerWithOwner(t, db, "team", owner.ID)
	subscribeUser(t, db, planner.ID, bob.ID)
	subscribeUser(t, db, planner.ID, carol.ID)

	category := createCategory(t, db, owner.ID, "Work", "#ff0000")

	svc := newTaskService(db)
	task, err := svc.Create(ctx, TaskInput{
		UserID:      owner.ID,
		PlannerID:   &planner.ID,
		Title:       "Ship release",
		Description: "cut the branch",
		CategoryID:  &category.ID,
		IsShared:    boolPtr(true),
	})
	if err != nil {
		t.Fatalf("create shared task: %v", err)
	}
	if !task.IsShared {
		t.Fatal("source task must stay shared")
	}

	for _, subscriber := range []*model.User{bob, carol} {
		tasks := userTasks(t, db, subscriber.ID)
		if len(tasks) != 1 {
			t.Fatalf("user %d: want 1 derived task, got %d", subscriber.ID, len(tasks))
		}
		derived := tasks[0]
		if derived.IsShared {
			t.Errorf("user %d: derived task must not be shared", subscriber.ID)
		}
		if derived.Title != "Ship release" || derived.Description != "cut the branch" {
			t.Errorf("user %d: derived task fields not copied: %+v", subscriber.ID, derived)
		}
		if derived.CategoryID == nil {
			t.Fatalf("user %d: derived task lost its category", subscriber.ID)
		}
		cat, err := repository.NewCategoryRepository(db).GetByID(ctx, *derived.CategoryID)
		if err != nil {
			t.Fatalf("load derived category: %v", err)
		}
		if cat.UserID != subscriber.ID {
			t.Errorf("derived category belongs to user %d, want %d", cat.UserID, subscriber.ID)
		}
		if cat.Name != "Work" || cat.Color != "#ff0000" {
			t.Errorf("derived category not cloned: %+v", cat)
		}
	}

	if n := len(userTasks(t, db, owner.ID)); n != 1 {
		t.Errorf("owner must keep exactly the source task, got %d", n)
	}
}

func TestFanOutReusesExistingCategory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	planner := createPlannerWithOwner(t, db, "team", owner.ID)
	subscribeUser(t, db, planner.ID, bob.ID)

	source := createCategory(t, db, owner.ID, "Work", "#ff0000")
	existing := createCategory(t, db, bob.ID, "Work", "#00ff00")

	svc := newTaskService(db)
	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, TaskInput{
			UserID:     owner.ID,
			PlannerID:  &planner.ID,
			Title:      "Report",
			CategoryID: &source.ID,
			IsShared:   boolPtr(true),
		})
		if err != nil {
			t.Fatalf("create shared task #%d: %v", i, err)
		}
	}

	categories, err := repository.NewCategoryRepository(db).ListByUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list bob categories: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("want 1 category for bob, got %d", len(categories))
	}
	if categories[0].ID != existing.ID {
		t.Errorf("resolver must reuse bob's category %d, created %d", existing.ID, categories[0].ID)
	}
	if categories[0].Color != "#00ff00" {
		t.Errorf("existing category color must not be overwritten: %q", categories[0].Color)
	}
}

func TestMissingSourceCategoryResolvesToNone(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	planner := createPlannerWithOwner(t, db, "team", owner.ID)
	subscribeUser(t, db, planner.ID, bob.ID)

	ghost := uint(9999)
	svc := newTaskService(db)
	if _, err := svc.Create(ctx, TaskInput{
		UserID:     owner.ID,
		PlannerID:  &planner.ID,
		Title:      "Orphaned",
		CategoryID: &ghost,
		IsShared:   boolPtr(true),
	}); err != nil {
		t.Fatalf("create shared task: %v", err)
	}

	tasks := userTasks(t, db, bob.ID)
	if len(tasks) != 1 {
		t.Fatalf("want 1 derived task, got %d", len(tasks))
	}
	if tasks[0].CategoryID != nil {
		t.Errorf("vanished source category must resolve to nil, got %d", *tasks[0].CategoryID)
	}
}

func TestUpdatePrivateToSharedFansOut(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	planner := createPlannerWithOwner(t, db, "team", owner.ID)
	subscribeUser(t, db, planner.ID, bob.ID)

	svc := newTaskService(db)
	task, err := svc.Create(ctx, TaskInput{
		UserID:    owner.ID,
		PlannerID: &planner.ID,
		Title:     "Draft",
		IsShared:  boolPtr(false),
	})
	if err != nil {
		t.Fatalf("create private task: %v", err)
	}
	if n := len(userTasks(t, db, bob.ID)); n != 0 {
		t.Fatalf("private task must not fan out, bob has %d tasks", n)
	}

	// Flip to shared with updated values; copies use the new title.
	if _, err := svc.Update(ctx, task.ID, TaskInput{
		UserID:    owner.ID,
		PlannerID: &planner.ID,
		Title:     "Final",
		IsShared:  boolPtr(true),
	}); err != nil {
		t.Fatalf("update to shared: %v", err)
	}

	tasks := userTasks(t, db, bob.ID)
	if len(tasks) != 1 {
		t.Fatalf("want 1 derived task after edge, got %d", len(tasks))
	}
	if tasks[0].Title != "Final" {
		t.Errorf("copy must use updated values, got title %q", tasks[0].Title)
	}
}

func TestUpdateSharedToPrivateRemovesCopies(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	planner := createPlannerWithOwner(t, db, "team", owner.ID)
	subscribeUser(t, db, planner.ID, bob.ID)

	svc := newTaskService(db)
	task, err := svc.Create(ctx, TaskInput{
		UserID:      owner.ID,
		PlannerID:   &planner.ID,
		Title:       "Shared",
		Description: "body",
		IsShared:    boolPtr(true),
	})
	if err != nil {
		t.Fatalf("create shared task: %v", err)
	}
	if n := len(userTasks(t, db, bob.ID)); n != 1 {
		t.Fatalf("want bob to hold a copy, got %d", n)
	}

	if _, err := svc.Update(ctx, task.ID, TaskInput{
		UserID:      owner.ID,
		PlannerID:   &planner.ID,
		Title:       "Shared",
		Description: "body",
		IsShared:    boolPtr(false),
	}); err != nil {
		t.Fatalf("update to private: %v", err)
	}

	if n := len(userTasks(t, db, bob.ID)); n != 0 {
		t.Errorf("copies must be removed on shared to private, bob still has %d", n)
	}
	if n := len(userTasks(t, db, owner.ID)); n != 1 {
		t.Errorf("owner's task must survive, got %d", n)
	}
}

func TestUpdateWithoutEdgeLeavesCopiesAlone(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	planner := createPlannerWithOwner(t, db, "team", owner.ID)
	subscribeUser(t, db, planner.ID, bob.ID)

	svc := newTaskService(db)
	task, err := svc.Create(ctx, TaskInput{
		UserID:    owner.ID,
		PlannerID: &planner.ID,
		Title:     "Before",
		IsShared:  boolPtr(true),
	})
	if err != nil {
		t.Fatalf("create shared task: %v", err)
	}

	// Still shared, only the title changes: no propagation side effect.
	if _, err := svc.Update(ctx, task.ID, TaskInput{
		UserID:    owner.ID,
		PlannerID: &planner.ID,
		Title:     "After",
		IsShared:  boolPtr(true),
	}); err != nil {
		t.Fatalf("update shared task: %v", err)
	}

	tasks := userTasks(t, db, bob.ID)
	if len(tasks) != 1 {
		t.Fatalf("copy count must not change, got %d", len(tasks))
	}
	if tasks[0].Title != "Before" {
		t.Errorf("copies are never edited in place, got title %q", tasks[0].Title)
	}
}

func TestUpdateMissingTask(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)

	_, err := svc.Update(context.Background(), 42, TaskInput{Title: "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateOmittingShareFlagKeepsCopies(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	bob := createUser(t, db, "bob@example.com")
	planner := createPlannerWithOwner(t, db, "team", owner.ID)
	subscribeUser(t, db, planner.ID, bob.ID)

	svc := newTaskService(db)
	task, err := svc.Create(ctx, TaskInput{
		UserID:      owner.ID,
		PlannerID:   &planner.ID,
		Title:       "Quarterly report",
		Description: "numbers",
		IsShared:    boolPtr(true),
	})
	if err != nil {
		t.Fatalf("create shared task: %v", err)
	}

	// A partial update that never mentions is_shared must not read as a
	// shared to private transition.
	done := doneStatusID(t, db)
	updated, err := svc.Update(ctx, task.ID, TaskInput{
		UserID:      owner.ID,
		PlannerID:   &planner.ID,
		Title:       "Quarterly report",
		Description: "numbers",
		StatusID:    &done,
	})
	if err != nil {
		t.Fatalf("partial update: %v", err)
	}
	if !updated.IsShared {
		t.Error("task flipped to private on an update that omitted is_shared")
	}
	if n := len(userTasks(t, db, bob.ID)); n != 1 {
		t.Errorf("bob's derived copy must survive the partial update, got %d tasks", n)
	}
}

func TestUpdateOmittingRepeatFlagKeepsValue(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com")

	svc := newTaskService(db)
	task, err := svc.Create(ctx, TaskInput{
		UserID:      owner.ID,
		Title:       "Water plants",
		IsRepeating: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	updated, err := svc.Update(ctx, task.ID, TaskInput{
		UserID: owner.ID,
		Title:  "Water the plants",
	})
	if err != nil {
		t.Fatalf("partial update: %v", err)
	}
	if !updated.IsRepeating {
		t.Error("is_repeating reset by an update that omitted it")
	}
}
