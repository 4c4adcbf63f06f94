package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"focus-planner/internal/model"
	"focus-planner/internal/repository"
)

// newTestDB opens a throwaway in-memory store, migrated and seeded like the
// real one. Each test gets its own database keyed by the test name.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repository.NewDB(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := model.User{Email: email, Name: email, PasswordHash: "x"}
	if err := repository.NewUserRepository(db).Create(context.Background(), &user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return &user
}

func createPlannerWithOwner(t *testing.T, db *gorm.DB, name string, ownerID uint) *model.Planner {
	t.Helper()
	planner := model.Planner{Name: name, OwnerID: ownerID, IsPublic: true}
	if err := repository.NewPlannerRepository(db).CreateWithOwner(context.Background(), &planner); err != nil {
		t.Fatalf("create planner %s: %v", name, err)
	}
	return &planner
}

func subscribeUser(t *testing.T, db *gorm.DB, plannerID, userID uint) {
	t.Helper()
	sub := model.PlannerSubscription{PlannerID: plannerID, UserID: userID, Role: model.RoleUser}
	if err := repository.NewSubscriptionRepository(db).Create(context.Background(), &sub); err != nil {
		t.Fatalf("subscribe user %d: %v", userID, err)
	}
}

func createCategory(t *testing.T, db *gorm.DB, userID uint, name, color string) *model.Category {
	t.Helper()
	category := model.Category{UserID: userID, Name: name, Color: color}
	if err := repository.NewCategoryRepository(db).Create(context.Background(), &category); err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return &category
}

func newTaskService(db *gorm.DB) *TaskService {
	return NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewSubscriptionRepository(db),
		NewCategoryService(repository.NewCategoryRepository(db)),
	)
}

func userTasks(t *testing.T, db *gorm.DB, userID uint) []model.Task {
	t.Helper()
	tasks, err := repository.NewTaskRepository(db).ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("list tasks for user %d: %v", userID, err)
	}
	return tasks
}

// doneStatusID returns the seeded "done" status.
func doneStatusID(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	statuses, err := repository.NewStatusRepository(db).ListAll(context.Background())
	if err != nil {
		t.Fatalf("list statuses: %v", err)
	}
	for _, status := range statuses {
		if strings.EqualFold(status.Name, "done") {
			return status.ID
		}
	}
	t.Fatal("seeded done status missing")
	return 0
}

// openStatusID returns the seeded "in progress" status.
func openStatusID(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	statuses, err := repository.NewStatusRepository(db).ListAll(context.Background())
	if err != nil {
		t.Fatalf("list statuses: %v", err)
	}
	for _, status := range statuses {
		if strings.EqualFold(status.Name, "in progress") {
			return status.ID
		}
	}
	t.Fatal("seeded in progress status missing")
	return 0
}

func boolPtr(v bool) *bool { return &v }
