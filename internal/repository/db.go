package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"focus-planner/internal/model"
)

// Statuses seeded into an empty database.
var defaultStatuses = []model.Status{
	{Name: "planned", Description: "Task is planned but not started"},
	{Name: "in progress", Description: "Task is being worked on"},
	{Name: "done", Description: "Task is completed"},
}

// NewDB opens a SQLite database, runs migrations and seeds global statuses.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "focus_planner.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Status{},
		&model.Planner{},
		&model.PlannerSubscription{},
		&model.Task{},
		&model.Statistics{},
		&model.Device{},
	); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := seedStatuses(db); err != nil {
		return nil, fmt.Errorf("seed statuses: %w", err)
	}

	return db, nil
}

func seedStatuses(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Status{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	statuses := make([]model.Status, len(defaultStatuses))
	copy(statuses, defaultStatuses)
	return db.Create(&statuses).Error
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
