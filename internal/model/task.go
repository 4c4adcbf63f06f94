package model

import "time"

// Task represents a single item in the planner.
//
// A task with IsShared=true and a PlannerID is the source of truth for its
// planner; subscriber copies are separate rows with IsShared=false and their
// own UserID. Copies carry no back-link to the source task.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index" json:"user_id"`
	PlannerID   *uint      `gorm:"index" json:"planner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CategoryID  *uint      `gorm:"index" json:"category_id"`
	Priority    int        `gorm:"default:1" json:"priority"`
	StatusID    *uint      `gorm:"index" json:"status_id"`
	StartTime   *time.Time `json:"start_time"`
	Duration    *int       `json:"duration"`
	Deadline    *time.Time `json:"deadline"`
	IsShared    bool       `gorm:"default:false" json:"is_shared"`
	IsRepeating bool       `gorm:"default:false" json:"is_repeating"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
