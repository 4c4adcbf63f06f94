package model

import "time"

// Status is global and shared across all users. Completion is detected by a
// case-insensitive match on the status name.
type Status struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"index" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
