package model

import "time"

// Category groups tasks by area (work, health, rest, etc.). A user has at
// most one category per name; that is kept by find-or-create, not by a
// database constraint.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Name      string    `gorm:"index" json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
