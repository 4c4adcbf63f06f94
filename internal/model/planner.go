package model

import "time"

// Subscriber roles within a planner.
const (
	RoleOwner = "OWNER"
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Planner is a shared task workspace owned by one user.
type Planner struct {
	ID            uint                  `gorm:"primaryKey" json:"id"`
	Name          string                `json:"name"`
	OwnerID       uint                  `gorm:"index" json:"owner_id"`
	IsPublic      bool                  `gorm:"default:true" json:"is_public"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Subscriptions []PlannerSubscription `gorm:"foreignKey:PlannerID" json:"subscriptions,omitempty"`
}

// PlannerSubscription is the membership of one user in one planner. At most
// one active row per (planner, user) pair, checked before insert.
type PlannerSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlannerID uint      `gorm:"index" json:"planner_id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Planner   *Planner  `gorm:"foreignKey:PlannerID" json:"planner,omitempty"`
}
