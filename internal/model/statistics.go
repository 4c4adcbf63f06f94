package model

import "time"

// Statistics is a productivity snapshot for one user. The most recent row
// (highest ID) is the active snapshot; recomputation updates it in place.
type Statistics struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"index" json:"user_id"`
	Period             string    `json:"period"`
	CompletedPercent   int       `json:"completed_percent"`
	OverloadDays       int       `json:"overload_days"`
	CategoryBalance    float64   `json:"category_balance"`
	RecommendationText string    `json:"recommendation_text"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
