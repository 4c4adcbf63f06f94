package model

import "time"

// Device states persisted for the focus-timer peripheral.
const (
	DeviceActive   = "active"
	DeviceInactive = "inactive"
)

// Device is a focus-timer peripheral bound to a user. Only State and
// LastSync survive restarts; pending commands live in memory.
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ESPID     string    `gorm:"column:esp_id" json:"esp_id"`
	State     string    `gorm:"default:inactive" json:"state"`
	LastSync  time.Time `json:"last_sync"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
