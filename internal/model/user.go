package model

import "time"

// User is an account that owns tasks, categories, planners and devices.
// The json tag hides the password hash from every response.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash   string     `json:"-"`
	Name           string     `json:"name"`
	LastName       string     `json:"last_name"`
	BirthDate      *time.Time `json:"birth_date"`
	TelegramChatID int64      `json:"telegram_chat_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
