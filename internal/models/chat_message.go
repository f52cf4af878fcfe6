package models

import "time"

// ChatMessage is immutable and append-only once created. The serial id
// keeps creation order; display order is non-decreasing by CreatedAt.
type ChatMessage struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string `gorm:"index;not null" json:"user_id"`
	UserName string `gorm:"not null" json:"user_name"`
	Message  string `gorm:"type:text;not null" json:"message"`

	// IsAdmin snapshots the sender's admin flag at send time; it is not
	// re-resolved when the message is displayed later.
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
