package models

import "time"

// ChatSession groups the messages of one assistant conversation.
type ChatSession struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is a single turn in a session. IsUser distinguishes the
// visitor's messages from the assistant's.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:36;not null;index" json:"session_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsUser    bool      `gorm:"not null" json:"is_user"`
	CreatedAt time.Time `json:"created_at"`
}
