package dto

import (
	"time"

	"github.com/moesamiii/production/internal/models"
)

type SendMessageRequest struct {
	UserID   string `json:"user_id" binding:"required" validate:"required"`
	UserName string `json:"user_name" binding:"required" validate:"required,max=100"`
	Message  string `json:"message" binding:"required" validate:"required,max=4000"`
	IsAdmin  bool   `json:"is_admin"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Message   string    `json:"message"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMessageResponse(m *models.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Message:   m.Message,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
	}
}
