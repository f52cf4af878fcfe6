package dto

import "time"

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required" validate:"required"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
