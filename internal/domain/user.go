package domain

import "time"

type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"-"` // Không bao giờ trả về password hash trong JSON
	IsDisabled bool      `json:"is_disabled"`
	IsElderly  bool      `json:"is_elderly"`
	CreatedAt  time.Time `json:"created_at"`
}

type SignupUserDTO struct {
	Username   string `json:"username" binding:"required,min=3,max=50"`
	Password   string `json:"password" binding:"required,min=4,max=100"`
	IsDisabled bool   `json:"is_disabled"`
	IsElderly  bool   `json:"is_elderly"`
}

type LoginUserDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponseDTO struct {
	Token      string `json:"token"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	IsDisabled bool   `json:"is_disabled"`
	IsElderly  bool   `json:"is_elderly"`
}
