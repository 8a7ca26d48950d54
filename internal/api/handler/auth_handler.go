package handler

import (
	"net/http"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(as *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var dto domain.SignupUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Không thể đăng ký người dùng")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created", "user_id": user.ID})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var dto domain.LoginUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Lỗi đăng nhập")
		return
	}
	c.JSON(http.StatusOK, authResponse)
}
