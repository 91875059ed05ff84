package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-management/backend/internal/logging"
	"task-management/backend/internal/models"
	"task-management/backend/internal/repositories"
	"task-management/backend/internal/services"
)

// AuthHandler は認証関連のハンドラーを管理します。
type AuthHandler struct {
	authService *services.AuthService
	jwtService  *services.JWTService
}

// NewAuthHandler は新しいAuthHandlerを作成します。
func NewAuthHandler(authService *services.AuthService, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{authService: authService, jwtService: jwtService}
}

// LoginHandler はログインを処理し、アクセストークンを発行します。
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": "Invalid request payload"})
		return
	}

	user, err := h.authService.Login(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "auth_error", "message": "Unknown user"})
			return
		}
		logging.Logger.Errorf("Login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Internal server error"})
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		logging.Logger.Errorf("Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

// GetUsersHandler はアサイン先一覧用のユーザーリストを返します。
func (h *AuthHandler) GetUsersHandler(c *gin.Context) {
	users, err := h.authService.Users()
	if err != nil {
		logging.Logger.Errorf("Failed to fetch users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}
