package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/b0ase/backend/internal/config"
	"github.com/b0ase/backend/internal/middleware"
	"github.com/b0ase/backend/internal/services"
	"github.com/b0ase/backend/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, &cfg.JWT),
	}
}

type loginResponse struct {
	Token           string      `json:"token"`
	ExpireAt        string      `json:"expire_at"`
	RefreshToken    string      `json:"refresh_token"`
	RefreshExpireAt string      `json:"refresh_expire_at"`
	User            interface{} `json:"user"`
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		services.LogWarning("Auth", "Login", "login failed for "+req.Username, nil, c.ClientIP(), c.Request.UserAgent(), nil)
		response.Unauthorized(c, err.Error())
		return
	}

	services.LogInfo("Auth", "Login", req.Username+" logged in", &result.User.ID, c.ClientIP(), c.Request.UserAgent(), nil)

	response.Success(c, loginResponse{
		Token:           result.AccessToken,
		ExpireAt:        result.AccessExpireAt.Format("2006-01-02T15:04:05Z07:00"),
		RefreshToken:    result.RefreshToken,
		RefreshExpireAt: result.RefreshExpireAt.Format("2006-01-02T15:04:05Z07:00"),
		User:            result.User,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates the refresh token and issues a new access token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Refresh(req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"token":             result.AccessToken,
		"expire_at":         result.AccessExpireAt,
		"refresh_token":     result.RefreshToken,
		"refresh_expire_at": result.RefreshExpireAt,
	})
}

// Logout revokes the presented refresh token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		if err := h.authService.RevokeRefreshToken(req.RefreshToken); err != nil {
			response.ServerError(c, err.Error())
			return
		}
	}
	response.Success(c, gin.H{"message": "logged out"})
}

// Me returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.Success(c, user)
}

// ChangePassword updates the current user's password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ChangePassword(middleware.GetUserID(c), &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "password changed"})
}

// CreateAdminIfNotExists creates the default admin user on boot.
func (h *AuthHandler) CreateAdminIfNotExists() error {
	return h.authService.CreateAdminIfNotExists()
}
