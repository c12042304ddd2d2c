package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArunDev-07/apple-podcast-backend/internal/auth"
	"github.com/ArunDev-07/apple-podcast-backend/internal/util"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains authentication endpoints and middleware
type AuthHandlers struct {
	authService *auth.Service
}

// NewAuthHandlers creates auth handlers backed by the given service
func NewAuthHandlers(authService *auth.Service) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Register creates a new account
// POST /api/v1/auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid registration payload")
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			util.RespondConflictState(c, "an account with this email already exists", nil)
		case errors.Is(err, auth.ErrUsernameExists):
			util.RespondConflictState(c, "username already taken", nil)
		default:
			util.RespondInternalError(c, "failed to create account")
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates with email/password
// POST /api/v1/auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid login payload")
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondUnauthorized(c, "invalid email or password")
			return
		}
		util.RespondInternalError(c, "login failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// AuthMiddleware validates bearer tokens and loads the user into context.
// Fails closed: any resolution failure short-circuits with 401 before
// handler logic runs.
func (h *AuthHandlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			c.Abort()
			return
		}

		user, err := h.authService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}
