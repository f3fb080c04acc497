package handlers

import (
	"net/http"

	"checkmate/internal/auth"
	"checkmate/internal/models"
	"checkmate/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService     *services.AuthService
	reviewerService *services.ReviewerService
	log             zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, reviewerService *services.ReviewerService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		reviewerService: reviewerService,
		log:             log,
	}
}

// Login exchanges reviewer credentials for a JWT
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, profile, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"reviewer": profile,
	})
}

// Me returns the authenticated reviewer's profile
// GET /api/reviewers/me
func (h *AuthHandler) Me(c *gin.Context) {
	reviewerID, ok := auth.GetReviewerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.reviewerService.GetProfile(c.Request.Context(), reviewerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
