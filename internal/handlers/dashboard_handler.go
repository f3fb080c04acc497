package handlers

import (
	"net/http"

	"checkmate/internal/auth"
	"checkmate/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DashboardHandler serves the reviewer dashboard and leaderboard
type DashboardHandler struct {
	reviewers   *services.ReviewerService
	leaderboard *services.LeaderboardService
	log         zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(reviewers *services.ReviewerService, leaderboard *services.LeaderboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		reviewers:   reviewers,
		leaderboard: leaderboard,
		log:         log,
	}
}

// GetDashboard returns the caller's dashboard
// GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	reviewerID, ok := auth.GetReviewerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	dash, err := h.reviewers.Dashboard(c.Request.Context(), reviewerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}

// GetLeaderboard returns the ranked reviewers
// GET /api/leaderboard
func (h *DashboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.leaderboard.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
