package handlers

import (
	"net/http"

	"checkmate/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups everything RegisterRoutes wires
type Handlers struct {
	Auth        *AuthHandler
	Submissions *SubmissionHandler
	Dashboard   *DashboardHandler
	Admin       *AdminHandler
	Metrics     http.Handler
}

// RegisterRoutes mounts the API on r
func RegisterRoutes(r *gin.Engine, h Handlers, log zerolog.Logger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/leaderboard", h.Dashboard.GetLeaderboard)

	protected := api.Group("")
	protected.Use(auth.AuthMiddleware(log))
	{
		protected.GET("/reviewers/me", h.Auth.Me)
		protected.GET("/dashboard", h.Dashboard.GetDashboard)
		protected.GET("/submissions", h.Submissions.ListMyVotes)
		protected.GET("/submissions/:id", h.Submissions.GetSubmission)
		protected.POST("/submissions/:id/ballots", h.Submissions.SubmitBallot)
	}

	admin := protected.Group("/admin")
	admin.Use(auth.RequireAdmin())
	{
		admin.POST("/submissions", h.Submissions.CreateSubmission)
		admin.POST("/cycles", h.Admin.RunCycle)
		admin.POST("/recoveries", h.Admin.Recover)
		admin.GET("/stats", h.Admin.QueueStats)
	}
}
