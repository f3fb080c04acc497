package handlers

import (
	"net/http"

	"checkmate/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AdminHandler struct {
	adminService *services.AdminService
	log          zerolog.Logger
}

func NewAdminHandler(adminService *services.AdminService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		log:          log,
	}
}

// RunCycle runs a consensus pass on demand
// POST /api/admin/cycles
func (h *AdminHandler) RunCycle(c *gin.Context) {
	summary, err := h.adminService.RunCycle(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("manual consensus cycle failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Consensus cycle failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Recover reopens stale claims on demand
// POST /api/admin/recoveries
func (h *AdminHandler) Recover(c *gin.Context) {
	summary, err := h.adminService.Recover(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("manual recovery failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Recovery sweep failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// QueueStats returns submission counts per status
// GET /api/admin/stats
func (h *AdminHandler) QueueStats(c *gin.Context) {
	stats, err := h.adminService.QueueStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": stats})
}
