package handlers

import (
	"net/http"
	"strconv"

	"checkmate/internal/auth"
	"checkmate/internal/models"
	"checkmate/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubmissionHandler serves submissions and accepts ballots
type SubmissionHandler struct {
	submissions *services.SubmissionService
	ballots     *services.BallotService
	reviewers   *services.ReviewerService
	log         zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissions *services.SubmissionService, ballots *services.BallotService, reviewers *services.ReviewerService, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		ballots:     ballots,
		reviewers:   reviewers,
		log:         log,
	}
}

// ListMyVotes lists submissions with the caller's ballot status
// GET /api/submissions?limit=&offset=
func (h *SubmissionHandler) ListMyVotes(c *gin.Context) {
	reviewerID, ok := auth.GetReviewerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.reviewers.MyVotes(c.Request.Context(), reviewerID, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetSubmission returns one submission, with ballots once it has closed
// GET /api/submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	sub, err := h.submissions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// CreateSubmission opens a new submission for review
// POST /api/admin/submissions
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req models.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.submissions.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// SubmitBallot casts or replaces the caller's ballot
// POST /api/submissions/:id/ballots
func (h *SubmissionHandler) SubmitBallot(c *gin.Context) {
	reviewerID, ok := auth.GetReviewerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	var req models.SubmitBallotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.ballots.Submit(c.Request.Context(), reviewerID, id, services.BallotInput{
		Category: req.Category,
		AIRating: req.AIRating,
		Tags:     req.Tags,
		Comment:  req.Comment,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
