package handlers

import (
	"errors"
	"net/http"

	"checkmate/internal/consensus"
	"checkmate/internal/repository"
	"checkmate/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service and store errors to HTTP statuses
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, consensus.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
	case errors.Is(err, consensus.ErrReviewerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
	case errors.Is(err, consensus.ErrVotingClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Voting has been completed for this item"})
	case errors.Is(err, repository.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, consensus.ErrInvalidCategory),
		errors.Is(err, services.ErrCategoryRequired),
		errors.Is(err, services.ErrAIRatingRequired),
		errors.Is(err, services.ErrInvalidAIRating),
		errors.Is(err, services.ErrContentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
