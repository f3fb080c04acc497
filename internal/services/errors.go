package services

import "errors"

var (
	ErrCategoryRequired   = errors.New("category is required")
	ErrAIRatingRequired   = errors.New("AI rating is required")
	ErrInvalidAIRating    = errors.New("AI rating must be helpful, somewhat_helpful or not_helpful")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrContentRequired    = errors.New("content is required")
)
