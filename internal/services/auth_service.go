package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"checkmate/internal/auth"
	"checkmate/internal/consensus"
	"checkmate/internal/models"
	"checkmate/internal/repository"
	"checkmate/internal/utils"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles reviewer registration and login
type AuthService struct {
	repo *repository.Repository
	log  zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo *repository.Repository, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo: repo,
		log:  log.With().Str("component", "auth").Logger(),
	}
}

// Register creates a reviewer profile with a hashed password. An empty name
// is replaced with a generated one.
func (s *AuthService) Register(ctx context.Context, name, email, password string, isAdmin bool) (*models.ReviewerProfile, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		generated, err := utils.GenerateCheckerName()
		if err != nil {
			return nil, fmt.Errorf("failed to generate name: %w", err)
		}
		name = generated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.ReviewerProfile{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Info().Str("reviewer_id", profile.ID.String()).Msg("reviewer registered")
	return profile, nil
}

// Login checks the credentials and issues a JWT for the reviewer
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.ReviewerProfile, error) {
	profile, err := s.repo.GetProfileByEmail(ctx, email)
	if errors.Is(err, consensus.ErrReviewerNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load reviewer: %w", err)
	}

	if profile.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		s.log.Debug().Str("reviewer_id", profile.ID.String()).Msg("password mismatch")
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(profile.ID, profile.Email, profile.IsAdmin)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("reviewer_id", profile.ID.String()).Msg("reviewer logged in")
	return token, profile, nil
}
