package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"checkmate/internal/consensus"
	"checkmate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProfile creates a new reviewer profile
func (r *Repository) CreateProfile(ctx context.Context, profile *models.ReviewerProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))

	err := r.db.WithContext(ctx).Create(profile).Error
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

// GetProfile retrieves a reviewer profile by ID
func (r *Repository) GetProfile(ctx context.Context, reviewerID uuid.UUID) (*models.ReviewerProfile, error) {
	var profile models.ReviewerProfile
	err := r.db.WithContext(ctx).Where("id = ?", reviewerID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, consensus.ErrReviewerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByEmail retrieves a reviewer profile by login email
func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (*models.ReviewerProfile, error) {
	var profile models.ReviewerProfile
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, consensus.ErrReviewerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CountProfiles returns the number of reviewer profiles
func (r *Repository) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReviewerProfile{}).Count(&count).Error
	return count, err
}

// Exists reports whether a reviewer profile exists
func (r *Repository) Exists(ctx context.Context, reviewerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReviewerProfile{}).
		Where("id = ?", reviewerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IncrementCounters adds the deltas to a reviewer's counters in a single
// UPDATE, so concurrent closes involving the same reviewer never lose an
// increment.
func (r *Repository) IncrementCounters(ctx context.Context, reviewerID uuid.UUID, totalDelta, correctDelta int64) error {
	if totalDelta < 0 || correctDelta < 0 || correctDelta > totalDelta {
		return fmt.Errorf("%w: total=%d correct=%d", consensus.ErrInvalidDelta, totalDelta, correctDelta)
	}

	result := r.db.WithContext(ctx).
		Model(&models.ReviewerProfile{}).
		Where("id = ?", reviewerID).
		UpdateColumns(map[string]interface{}{
			"total_votes":   gorm.Expr("total_votes + ?", totalDelta),
			"correct_votes": gorm.Expr("correct_votes + ?", correctDelta),
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return consensus.ErrReviewerNotFound
	}
	return nil
}

// Leaderboard retrieves reviewers with at least minVotes scored ballots,
// ordered by accuracy and then volume
func (r *Repository) Leaderboard(ctx context.Context, minVotes int64, limit int) ([]models.ReviewerProfile, error) {
	if minVotes < 1 {
		minVotes = 1
	}

	var profiles []models.ReviewerProfile
	err := r.db.WithContext(ctx).
		Where("total_votes >= ?", minVotes).
		Order("CAST(correct_votes AS FLOAT) / total_votes DESC").
		Order("total_votes DESC").
		Order("name ASC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// RecentBallots retrieves a reviewer's latest ballots joined with the
// submission they were cast on
func (r *Repository) RecentBallots(ctx context.Context, reviewerID uuid.UUID, limit int) ([]models.RecentBallot, error) {
	var rows []models.RecentBallot
	err := r.db.WithContext(ctx).
		Table("ballots").
		Select("ballots.submission_id, submissions.content, ballots.category, ballots.correct, ballots.submitted_at").
		Joins("JOIN submissions ON submissions.id = ballots.submission_id").
		Where("ballots.reviewer_id = ?", reviewerID).
		Order("ballots.submitted_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
