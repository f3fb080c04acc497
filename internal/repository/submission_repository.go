package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkmate/internal/consensus"
	"checkmate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateSubmission stores a new open submission
func (r *Repository) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	sub.CreatedAt = sub.CreatedAt.UTC()
	sub.Status = models.SubmissionStatusOpen
	sub.Verdict = nil
	sub.ProcessedAt = nil
	sub.ClaimToken = nil
	sub.ClaimedAt = nil
	sub.Ballots = nil

	return r.db.WithContext(ctx).Create(sub).Error
}

// Get retrieves a submission with its ballots ordered by submission time
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.WithContext(ctx).
		Preload("Ballots", func(db *gorm.DB) *gorm.DB {
			return db.Order("submitted_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, consensus.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListWhere retrieves submissions matching filter ordered by (created_at, id)
func (r *Repository) ListWhere(ctx context.Context, filter consensus.ListFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", filter.CreatedBefore.UTC())
	}
	if filter.ClaimedBefore != nil {
		query = query.Where("claimed_at <= ?", filter.ClaimedBefore.UTC())
	}
	if filter.After != nil {
		after := filter.After.CreatedAt.UTC()
		query = query.Where("(created_at > ? OR (created_at = ? AND id > ?))", after, after, filter.After.ID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var subs []models.Submission
	if err := query.Order("created_at ASC, id ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ConditionalUpdateStatus applies update in a single UPDATE statement whose
// WHERE clause carries the expected status (and claim token, when given).
// It reports whether a row was changed.
func (r *Repository) ConditionalUpdateStatus(ctx context.Context, id uuid.UUID, update consensus.StatusUpdate) (bool, error) {
	values := make(map[string]interface{}, len(update.Fields)+1)
	for column, value := range update.Fields {
		values[column] = value
	}
	values["status"] = update.Next

	query := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, update.Expected)
	if update.ClaimToken != nil {
		query = query.Where("claim_token = ?", *update.ClaimToken)
	}

	result := query.Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AppendOrReplaceBallot stores a reviewer's ballot, replacing any earlier
// ballot from the same reviewer. The submission row is touched with an
// open-only conditional update first, so the write serialises with the
// consensus claim and is rejected once the submission is no longer open.
func (r *Repository) AppendOrReplaceBallot(ctx context.Context, id uuid.UUID, ballot models.Ballot) (consensus.BallotWrite, error) {
	var write consensus.BallotWrite

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		touched := tx.Model(&models.Submission{}).
			Where("id = ? AND status = ?", id, models.SubmissionStatusOpen).
			Update("updated_at", time.Now().UTC())
		if touched.Error != nil {
			return touched.Error
		}
		if touched.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Submission{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return consensus.ErrSubmissionNotFound
			}
			return consensus.ErrVotingClosed
		}

		var existing int64
		if err := tx.Model(&models.Ballot{}).
			Where("submission_id = ? AND reviewer_id = ?", id, ballot.ReviewerID).
			Count(&existing).Error; err != nil {
			return err
		}
		write.Replaced = existing > 0

		ballot.SubmissionID = id
		if ballot.ID == uuid.Nil {
			ballot.ID = uuid.New()
		}
		if ballot.SubmittedAt.IsZero() {
			ballot.SubmittedAt = time.Now()
		}
		ballot.SubmittedAt = ballot.SubmittedAt.UTC()
		ballot.Correct = nil

		upsert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}, {Name: "reviewer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "tags", "ai_rating", "comment", "submitted_at"}),
		}).Create(&ballot)
		if upsert.Error != nil {
			return fmt.Errorf("failed to store ballot: %w", upsert.Error)
		}

		return tx.Model(&models.Ballot{}).Where("submission_id = ?", id).Count(&write.BallotCount).Error
	})
	if err != nil {
		return consensus.BallotWrite{}, err
	}
	return write, nil
}

// MarkBallotCorrectness records the scored outcome of each ballot, keyed by
// ballot id
func (r *Repository) MarkBallotCorrectness(ctx context.Context, submissionID uuid.UUID, correct map[uuid.UUID]bool) error {
	var right, wrong []uuid.UUID
	for id, ok := range correct {
		if ok {
			right = append(right, id)
		} else {
			wrong = append(wrong, id)
		}
	}

	for _, group := range []struct {
		ids   []uuid.UUID
		value bool
	}{{right, true}, {wrong, false}} {
		if len(group.ids) == 0 {
			continue
		}
		err := r.db.WithContext(ctx).
			Model(&models.Ballot{}).
			Where("submission_id = ? AND id IN ?", submissionID, group.ids).
			Update("correct", group.value).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// ListSubmissions retrieves submissions newest first
func (r *Repository) ListSubmissions(ctx context.Context, limit, offset int) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// GetBallotsByReviewer retrieves every ballot cast by a reviewer on the given
// submissions
func (r *Repository) GetBallotsByReviewer(ctx context.Context, reviewerID uuid.UUID, submissionIDs []uuid.UUID) ([]models.Ballot, error) {
	if len(submissionIDs) == 0 {
		return nil, nil
	}

	var ballots []models.Ballot
	err := r.db.WithContext(ctx).
		Where("reviewer_id = ? AND submission_id IN ?", reviewerID, submissionIDs).
		Find(&ballots).Error
	if err != nil {
		return nil, err
	}
	return ballots, nil
}

// CountSubmissionsByStatus returns the number of submissions in each status
func (r *Repository) CountSubmissionsByStatus(ctx context.Context) (map[models.SubmissionStatus]int64, error) {
	var rows []struct {
		Status models.SubmissionStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.SubmissionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
