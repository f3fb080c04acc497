// Package testutil provides shared helpers for tests that need a database.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"checkmate/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultTestTimeout bounds waits on background goroutines in tests.
const DefaultTestTimeout = 5 * time.Second

// NewTestDB opens a private in-memory SQLite database with the schema
// migrated. The pool is limited to one connection so concurrent callers are
// serialised the way row locks would serialise them in Postgres.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")
	return db
}

// CreateReviewer inserts a reviewer profile with zeroed counters.
func CreateReviewer(t *testing.T, db *gorm.DB, name string) *models.ReviewerProfile {
	t.Helper()

	profile := &models.ReviewerProfile{
		ID:    uuid.New(),
		Name:  name,
		Email: fmt.Sprintf("%s-%s@checkmate.test", name, uuid.NewString()[:8]),
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// CreateSubmission inserts an open submission created at createdAt.
func CreateSubmission(t *testing.T, db *gorm.DB, content string, createdAt time.Time) *models.Submission {
	t.Helper()

	sub := &models.Submission{
		ID:        uuid.New(),
		Content:   content,
		Status:    models.SubmissionStatusOpen,
		CreatedAt: createdAt.UTC(),
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

// AddBallot inserts a ballot directly, bypassing the open-status check.
func AddBallot(t *testing.T, db *gorm.DB, submissionID, reviewerID uuid.UUID, category models.Category, submittedAt time.Time) *models.Ballot {
	t.Helper()

	ballot := &models.Ballot{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		Category:     category,
		AIRating:     models.AIRatingHelpful,
		SubmittedAt:  submittedAt.UTC(),
	}
	require.NoError(t, db.Create(ballot).Error)
	return ballot
}

// Reload fetches a reviewer profile's current counters.
func Reload(t *testing.T, db *gorm.DB, reviewerID uuid.UUID) models.ReviewerProfile {
	t.Helper()

	var profile models.ReviewerProfile
	require.NoError(t, db.Where("id = ?", reviewerID).First(&profile).Error)
	return profile
}
