package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionStatusOpen       SubmissionStatus = "open"
	SubmissionStatusProcessing SubmissionStatus = "processing"
	SubmissionStatusClosed     SubmissionStatus = "closed"
)

// Category is a ballot label drawn from a fixed closed set.
type Category string

const (
	CategoryScam       Category = "Scam"
	CategorySatire     Category = "Satire"
	CategoryIllicit    Category = "Illicit"
	CategoryMisleading Category = "Misleading"
	CategoryFalse      Category = "False"
	CategorySpam       Category = "Spam"
	CategoryLegitimate Category = "Legitimate"
)

// CanonicalCategories lists every valid category. Its order is also the
// tie-break order when two labels share the majority count.
var CanonicalCategories = []Category{
	CategoryScam,
	CategorySatire,
	CategoryIllicit,
	CategoryMisleading,
	CategoryFalse,
	CategorySpam,
	CategoryLegitimate,
}

// Valid reports whether c is one of the canonical categories.
func (c Category) Valid() bool {
	for _, known := range CanonicalCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the canonical set, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range CanonicalCategories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// AIRating is a reviewer's rating of the machine-generated note attached to
// a submission.
type AIRating string

const (
	AIRatingHelpful         AIRating = "helpful"
	AIRatingSomewhatHelpful AIRating = "somewhat_helpful"
	AIRatingNotHelpful      AIRating = "not_helpful"
)

// ParseAIRating accepts the stored form as well as the spaced labels used by
// the voting form ("Somewhat helpful").
func ParseAIRating(s string) (AIRating, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch AIRating(normalized) {
	case AIRatingHelpful, AIRatingSomewhatHelpful, AIRatingNotHelpful:
		return AIRating(normalized), true
	}
	return "", false
}

// Submission is a content item awaiting a crowd verdict
type Submission struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Content          string           `gorm:"type:text;not null" json:"content"`
	Sender           string           `gorm:"size:255" json:"sender"`
	ScreenshotURL    *string          `gorm:"size:500" json:"screenshot_url,omitempty"`
	SourceCategory   *string          `gorm:"size:50" json:"source_category,omitempty"`
	AINoteSummary    *string          `gorm:"type:text" json:"ai_note_summary,omitempty"`
	AINoteReferences []string         `gorm:"type:text;serializer:json" json:"ai_note_references,omitempty"`
	Status           SubmissionStatus `gorm:"size:20;not null;default:open;index:idx_submissions_status_created,priority:1" json:"status"`
	ClaimToken       *uuid.UUID       `gorm:"type:uuid" json:"-"`
	ClaimedAt        *time.Time       `gorm:"index" json:"-"`
	Verdict          *string          `gorm:"size:255" json:"verdict"`
	ProcessedAt      *time.Time       `json:"processed_at"`
	Ballots          []Ballot         `gorm:"foreignKey:SubmissionID" json:"ballots,omitempty"`
	CreatedAt        time.Time        `gorm:"not null;index:idx_submissions_status_created,priority:2" json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

// IsClosed reports whether the verdict has been recorded.
func (s *Submission) IsClosed() bool {
	return s.Status == SubmissionStatusClosed
}

// Ballot is one reviewer's categorical vote on a submission. A reviewer holds
// at most one ballot per submission; resubmitting overwrites it.
type Ballot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ballots_submission_reviewer,priority:1" json:"submission_id"`
	ReviewerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ballots_submission_reviewer,priority:2;index:idx_ballots_reviewer" json:"reviewer_id"`
	Category     Category  `gorm:"size:50;not null" json:"category"`
	Tags         []string  `gorm:"type:text;serializer:json" json:"tags"`
	AIRating     AIRating  `gorm:"size:50" json:"ai_rating"`
	Comment      string    `gorm:"type:text" json:"comment"`
	Correct      *bool     `json:"correct"` // set when the submission closes
	SubmittedAt  time.Time `gorm:"not null" json:"submitted_at"`
}

func (Ballot) TableName() string {
	return "ballots"
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&ReviewerProfile{},
		&Submission{},
		&Ballot{},
	}
}
