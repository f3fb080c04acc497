package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmitBallotRequest represents a ballot cast from the voting form
type SubmitBallotRequest struct {
	Category string   `json:"category" binding:"required"`
	AIRating string   `json:"aiRating" binding:"required"`
	Tags     []string `json:"tags"`
	Comment  string   `json:"comment"`
}

// SubmitBallotResponse reports whether a ballot was new or replaced an earlier one
type SubmitBallotResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	BallotCount int64  `json:"voteCount"`
	IsUpdate    bool   `json:"isUpdate"`
}

// LoginRequest represents a reviewer login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateSubmissionRequest is used by the ingestion path to open a new submission
type CreateSubmissionRequest struct {
	Content          string   `json:"content" binding:"required"`
	Sender           string   `json:"sender"`
	ScreenshotURL    *string  `json:"screenshot_url"`
	SourceCategory   *string  `json:"source_category"`
	AINoteSummary    *string  `json:"ai_note_summary"`
	AINoteReferences []string `json:"ai_note_references"`
}

// MyVoteItem is one row of a reviewer's "My votes" feed
type MyVoteItem struct {
	ID          uuid.UUID  `json:"id"`
	Content     string     `json:"content"`
	Category    *string    `json:"category"`
	Status      string     `json:"status"` // voted, pending
	Closed      bool       `json:"closed"`
	MyVote      *Category  `json:"myVote"`
	AIRating    *AIRating  `json:"aiRating"`
	Correct     *bool      `json:"correct"`
	Timestamp   time.Time  `json:"timestamp"`
	FinalResult *string    `json:"finalResult"`
	VotedAt     *time.Time `json:"votedAt"`
}

// ActivityItem is an entry in the dashboard's recent activity feed
type ActivityItem struct {
	Message string `json:"message"`
	Date    string `json:"date"`
	Type    string `json:"type"` // vote, achievement
}

// DashboardStats holds the per-reviewer numbers shown on the dashboard
type DashboardStats struct {
	Name             string         `json:"name"`
	Votes            int64          `json:"votes"`
	Accuracy         int64          `json:"accuracy"`
	MessagesSent     int64          `json:"messagesSent"`
	LifetimeVotes    int64          `json:"lifetimeVotes"`
	LifetimeAccuracy int64          `json:"lifetimeAccuracy"`
	EngagementScore  int64          `json:"engagementScore"`
	RecentActivity   []ActivityItem `json:"recentActivity"`
}

// DashboardResponse is the payload of GET /api/dashboard
type DashboardResponse struct {
	IsNewChecker bool           `json:"isNewChecker"`
	UserData     DashboardStats `json:"userData"`
}

// LeaderboardEntry is one ranked reviewer
type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	ReviewerID   uuid.UUID `json:"reviewer_id"`
	Name         string    `json:"name"`
	TotalVotes   int64     `json:"total_votes"`
	CorrectVotes int64     `json:"correct_votes"`
	Accuracy     int64     `json:"accuracy"`
}

// RecentBallot joins a reviewer's ballot with the submission it was cast on
type RecentBallot struct {
	SubmissionID uuid.UUID
	Content      string
	Category     Category
	Correct      *bool
	SubmittedAt  time.Time
}
