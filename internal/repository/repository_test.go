package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"checkmate/internal/consensus"
	"checkmate/internal/models"
	"checkmate/internal/testutil"

	"github.com/google/uuid"
)

func TestAppendOrReplaceBallot(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	reviewer := testutil.CreateReviewer(t, db, "gina")
	other := testutil.CreateReviewer(t, db, "hank")
	sub := testutil.CreateSubmission(t, db, "miracle cure", time.Now().Add(-time.Hour))

	write, err := repo.AppendOrReplaceBallot(ctx, sub.ID, models.Ballot{
		ReviewerID: reviewer.ID,
		Category:   models.CategoryFalse,
		Tags:       []string{"health"},
	})
	if err != nil {
		t.Fatalf("first ballot failed: %v", err)
	}
	if write.Replaced || write.BallotCount != 1 {
		t.Errorf("expected new ballot with count 1, got %+v", write)
	}

	// Same reviewer votes again: the ballot is overwritten, not duplicated.
	write, err = repo.AppendOrReplaceBallot(ctx, sub.ID, models.Ballot{
		ReviewerID: reviewer.ID,
		Category:   models.CategoryScam,
	})
	if err != nil {
		t.Fatalf("replacement ballot failed: %v", err)
	}
	if !write.Replaced || write.BallotCount != 1 {
		t.Errorf("expected replaced ballot with count 1, got %+v", write)
	}

	write, err = repo.AppendOrReplaceBallot(ctx, sub.ID, models.Ballot{
		ReviewerID: other.ID,
		Category:   models.CategoryScam,
	})
	if err != nil {
		t.Fatalf("second reviewer ballot failed: %v", err)
	}
	if write.BallotCount != 2 {
		t.Errorf("expected 2 ballots, got %d", write.BallotCount)
	}

	stored, err := repo.Get(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	for _, b := range stored.Ballots {
		if b.ReviewerID == reviewer.ID && b.Category != models.CategoryScam {
			t.Errorf("expected replaced category Scam, got %s", b.Category)
		}
	}
}

func TestAppendOrReplaceBallotRejectsMissingAndClosed(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	reviewer := testutil.CreateReviewer(t, db, "ivy")

	_, err := repo.AppendOrReplaceBallot(ctx, uuid.New(), models.Ballot{ReviewerID: reviewer.ID, Category: models.CategorySpam})
	if !errors.Is(err, consensus.ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}

	sub := testutil.CreateSubmission(t, db, "done", time.Now().Add(-48*time.Hour))
	if err := db.Model(sub).Update("status", models.SubmissionStatusClosed).Error; err != nil {
		t.Fatalf("failed to close submission: %v", err)
	}

	_, err = repo.AppendOrReplaceBallot(ctx, sub.ID, models.Ballot{ReviewerID: reviewer.ID, Category: models.CategorySpam})
	if !errors.Is(err, consensus.ErrVotingClosed) {
		t.Errorf("expected ErrVotingClosed, got %v", err)
	}
}

func TestConditionalUpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sub := testutil.CreateSubmission(t, db, "cas", time.Now().Add(-48*time.Hour))
	token := uuid.New()

	ok, err := repo.ConditionalUpdateStatus(ctx, sub.ID, consensus.StatusUpdate{
		Expected: models.SubmissionStatusProcessing,
		Next:     models.SubmissionStatusClosed,
	})
	if err != nil || ok {
		t.Fatalf("update with wrong expected status must not apply: ok=%v err=%v", ok, err)
	}

	ok, err = repo.ConditionalUpdateStatus(ctx, sub.ID, consensus.StatusUpdate{
		Expected: models.SubmissionStatusOpen,
		Next:     models.SubmissionStatusProcessing,
		Fields:   map[string]interface{}{"claim_token": token, "claimed_at": time.Now().UTC()},
	})
	if err != nil || !ok {
		t.Fatalf("claim must apply: ok=%v err=%v", ok, err)
	}

	wrong := uuid.New()
	ok, err = repo.ConditionalUpdateStatus(ctx, sub.ID, consensus.StatusUpdate{
		Expected:   models.SubmissionStatusProcessing,
		Next:       models.SubmissionStatusClosed,
		ClaimToken: &wrong,
	})
	if err != nil || ok {
		t.Fatalf("update with foreign token must not apply: ok=%v err=%v", ok, err)
	}

	stored, err := repo.Get(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != models.SubmissionStatusProcessing {
		t.Errorf("expected processing, got %s", stored.Status)
	}
	if stored.ClaimToken == nil || *stored.ClaimToken != token {
		t.Errorf("expected claim token %s, got %v", token, stored.ClaimToken)
	}
}

func TestIncrementCounters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	reviewer := testutil.CreateReviewer(t, db, "jack")

	if err := repo.IncrementCounters(ctx, reviewer.ID, 1, 1); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if err := repo.IncrementCounters(ctx, reviewer.ID, 1, 0); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	profile := testutil.Reload(t, db, reviewer.ID)
	if profile.TotalVotes != 2 || profile.CorrectVotes != 1 {
		t.Errorf("expected 2/1, got %d/%d", profile.TotalVotes, profile.CorrectVotes)
	}

	tests := []struct {
		name           string
		total, correct int64
	}{
		{"negative total", -1, 0},
		{"negative correct", 1, -1},
		{"correct exceeds total", 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.IncrementCounters(ctx, reviewer.ID, tt.total, tt.correct)
			if !errors.Is(err, consensus.ErrInvalidDelta) {
				t.Errorf("expected ErrInvalidDelta, got %v", err)
			}
		})
	}

	if err := repo.IncrementCounters(ctx, uuid.New(), 1, 0); !errors.Is(err, consensus.ErrReviewerNotFound) {
		t.Errorf("expected ErrReviewerNotFound, got %v", err)
	}
}

func TestWithinTransactionRollsBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	reviewer := testutil.CreateReviewer(t, db, "kate")
	boom := errors.New("boom")

	err := repo.WithinTransaction(ctx, func(tx consensus.Store) error {
		if err := tx.IncrementCounters(ctx, reviewer.ID, 1, 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	profile := testutil.Reload(t, db, reviewer.ID)
	if profile.TotalVotes != 0 {
		t.Errorf("expected rollback to keep total at 0, got %d", profile.TotalVotes)
	}
}

func TestCreateProfileRejectsDuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := &models.ReviewerProfile{Name: "Lena", Email: "lena@checkmate.test"}
	if err := repo.CreateProfile(ctx, first); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dup := &models.ReviewerProfile{Name: "Other Lena", Email: " LENA@checkmate.test "}
	if err := repo.CreateProfile(ctx, dup); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	found, err := repo.GetProfileByEmail(ctx, "Lena@Checkmate.test")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found.ID != first.ID {
		t.Errorf("expected %s, got %s", first.ID, found.ID)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seed := []struct {
		name           string
		total, correct int64
	}{
		{"low-accuracy", 10, 5},
		{"top", 10, 9},
		{"volume", 20, 18},
		{"too-few", 2, 2},
	}
	for _, s := range seed {
		p := testutil.CreateReviewer(t, db, s.name)
		if err := repo.IncrementCounters(ctx, p.ID, s.total, s.correct); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	board, err := repo.Leaderboard(ctx, 5, 10)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}

	var names []string
	for _, p := range board {
		names = append(names, p.Name)
	}
	expected := []string{"volume", "top", "low-accuracy"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], names[i])
		}
	}
}

func TestCountSubmissionsByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db)

	testutil.CreateSubmission(t, db, "a", time.Now())
	testutil.CreateSubmission(t, db, "b", time.Now())
	closed := testutil.CreateSubmission(t, db, "c", time.Now())
	if err := db.Model(closed).Update("status", models.SubmissionStatusClosed).Error; err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	counts, err := repo.CountSubmissionsByStatus(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if counts[models.SubmissionStatusOpen] != 2 || counts[models.SubmissionStatusClosed] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
