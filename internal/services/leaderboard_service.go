package services

import (
	"context"
	"fmt"
	"time"

	"checkmate/internal/models"
	"checkmate/internal/repository"

	"github.com/patrickmn/go-cache"
)

const (
	leaderboardCacheKey = "leaderboard"
	leaderboardCacheTTL = 30 * time.Second
)

// LeaderboardService ranks reviewers by accuracy
type LeaderboardService struct {
	repo     *repository.Repository
	minVotes int64
	size     int
	cache    *cache.Cache
}

// NewLeaderboardService creates a new LeaderboardService. Reviewers need at
// least minVotes scored ballots to be ranked.
func NewLeaderboardService(repo *repository.Repository, minVotes int64, size int) *LeaderboardService {
	if size <= 0 {
		size = 20
	}
	return &LeaderboardService{
		repo:     repo,
		minVotes: minVotes,
		size:     size,
		cache:    cache.New(leaderboardCacheTTL, 2*leaderboardCacheTTL),
	}
}

// Leaderboard returns the ranked reviewers, cached briefly
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if cached, ok := s.cache.Get(leaderboardCacheKey); ok {
		return cached.([]models.LeaderboardEntry), nil
	}

	profiles, err := s.repo.Leaderboard(ctx, s.minVotes, s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, len(profiles))
	for i, p := range profiles {
		entries[i] = models.LeaderboardEntry{
			Rank:         i + 1,
			ReviewerID:   p.ID,
			Name:         p.Name,
			TotalVotes:   p.TotalVotes,
			CorrectVotes: p.CorrectVotes,
			Accuracy:     accuracyPercent(p.CorrectVotes, p.TotalVotes),
		}
	}

	s.cache.SetDefault(leaderboardCacheKey, entries)
	return entries, nil
}

// Invalidate drops the cached leaderboard
func (s *LeaderboardService) Invalidate() {
	s.cache.Delete(leaderboardCacheKey)
}
