package consensus

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const reviewerCacheTTL = 5 * time.Minute

// reviewerDirectory answers "does this reviewer profile exist" for ballot
// integrity checks. Only positive answers are cached, so a profile created
// after a miss is seen on the next lookup.
type reviewerDirectory struct {
	profiles ProfileStore
	known    *cache.Cache
}

func newReviewerDirectory(profiles ProfileStore) *reviewerDirectory {
	return &reviewerDirectory{
		profiles: profiles,
		known:    cache.New(reviewerCacheTTL, 2*reviewerCacheTTL),
	}
}

func (d *reviewerDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	key := id.String()
	if _, ok := d.known.Get(key); ok {
		return true, nil
	}

	ok, err := d.profiles.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		d.known.SetDefault(key, struct{}{})
	}
	return ok, nil
}
