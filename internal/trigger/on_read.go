package trigger

import (
	"context"
	"time"

	"checkmate/internal/consensus"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const onReadTimeout = 30 * time.Second

// Ticker runs one unit of consensus work
type Ticker interface {
	Tick(ctx context.Context, now time.Time) (consensus.CycleSummary, error)
}

// OnRead runs a consensus pass before read models are served. Concurrent
// readers share a single in-flight pass.
type OnRead struct {
	engine Ticker
	group  singleflight.Group
	log    zerolog.Logger
}

// NewOnRead creates the read-path trigger
func NewOnRead(engine Ticker, log zerolog.Logger) *OnRead {
	return &OnRead{
		engine: engine,
		log:    log.With().Str("component", "OnReadTrigger").Logger(),
	}
}

// BeforeRead runs or joins a consensus pass. Failures are logged and never
// fail the read. The pass outlives a cancelled reader so that other readers
// sharing it still see it finish.
func (o *OnRead) BeforeRead(ctx context.Context) {
	_, err, shared := o.group.Do("consensus", func() (interface{}, error) {
		passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), onReadTimeout)
		defer cancel()
		return o.engine.Tick(passCtx, time.Now())
	})
	if err != nil {
		o.log.Warn().Err(err).Bool("shared", shared).Msg("on-read consensus pass failed")
	}
}
