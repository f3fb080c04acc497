package jobs

import (
	"context"
	"sync"
	"time"

	"checkmate/internal/consensus"

	"github.com/rs/zerolog"
)

// Ticker runs one unit of consensus work
type Ticker interface {
	Tick(ctx context.Context, now time.Time) (consensus.CycleSummary, error)
}

// ConsensusJob closes eligible submissions on a fixed interval
type ConsensusJob struct {
	engine   Ticker
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewConsensusJob creates a new consensus job
func NewConsensusJob(engine Ticker, interval time.Duration, log zerolog.Logger) *ConsensusJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConsensusJob{
		engine:   engine,
		interval: interval,
		log:      log.With().Str("component", "ConsensusJob").Logger(),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs the consensus loop until Stop is called. The first pass runs
// immediately so a backlog left while the service was down closes on boot.
func (j *ConsensusJob) Start() {
	defer close(j.done)

	j.log.Info().Dur("interval", j.interval).Msg("starting consensus job")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.runOnce()
	for {
		select {
		case <-ticker.C:
			j.runOnce()
		case <-j.ctx.Done():
			j.log.Info().Msg("stopping consensus job")
			return
		}
	}
}

// Stop ends the loop started by Start and waits for an in-flight pass to
// return. A running pass stops between submissions.
func (j *ConsensusJob) Stop() {
	j.stopOnce.Do(j.cancel)
	<-j.done
}

func (j *ConsensusJob) runOnce() {
	if j.ctx.Err() != nil {
		return
	}

	// Engine.Tick logs its own summary.
	if _, err := j.engine.Tick(j.ctx, j.now()); err != nil && j.ctx.Err() == nil {
		j.log.Error().Err(err).Msg("consensus pass failed")
	}
}
