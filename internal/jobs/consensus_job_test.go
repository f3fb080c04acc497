package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"checkmate/internal/consensus"
	"checkmate/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeTicker struct {
	calls atomic.Int32
	ticks chan struct{}
	err   error
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{ticks: make(chan struct{}, 16)}
}

func (f *fakeTicker) Tick(ctx context.Context, now time.Time) (consensus.CycleSummary, error) {
	f.calls.Add(1)
	select {
	case f.ticks <- struct{}{}:
	default:
	}
	return consensus.CycleSummary{StartedAt: now}, f.err
}

func waitForTick(t *testing.T, f *fakeTicker) {
	t.Helper()
	select {
	case <-f.ticks:
	case <-time.After(testutil.DefaultTestTimeout):
		t.Fatal("timed out waiting for consensus pass")
	}
}

func TestConsensusJobRunsImmediatelyAndOnInterval(t *testing.T) {
	engine := newFakeTicker()
	job := NewConsensusJob(engine, 10*time.Millisecond, zerolog.Nop())

	go job.Start()

	waitForTick(t, engine)
	waitForTick(t, engine)
	waitForTick(t, engine)

	job.Stop()
	stopped := engine.calls.Load()
	assert.GreaterOrEqual(t, stopped, int32(3))

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, engine.calls.Load(), "no passes after Stop")
}

func TestConsensusJobSurvivesFailedPass(t *testing.T) {
	engine := newFakeTicker()
	engine.err = errors.New("store unavailable")
	job := NewConsensusJob(engine, 5*time.Millisecond, zerolog.Nop())

	go job.Start()
	waitForTick(t, engine)
	waitForTick(t, engine)
	job.Stop()

	require.GreaterOrEqual(t, engine.calls.Load(), int32(2))
}

func TestConsensusJobStopIsIdempotent(t *testing.T) {
	job := NewConsensusJob(newFakeTicker(), time.Hour, zerolog.Nop())
	go job.Start()

	job.Stop()
	job.Stop()
}
