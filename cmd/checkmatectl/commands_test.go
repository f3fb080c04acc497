package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"checkmate/internal/consensus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "checkmate.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := RootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedThenCycle(t *testing.T) {
	setupEnv(t)

	at := time.Now().UTC().Truncate(time.Second)

	out, err := run(t, "seed", "--password", "demo-pass", "--at", at.Format(time.RFC3339))
	require.NoError(t, err)
	assert.Contains(t, out, "seeded demo reviewers")

	out, err = run(t, "seed", "--password", "demo-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing seeded")

	out, err = run(t, "cycle", "--at", at.Format(time.RFC3339))
	require.NoError(t, err)

	var summary consensus.CycleSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 3, summary.Closed)
	assert.Zero(t, summary.Failed)

	out, err = run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"closed": 3`)
}

func TestSeedRequiresPassword(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "seed")
	assert.Error(t, err)
}

func TestRejectsBadAt(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "recover", "--at", "yesterday")
	assert.Error(t, err)
}
