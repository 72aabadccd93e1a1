package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("REASONER_STORE", "")
	t.Setenv("REASONER_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cfg := filepath.Join(t.TempDir(), "absent.yaml")
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFamily(t *testing.T) {
	for _, store := range []string{"memory", "badger"} {
		t.Run(store, func(t *testing.T) {
			out, _, err := run(t, "family", "--store", store)
			require.NoError(t, err)
			assert.Contains(t, out, "ancestor(alice, dana)")
			assert.Contains(t, out, "fixpoint true")
			assert.Contains(t, out, "?who")
			assert.Contains(t, out, "_No rows_")
		})
	}
}

func TestSkolem(t *testing.T) {
	out, _, err := run(t, "skolem")
	require.NoError(t, err)
	assert.Contains(t, out, "- loves(mia, _sk0) by")
	assert.NotContains(t, out, "_sk1")
	assert.Contains(t, out, "minting [_sk0]")
}

func TestPropositionalAbort(t *testing.T) {
	out, _, err := run(t, "propositional")
	require.NoError(t, err)
	assert.Contains(t, out, "stopped: contradictory fact")
	assert.Contains(t, out, "P → R")
}

func TestMaxIterationsFlag(t *testing.T) {
	out, _, err := run(t, "family", "--max-iterations", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passes, 3 facts derived, fixpoint false")
}

func TestVerboseWritesAnnotations(t *testing.T) {
	_, stderr, err := run(t, "skolem", "--verbose")
	require.NoError(t, err)
	assert.NotEmpty(t, stderr)
}

func TestAll(t *testing.T) {
	out, _, err := run(t, "all")
	require.NoError(t, err)
	assert.Contains(t, out, "## Family")
	assert.Contains(t, out, "## Skolem")
	assert.Contains(t, out, "## Propositional")
}

func TestInvalidStore(t *testing.T) {
	_, _, err := run(t, "family", "--store", "postgres")
	assert.Error(t, err)
}
