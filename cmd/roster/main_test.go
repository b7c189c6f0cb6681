package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConsoleCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	t.Setenv("ROSTER_STORE_PATH", path)

	out, err := execute(t, "2\nJohn\nDoe\n1990-01-01\n1\n5\n", "console")
	require.NoError(t, err)
	assert.Contains(t, out, "1. John Doe, Date of Birth: 1990-01-01")
	assert.FileExists(t, path)
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("ROSTER_STORE_BACKEND", "floppy")

	for _, cmd := range []string{"serve", "console"} {
		_, err := execute(t, "", cmd)
		assert.ErrorContains(t, err, "floppy", cmd)
	}
}
