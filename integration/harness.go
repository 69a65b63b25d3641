//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/encodeous/routegen/cmd"
	"github.com/encodeous/routegen/state"
	"github.com/stretchr/testify/require"
)

// CLIHarness runs the routegen command tree in-process against files in a
// scratch directory.
type CLIHarness struct {
	t   *testing.T
	Dir string
}

func NewHarness(t *testing.T) *CLIHarness {
	return &CLIHarness{t: t, Dir: t.TempDir()}
}

// Write stores a file in the scratch directory and returns its path.
func (h *CLIHarness) Write(name, content string) string {
	h.t.Helper()
	p := filepath.Join(h.Dir, name)
	require.NoError(h.t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func (h *CLIHarness) Path(name string) string {
	return filepath.Join(h.Dir, name)
}

// Run executes the CLI with args and returns what it wrote to stdout.
func (h *CLIHarness) Run(args ...string) (string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	root := cmd.NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		h.t.Logf("routegen %v: %s", args, stderr.String())
	}
	return stdout.String(), err
}

// Generate runs `gen` and decodes the JSON document written to stdout.
func (h *CLIHarness) Generate(args ...string) state.Document {
	h.t.Helper()
	out, err := h.Run(append([]string{"gen"}, args...)...)
	require.NoError(h.t, err)
	var doc state.Document
	require.NoError(h.t, json.Unmarshal([]byte(out), &doc))
	return doc
}
