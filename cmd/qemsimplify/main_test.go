package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsRequiresThreePositionalArguments(t *testing.T) {
	_, _, _, _, err := parseArgs([]string{"in.obj", "out.obj"})
	assert.Error(t, err)
}

func TestParseArgsRejectsScaleOutOfRange(t *testing.T) {
	_, _, _, _, err := parseArgs([]string{"in.obj", "out.obj", "1.5"})
	assert.Error(t, err)
}

func TestParseArgsAcceptsTrailingFlags(t *testing.T) {
	input, output, scale, flags, err := parseArgs([]string{"in.obj", "out.obj", "0.5", "-pair-distance", "3", "-verbose"})
	require.NoError(t, err)
	assert.Equal(t, "in.obj", input)
	assert.Equal(t, "out.obj", output)
	assert.Equal(t, 0.5, scale)
	assert.Equal(t, 3.0, flags.pairDistance)
	assert.True(t, flags.verbose)
}

func TestSimplifyEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.obj")
	outputPath := filepath.Join(dir, "out.obj")

	tetrahedron := "" +
		"v 0 0 0\n" +
		"v 1 0 0\n" +
		"v 0 1 0\n" +
		"v 0 0 1\n" +
		"f 1 2 3\n" +
		"f 1 2 4\n" +
		"f 1 3 4\n" +
		"f 2 3 4\n"
	require.NoError(t, os.WriteFile(inputPath, []byte(tetrahedron), 0o644))

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	err := simplify(inputPath, outputPath, 0.5, cliFlags{pairDistance: 10.0}, logger)
	require.NoError(t, err)

	out, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "v ")
	assert.Contains(t, string(out), "f ")
}
