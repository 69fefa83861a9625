// Command qemsimplify reduces a triangular OBJ mesh to a target
// fraction of its original face count using quadric error metric
// (QEM) edge contraction.
//
// Usage:
//
//	qemsimplify <input.obj> <output.obj> <scale> [flags]
//
// scale is in (0,1]; 1.0 leaves the mesh untouched, 0.5 halves the
// face count (approximately — contraction removes faces in whole
// multiples per collapse, so the target is a floor, not an exact cut).
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mirstar13/qemsimplify/internal/meshio"
	"github.com/mirstar13/qemsimplify/internal/qem"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr *os.File) int {
	logger := slog.New(slog.NewTextHandler(stderr, nil))
	slog.SetDefault(logger)

	inputPath, outputPath, scale, flags, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, "usage: qemsimplify <input.obj> <output.obj> <scale> [-pair-distance f] [-verbose]")
		fmt.Fprintln(stderr, err)
		return 2
	}
	if flags.verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	if err := simplify(inputPath, outputPath, scale, flags, logger); err != nil {
		logger.Error("simplification failed", "error", err)
		return 1
	}
	return 0
}

type cliFlags struct {
	pairDistance float64
	verbose      bool
}

// parseArgs implements the spec's strict positional contract
// (`program <input.obj> <output.obj> <scale>`, argument count < 4 is a
// fatal usage error) with an optional trailing flag set, mirroring how
// the reference engine's own CLI (main.go) registers flags ahead of
// flag.Parse while still expecting its demo selection positionally.
func parseArgs(args []string) (input, output string, scale float64, flags cliFlags, err error) {
	if len(args) < 3 {
		return "", "", 0, cliFlags{}, fmt.Errorf("expected at least 3 arguments, got %d", len(args))
	}
	input, output = args[0], args[1]

	fs := flag.NewFlagSet("qemsimplify", flag.ContinueOnError)
	pairDistance := fs.Float64("pair-distance", qem.DefaultPairDistanceThreshold, "maximum vertex-pair distance to consider for contraction")
	verbose := fs.Bool("verbose", false, "enable debug logging")

	scale, err = parseScale(args[2])
	if err != nil {
		return "", "", 0, cliFlags{}, err
	}
	if err := fs.Parse(args[3:]); err != nil {
		return "", "", 0, cliFlags{}, err
	}

	return input, output, scale, cliFlags{pairDistance: *pairDistance, verbose: *verbose}, nil
}

func parseScale(s string) (float64, error) {
	var scale float64
	if _, err := fmt.Sscanf(s, "%g", &scale); err != nil {
		return 0, fmt.Errorf("invalid scale %q: %w", s, err)
	}
	if scale <= 0 || scale > 1 {
		return 0, fmt.Errorf("scale %v out of range (0,1]", scale)
	}
	return scale, nil
}

func simplify(inputPath, outputPath string, scale float64, flags cliFlags, logger *slog.Logger) error {
	start := time.Now()

	mesh, err := meshio.Read(inputPath)
	if err != nil {
		return fmt.Errorf("reading mesh: %w", err)
	}

	s, err := qem.New(mesh,
		qem.WithPairDistanceThreshold(flags.pairDistance),
		qem.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("initializing simplifier: %w", err)
	}

	if err := s.Run(scale); err != nil {
		if !errors.Is(err, qem.ErrHeapExhausted) {
			return fmt.Errorf("running simplification: %w", err)
		}
		// Heap exhaustion is non-fatal: proceed to finalization with
		// whatever reduction was achieved.
	}

	if err := meshio.Write(outputPath, s.Result()); err != nil {
		return fmt.Errorf("writing mesh: %w", err)
	}

	logger.Info("simplification complete",
		"faces", s.LiveFaceCount(),
		"elapsed", time.Since(start),
	)
	return nil
}
