// Command roster runs one duty-roster solve: it reads a JSON input document,
// builds and solves the CP-SAT model, and writes the JSON output document.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/paiban/roster/internal/config"
	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/pipeline"
)

func main() {
	var inFile, outFile string
	var timeLimit float64

	pflag.StringVar(&inFile, "in", "", "path to the input JSON document")
	pflag.StringVar(&inFile, "input", "", "alias for --in")
	pflag.StringVar(&outFile, "out", "", "path to write the output JSON document")
	pflag.StringVar(&outFile, "output", "", "alias for --out")
	pflag.Float64Var(&timeLimit, "time_limit", 0, "solver wall-clock time limit in seconds (overrides ROSTER_TIME_LIMIT_SECONDS)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})

	if inFile == "" || outFile == "" {
		fmt.Fprintln(os.Stderr, "usage: roster --in input.json --out output.json [--time_limit seconds]")
		os.Exit(2)
	}
	if timeLimit <= 0 {
		timeLimit = cfg.Solver.TimeLimitSeconds
	}

	if err := run(inFile, outFile, timeLimit, cfg); err != nil {
		logger.Get().Error().Err(err).Msg("roster run failed")
		os.Exit(1)
	}
}

func run(inFile, outFile string, timeLimit float64, cfg *config.Config) error {
	raw, err := os.ReadFile(inFile)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	opts := pipeline.NewCPSATOptions(timeLimit, cfg.Solver.RandomSeed, cfg.Solver.Workers)
	out, err := pipeline.Run(raw, opts)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return apperrors.New(apperrors.CodeInternal, "failed to encode output document").WithCause(err)
	}

	return writeAtomic(outFile, encoded)
}

// writeAtomic writes data to a temp file in the same directory as path and
// renames it into place, so a reader never observes a partially written
// output document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".roster-out-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp output file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp output file into place: %w", err)
	}
	return nil
}
