// Package logger provides the roster engine's structured logging.
package logger

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Config configures the process-wide logger.
type Config struct {
	Level  string // debug/info/warn/error
	Format string // json/console
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// Init installs the process-wide logger. Safe to call more than once; only
// the first call takes effect.
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))
		var output io.Writer = os.Stderr
		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
		}
		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the process-wide logger, initialising it with defaults on
// first use if Init was never called.
func Get() *zerolog.Logger {
	Init(DefaultConfig()) // no-op once Init has run
	return &logger
}

// WithField returns a logger with one additional structured field.
func WithField(key string, value interface{}) *zerolog.Logger {
	l := Get().With().Interface(key, value).Logger()
	return &l
}

// RosterLogger is the roster pipeline's domain logger. Each Run gets its
// own instance so that log lines can be tagged with the run's ID and, when
// a CaptureBuffer is attached, replayed into diagnostics.logOutput.
type RosterLogger struct {
	base    zerolog.Logger
	capture *bytes.Buffer
}

// NewRosterLogger creates a RosterLogger tagged with runID. When capture is
// true, log lines written through it are also buffered so they can be
// retrieved with LogOutput and embedded in the run's diagnostics.
func NewRosterLogger(runID string, capture bool) *RosterLogger {
	rl := &RosterLogger{}
	writers := []io.Writer{Get()}
	if capture {
		rl.capture = &bytes.Buffer{}
		writers = append(writers, rl.capture)
	}
	rl.base = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Str("component", "roster").Str("run_id", runID).Logger()
	return rl
}

// LogOutput returns the log lines captured for this run, if capture was
// enabled, joined the way diagnostics.logOutput expects.
func (l *RosterLogger) LogOutput() string {
	if l.capture == nil {
		return ""
	}
	return l.capture.String()
}

// StartSolve records the beginning of a solve attempt.
func (l *RosterLogger) StartSolve(people, days int, timeLimitSeconds float64) {
	l.base.Info().
		Int("people", people).
		Int("days", days).
		Float64("time_limit_seconds", timeLimitSeconds).
		Msg("starting solve")
}

// Phase records a pipeline phase transition (validate/expand/analyse/build/solve/render).
func (l *RosterLogger) Phase(name string) {
	l.base.Info().Str("phase", name).Msg("entering phase")
}

// ConstraintNote records a diagnostic note about constraint construction
// (e.g. a person excluded from a slot, a week clipped at the horizon edge).
func (l *RosterLogger) ConstraintNote(note string) {
	l.base.Debug().Str("note", note).Msg("constraint note")
}

// SolveComplete records the terminal state of a solve attempt.
func (l *RosterLogger) SolveComplete(status string, elapsed time.Duration, objective float64) {
	l.base.Info().
		Str("status", status).
		Dur("elapsed", elapsed).
		Float64("objective", objective).
		Msg("solve complete")
}

// Error logs an error with the roster component context.
func (l *RosterLogger) Error(err error) {
	l.base.Error().Err(err).Msg("pipeline error")
}
