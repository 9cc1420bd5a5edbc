package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output and format identifiers accepted by Config.
const (
	FormatConsole = "console"
	FormatJSON    = "json"

	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Config describes how a logger should be built.
type Config struct {
	Level  string
	Format string
	Output string
	File   string
	Caller bool
}

// LogPathResult is returned by NewLoggerWithPath. It records where logs are
// actually going so the CLI can tell the user, and owns the log file handle.
type LogPathResult struct {
	Logger         zerolog.Logger
	FilePath       string
	UsingFile      bool
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if any.
func (r *LogPathResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLoggerWithPath builds a logger from cfg and reports the effective destination.
// When cfg.Output is "file" and the file cannot be opened, the logger writes to
// stderr and FallbackUsed is set.
func NewLoggerWithPath(cfg Config) LogPathResult {
	var result LogPathResult

	var out io.Writer = os.Stderr
	switch strings.ToLower(cfg.Output) {
	case OutputStdout:
		out = os.Stdout
	case OutputFile:
		f, err := openLogFile(cfg.File)
		if err != nil {
			result.FallbackUsed = true
			result.FallbackReason = err.Error()
			break
		}
		out = f
		result.file = f
		result.UsingFile = true
		result.FilePath = cfg.File
	}

	result.Logger = newZerolog(out, cfg)
	return result
}

// NewWithWriter builds a logger writing to w. Used by tests and by callers that
// already own their destination.
func NewWithWriter(w io.Writer, cfg Config) zerolog.Logger {
	return newZerolog(w, cfg)
}

func newZerolog(out io.Writer, cfg Config) zerolog.Logger {
	if strings.ToLower(cfg.Format) != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: !isTerminalWriter(out)}
	}

	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// ParseLevel parses level, defaulting to info for empty or unknown values.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// ComponentLogger returns a child logger tagged with the given component name.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when none is set.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		l := zerolog.Nop()
		return &l
	}
	return zerolog.Ctx(ctx)
}

// PrintLogPathMessage tells the user where log output is being written.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user that file logging failed and stderr is used instead.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: could not open log file (%s), logging to stderr\n", reason)
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("log output is %q but no log file is configured", OutputFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
