package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

)

// Interactive prompt text and commands.
const (
	replPrompt  = "Ask me a question: "
	replExit    = "exit"
	replStats   = "stats"
	replMaxLine = 64 * 1024
)

// NewReplCmd creates the repl command, an interactive read loop sharing one
// query cache across every question.
func NewReplCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Answer questions interactively",
		Long: `Reads questions from standard input, one per line, and answers each in turn.
All questions share one cache, so repeated questions are marked as cache hits.

Type "stats" to print cache statistics and "exit" to quit.`,
		Example: `  finquery repl
  finquery repl --cache-size 3 --metrics-addr 127.0.0.1:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				srv, srvErr := startMetricsServer(cmd.Context(), metricsAddr, sess.registry)
				if srvErr != nil {
					return srvErr
				}
				defer func() { _ = srv.Stop() }()
			}

			return runRepl(cmd, sess, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"serve Prometheus cache metrics on this address while the session runs")

	return cmd
}

// runRepl answers lines from in until EOF, "exit", or cancellation of the
// command context. The prompt is only printed when in is an interactive
// terminal. Cancellation returns the context error.
func runRepl(cmd *cobra.Command, sess *session, in io.Reader) error {
	ctx := cmd.Context()
	log := cliLogger(ctx)
	out := cmd.OutOrStdout()

	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isTerminal(f)
	}

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := readLines(readCtx, in)

	questions := 0
	for {
		if interactive {
			_, _ = fmt.Fprint(out, replPrompt)
		}

		var (
			raw string
			ok  bool
		)
		select {
		case <-ctx.Done():
			log.Debug().Ctx(ctx).Int("questions", questions).Msg("repl interrupted")
			return ctx.Err()
		case raw, ok = <-lines:
		}
		if !ok {
			break
		}

		line := strings.TrimSpace(raw)
		switch strings.ToLower(line) {
		case "":
			continue
		case replExit:
			log.Debug().Ctx(ctx).Int("questions", questions).Msg("repl exited")
			return nil
		case replStats:
			if err := sess.renderer.Stats(sess.engine.CacheStats()); err != nil {
				return err
			}
			continue
		}

		questions++
		if err := sess.ask(ctx, line); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := <-readErr; err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	log.Debug().Ctx(ctx).Int("questions", questions).Msg("repl reached end of input")
	return nil
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. lines is closed when scanning stops; the scanner error is
// sent on the returned error channel before that.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), replMaxLine)
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}
