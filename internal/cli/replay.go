package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/finquery/internal/engine/batch"
)

// NewReplayCmd creates the replay command, which answers every question in a
// file through one shared cache.
func NewReplayCmd() *cobra.Command {
	var (
		batchSize int
		showStats bool
	)

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Answer every question in a file",
		Long: `Reads questions from a file, one per line, and answers them in order through a
single cache. Blank lines and lines starting with '#' are skipped. Use "-" to
read from standard input.`,
		Example: `  finquery replay questions.txt --stats
  cat questions.txt | finquery replay - --cache-size 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts, err := readPrompts(cmd, args[0])
			if err != nil {
				return err
			}

			proc := batch.NewProcessorWithDefaults[string]()
			if cmd.Flags().Changed("batch-size") {
				if proc, err = batch.NewProcessor[string](batchSize); err != nil {
					return err
				}
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}

			if err = runReplay(cmd.Context(), sess, proc, prompts); err != nil {
				return err
			}
			if showStats {
				return sess.renderer.Stats(sess.engine.CacheStats())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", batch.DefaultBatchSize,
		"questions per progress report")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print cache statistics after the last answer")

	return cmd
}

// runReplay answers prompts in order, logging progress after each batch.
func runReplay(ctx context.Context, sess *session, proc *batch.Processor[string], prompts []string) error {
	log := cliLogger(ctx)

	proc.WithProgressCallback(func(p batch.Progress) {
		evt := log.Debug().Ctx(ctx).
			Int("processed", p.ProcessedItems).
			Int("total", p.TotalItems).
			Float64("percent", p.PercentComplete()).
			Float64("questions_per_second", p.ItemsPerSecond())
		if p.IsComplete() {
			evt.Msg("replay complete")
			return
		}
		evt.Msg("replay progress")
	})

	if len(prompts) == 0 {
		log.Info().Ctx(ctx).Msg("no questions to replay")
		return nil
	}

	return proc.Each(ctx, prompts, func(ctx context.Context, prompt string, _ int) error {
		return sess.ask(ctx, prompt)
	})
}

// readPrompts reads the questions in path, or standard input for "-".
func readPrompts(cmd *cobra.Command, path string) ([]string, error) {
	if path == "-" {
		return parsePrompts(cmd.InOrStdin())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening replay file: %w", err)
	}
	defer f.Close()

	return parsePrompts(f)
}

// parsePrompts returns the trimmed non-blank, non-comment lines of r.
func parsePrompts(r io.Reader) ([]string, error) {
	var prompts []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), replMaxLine)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading replay file: %w", err)
	}
	return prompts, nil
}
