package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rshade/finquery/internal/config"
	"github.com/rshade/finquery/internal/dataset"
	"github.com/rshade/finquery/internal/engine"
	"github.com/rshade/finquery/internal/logging"
	"github.com/rshade/finquery/internal/router"
)

// settings is the effective configuration of one invocation after CLI flags
// have been applied over the config file and environment.
type settings struct {
	DatasetPath   string
	CacheCapacity int
	OutputFormat  string
	Precision     int
}

// resolveSettings merges persistent flags over the global configuration.
func resolveSettings(cmd *cobra.Command) (settings, error) {
	s := settings{
		DatasetPath:   config.GetDatasetPath(),
		CacheCapacity: config.GetCacheCapacity(),
		OutputFormat:  config.GetDefaultOutputFormat(),
		Precision:     config.GetOutputPrecision(),
	}

	if v, _ := cmd.Flags().GetString(flagDataset); v != "" {
		s.DatasetPath = v
	}
	if cmd.Flags().Changed(flagCacheSize) {
		s.CacheCapacity, _ = cmd.Flags().GetInt(flagCacheSize)
	}
	if v, _ := cmd.Flags().GetString(flagOutput); v != "" {
		s.OutputFormat = v
	}

	switch s.OutputFormat {
	case config.OutputFormatText, config.OutputFormatJSON:
	default:
		return s, fmt.Errorf("unsupported output format %q (want %q or %q)",
			s.OutputFormat, config.OutputFormatText, config.OutputFormatJSON)
	}
	return s, nil
}

// session is one loaded dataset, its query engine and the prompt router.
// A session lives for a single CLI invocation; repl and replay share it
// across prompts so the cache carries over.
type session struct {
	engine   *engine.QueryEngine
	router   *router.Router
	registry *prometheus.Registry
	renderer *renderer
}

// newSession loads the dataset and builds the engine for cmd.
func newSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	log := cliLogger(ctx)

	s, err := resolveSettings(cmd)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.LoadWithContext(ctx, s.DatasetPath)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("dataset_path", s.DatasetPath).Msg("failed to load dataset")
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	return newSessionFromDataset(ctx, cmd, ds, s)
}

func newSessionFromDataset(
	ctx context.Context,
	cmd *cobra.Command,
	ds *dataset.Dataset,
	s settings,
) (*session, error) {
	log := cliLogger(ctx)

	reg := prometheus.NewRegistry()
	eng, err := engine.New(ds, s.CacheCapacity,
		engine.WithLogger(*logging.FromContext(ctx)),
		engine.WithMetrics(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("creating query engine: %w", err)
	}

	log.Debug().Ctx(ctx).
		Int("clients", ds.Len()).
		Int("cache_capacity", s.CacheCapacity).
		Str("output", s.OutputFormat).
		Msg("session ready")

	return &session{
		engine:   eng,
		router:   router.New(eng),
		registry: reg,
		renderer: newRenderer(cmd.OutOrStdout(), s.OutputFormat, s.Precision),
	}, nil
}

// ask dispatches one prompt and renders the answer. Unrecognized prompts and
// unknown clients are answers, not failures; only rendering errors are returned.
func (s *session) ask(ctx context.Context, prompt string) error {
	resp, err := s.router.Dispatch(ctx, prompt)
	return s.renderer.Response(resp, err)
}
