package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/rshade/finquery/internal/logging"
)

// Parse parses a dataset JSON document from bytes.
func Parse(data []byte) (*Dataset, error) {
	return ParseWithContext(context.Background(), data)
}

// ParseWithContext parses a dataset JSON document from bytes with logging context.
func ParseWithContext(ctx context.Context, data []byte) (*Dataset, error) {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "dataset")
	log.Debug().
		Str("operation", "parse").
		Int("data_size_bytes", len(data)).
		Msg("parsing dataset from bytes")

	clients, err := decodeDocument(data)
	if err != nil {
		log.Error().
			Err(err).
			Msg("failed to parse dataset JSON")
		return nil, err
	}

	ds, err := New(clients)
	if err != nil {
		log.Error().
			Err(err).
			Msg("dataset failed validation")
		return nil, fmt.Errorf("validating dataset: %w", err)
	}

	log.Debug().
		Int("client_count", ds.Len()).
		Int("transaction_count", ds.TransactionCount()).
		Msg("dataset parsed successfully")

	return ds, nil
}

// Load reads and parses the dataset file at path.
func Load(path string) (*Dataset, error) {
	return LoadWithContext(context.Background(), path)
}

// LoadWithContext reads and parses the dataset file at path with logging context.
func LoadWithContext(ctx context.Context, path string) (*Dataset, error) {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "dataset")
	log.Debug().
		Str("operation", "load").
		Str("dataset_path", path).
		Msg("loading dataset")

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().
			Err(err).
			Str("dataset_path", path).
			Msg("failed to read dataset file")
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}

	return ParseWithContext(ctx, data)
}
