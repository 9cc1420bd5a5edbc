package batch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default batch processing configuration.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 100

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = fmt.Errorf("batch size must be between %d and %d", MinBatchSize, MaxBatchSize)
	ErrNilCallback      = errors.New("batch callback cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// Callback processes one batch. batchIndex is 0-based.
type Callback[T any] func(ctx context.Context, batch []T, batchIndex int) error

// ItemCallback processes one item. index is the item's position in the full input.
type ItemCallback[T any] func(ctx context.Context, item T, index int) error

// ProgressCallback receives a progress snapshot after every batch.
type ProgressCallback func(progress Progress)

// Processor splits items into fixed-size batches and processes them in order.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressCallback
	now        func() time.Time
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize, now: time.Now}, nil
}

// NewProcessorWithDefaults creates a processor with DefaultBatchSize.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize, now: time.Now}
}

// WithProgressCallback sets a callback invoked after each batch.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// BatchSize returns the configured batch size.
func (p *Processor[T]) BatchSize() int {
	return p.batchSize
}

// Process calls callback once per batch, in order, and stops at the first error
// or when ctx is cancelled.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}

	bounds := p.Batches(len(items))
	progress := Progress{
		TotalItems:   len(items),
		TotalBatches: len(bounds),
		BatchSize:    p.batchSize,
		StartTime:    p.now(),
	}

	for batchIndex, b := range bounds {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := callback(ctx, items[b[0]:b[1]], batchIndex); err != nil {
			return fmt.Errorf("batch %d failed: %w", batchIndex, err)
		}

		progress.ProcessedItems += b[1] - b[0]
		progress.ProcessedBatches++
		progress.Elapsed = p.now().Sub(progress.StartTime)
		if p.onProgress != nil {
			p.onProgress(progress)
		}
	}

	return nil
}

// Each calls fn for every item, in order, batching only for progress reporting
// and cancellation checks.
func (p *Processor[T]) Each(ctx context.Context, items []T, fn ItemCallback[T]) error {
	if fn == nil {
		return ErrNilCallback
	}
	return p.Process(ctx, items, func(ctx context.Context, batch []T, batchIndex int) error {
		base := batchIndex * p.batchSize
		for i, item := range batch {
			if err := fn(ctx, item, base+i); err != nil {
				return fmt.Errorf("item %d: %w", base+i, err)
			}
		}
		return nil
	})
}

// Batches returns the [start, end) bounds of each batch for totalItems items.
func (p *Processor[T]) Batches(totalItems int) [][2]int {
	if totalItems <= 0 {
		return nil
	}

	n := (totalItems + p.batchSize - 1) / p.batchSize
	bounds := make([][2]int, n)
	for i := range n {
		start := i * p.batchSize
		bounds[i] = [2]int{start, min(start+p.batchSize, totalItems)}
	}
	return bounds
}
