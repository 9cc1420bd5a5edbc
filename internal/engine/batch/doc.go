// Package batch walks a list of items in fixed-size batches, reporting progress
// after each batch and stopping early when the context is cancelled.
//
// Processing is strictly sequential and in input order, which is what the
// replay command relies on: prompts are answered one after another against a
// single query engine, so cache hits and evictions match an interactive session.
package batch
