package router

import (
	"context"

	"github.com/rshade/finquery/internal/engine"
	"github.com/rshade/finquery/internal/logging"
)

// Querier is the engine surface the router dispatches to.
type Querier interface {
	QueryClientBalance(clientID, year string) (engine.BalanceResult, error)
	QueryTransactions(clientID, year string) (engine.TransactionsResult, error)
	QueryCategoryReports(category string) engine.CategoryResult
	QueryAverageTransaction() engine.AverageResult
}

// Response is the outcome of a dispatched prompt. Exactly one result field,
// matching Intent.Kind, is set on success.
type Response struct {
	Intent       Intent                     `json:"intent"`
	Balance      *engine.BalanceResult      `json:"balance,omitempty"`
	Transactions *engine.TransactionsResult `json:"transactions,omitempty"`
	Category     *engine.CategoryResult     `json:"category,omitempty"`
	Average      *engine.AverageResult      `json:"average,omitempty"`
}

// CacheHit reports whether the result was served from the engine cache.
func (r Response) CacheHit() bool {
	switch {
	case r.Balance != nil:
		return r.Balance.CacheHit
	case r.Transactions != nil:
		return r.Transactions.CacheHit
	case r.Category != nil:
		return r.Category.CacheHit
	case r.Average != nil:
		return r.Average.CacheHit
	default:
		return false
	}
}

// Router recognizes prompts and invokes the matching engine query.
type Router struct {
	querier  Querier
	patterns []*CompiledPattern
}

// New creates a Router dispatching to q with the built-in patterns.
func New(q Querier) *Router {
	return &Router{querier: q, patterns: DefaultPatterns()}
}

// Route recognizes the intent of prompt without running it.
func (r *Router) Route(prompt string) (Intent, error) {
	return parseWith(r.patterns, prompt)
}

// Dispatch recognizes prompt and runs the matching query.
// Unrecognized prompts return ErrUnrecognizedPrompt; lookups of unknown clients
// or years return the engine's ErrNotFound alongside the recognized intent.
func (r *Router) Dispatch(ctx context.Context, prompt string) (Response, error) {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "router")

	intent, err := r.Route(prompt)
	if err != nil {
		log.Debug().
			Str("prompt", prompt).
			Msg("prompt not recognized")
		return Response{}, err
	}

	log.Debug().
		Str("intent", string(intent.Kind)).
		Str("client_id", intent.ClientID).
		Str("year", intent.Year).
		Str("category", intent.Category).
		Msg("prompt routed")

	resp := Response{Intent: intent}
	switch intent.Kind {
	case IntentBalance:
		res, qErr := r.querier.QueryClientBalance(intent.ClientID, intent.Year)
		if qErr != nil {
			return resp, qErr
		}
		resp.Balance = &res
	case IntentTransactions:
		res, qErr := r.querier.QueryTransactions(intent.ClientID, intent.Year)
		if qErr != nil {
			return resp, qErr
		}
		resp.Transactions = &res
	case IntentCategory:
		res := r.querier.QueryCategoryReports(intent.Category)
		resp.Category = &res
	case IntentAverage:
		res := r.querier.QueryAverageTransaction()
		resp.Average = &res
	}

	return resp, nil
}
