package router

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnrecognizedPrompt is returned when a prompt matches none of the intent patterns.
var ErrUnrecognizedPrompt = errors.New("unrecognized prompt")

// IntentKind identifies which engine query a prompt asks for.
type IntentKind string

// Recognized intents.
const (
	IntentBalance      IntentKind = "balance"
	IntentTransactions IntentKind = "transactions"
	IntentCategory     IntentKind = "category"
	IntentAverage      IntentKind = "average"
)

// Intent is a recognized prompt with its extracted arguments.
// Only the fields relevant to Kind are set.
type Intent struct {
	Kind     IntentKind `json:"kind"`
	ClientID string     `json:"client_id,omitempty"`
	Year     string     `json:"year,omitempty"`
	Category string     `json:"category,omitempty"`
}

// CompiledPattern pairs an intent with the expression that recognizes it.
type CompiledPattern struct {
	Kind  IntentKind
	Regex *regexp.Regexp
}

// Match reports whether prompt matches and, if so, returns the extracted intent.
func (p *CompiledPattern) Match(prompt string) (Intent, bool) {
	m := p.Regex.FindStringSubmatch(prompt)
	if m == nil {
		return Intent{}, false
	}

	intent := Intent{Kind: p.Kind}
	switch p.Kind {
	case IntentBalance, IntentTransactions:
		intent.ClientID = m[1]
		intent.Year = m[2]
	case IntentCategory:
		intent.Category = strings.ToLower(strings.TrimSpace(m[1]))
	case IntentAverage:
	}
	return intent, true
}

// CompilePattern compiles expr for kind. Matching is always case-insensitive.
func CompilePattern(kind IntentKind, expr string) (*CompiledPattern, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", expr, err)
	}
	return &CompiledPattern{Kind: kind, Regex: re}, nil
}

// defaultPatterns lists the built-in intent expressions in match priority order.
//
//nolint:gochecknoglobals // Read-only pattern table.
var defaultPatterns = []struct {
	kind IntentKind
	expr string
}{
	{IntentBalance, `balance.*client\s*(\w+).*year\s*(\d{4})`},
	{IntentTransactions, `transactions.*client\s*(\w+).*year\s*(\d{4})`},
	{IntentCategory, `(?:client reports for|show all transactions related to)\s*(.+)`},
	{IntentAverage, `(?:average transaction|mean transaction amount|typical transaction value)`},
}

// DefaultPatterns compiles the built-in intent patterns.
func DefaultPatterns() []*CompiledPattern {
	patterns := make([]*CompiledPattern, 0, len(defaultPatterns))
	for _, p := range defaultPatterns {
		compiled, err := CompilePattern(p.kind, p.expr)
		if err != nil {
			panic(err) // built-in expressions are constant
		}
		patterns = append(patterns, compiled)
	}
	return patterns
}

// Parse recognizes the intent of prompt using the built-in patterns.
func Parse(prompt string) (Intent, error) {
	return parseWith(DefaultPatterns(), prompt)
}

func parseWith(patterns []*CompiledPattern, prompt string) (Intent, error) {
	for _, p := range patterns {
		if intent, ok := p.Match(prompt); ok {
			return intent, nil
		}
	}
	return Intent{}, fmt.Errorf("%w: %q", ErrUnrecognizedPrompt, prompt)
}
