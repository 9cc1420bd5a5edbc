package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/finquery/internal/config"
	"github.com/rshade/finquery/internal/dataset"
	"github.com/rshade/finquery/internal/engine"
	"github.com/rshade/finquery/internal/engine/cache"
	"github.com/rshade/finquery/internal/router"
)

// User-facing answers for outcomes that are not query results.
const (
	msgNotUnderstood = "Sorry, I didn't understand the query. Please rephrase."
	msgNotFound      = "Client or year not found."
	cacheHitPrefix   = "[Cache Hit]"
)

// Terminal styles.
//
//nolint:gochecknoglobals // Immutable style definitions.
var (
	hitStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// isWriterTerminal reports whether w is a terminal. Non-file writers, such as
// buffers in tests, never are.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// renderer writes answers in text or JSON.
type renderer struct {
	w         io.Writer
	format    string
	precision int
	styled    bool
	printer   *message.Printer
}

func newRenderer(w io.Writer, format string, precision int) *renderer {
	return &renderer{
		w:         w,
		format:    format,
		precision: precision,
		styled:    format == config.OutputFormatText && isWriterTerminal(w),
		printer:   message.NewPrinter(language.English),
	}
}

// jsonAnswer is the JSON form of one answer. Error carries the same message the
// text renderer prints for unrecognized prompts and unknown clients.
type jsonAnswer struct {
	Intent       *router.Intent             `json:"intent,omitempty"`
	Balance      *engine.BalanceResult      `json:"balance,omitempty"`
	Transactions *engine.TransactionsResult `json:"transactions,omitempty"`
	Category     *engine.CategoryResult     `json:"category,omitempty"`
	Average      *engine.AverageResult      `json:"average,omitempty"`
	CacheHit     bool                       `json:"cache_hit"`
	Error        string                     `json:"error,omitempty"`
}

// Response renders the outcome of a dispatched prompt. err is the error
// returned by Dispatch; recognized failure outcomes are rendered as answers and
// anything else is returned unchanged.
func (r *renderer) Response(resp router.Response, err error) error {
	var answerText string
	switch {
	case err == nil:
	case errors.Is(err, router.ErrUnrecognizedPrompt):
		answerText = msgNotUnderstood
	case errors.Is(err, engine.ErrNotFound):
		answerText = msgNotFound
	default:
		return err
	}

	if r.format == config.OutputFormatJSON {
		answer := jsonAnswer{
			Balance:      resp.Balance,
			Transactions: resp.Transactions,
			Category:     resp.Category,
			Average:      resp.Average,
			CacheHit:     resp.CacheHit(),
			Error:        answerText,
		}
		if resp.Intent.Kind != "" {
			intent := resp.Intent
			answer.Intent = &intent
		}
		return r.writeJSON(answer)
	}

	if answerText != "" {
		return r.line(r.style(missStyle, answerText))
	}
	return r.writeText(resp)
}

// Stats renders a cache statistics snapshot.
func (r *renderer) Stats(stats cache.Stats) error {
	if r.format == config.OutputFormatJSON {
		return r.writeJSON(stats)
	}
	return r.line(r.printer.Sprintf("Cache: %d/%d entries, %d hits, %d misses, %d evictions (%.1f%% hit ratio)",
		stats.Entries, stats.Capacity, stats.Hits, stats.Misses, stats.Evictions, stats.HitRatio()))
}

func (r *renderer) writeText(resp router.Response) error {
	var lines []string

	switch {
	case resp.Balance != nil:
		b := resp.Balance
		lines = append(lines, fmt.Sprintf("Account Balance for %s in %s: %s",
			b.ClientName, b.Year, r.currency(b.Balance)))
	case resp.Transactions != nil:
		t := resp.Transactions
		if len(t.Transactions) == 0 {
			lines = append(lines, fmt.Sprintf("No transactions recorded for client %s in %s.", t.ClientID, t.Year))
			break
		}
		lines = append(lines, r.style(headingStyle,
			fmt.Sprintf("Transactions for client %s in %s:", t.ClientID, t.Year)))
		lines = append(lines, r.transactionLines(t.Transactions)...)
	case resp.Category != nil:
		c := resp.Category
		if len(c.Transactions) == 0 {
			lines = append(lines, fmt.Sprintf("No transactions found for %s.", c.Category))
			break
		}
		lines = append(lines, r.style(headingStyle,
			fmt.Sprintf("Transactions related to %s:", c.Category)))
		lines = append(lines, r.transactionLines(c.Transactions)...)
	case resp.Average != nil:
		a := resp.Average
		if len(a.Descriptions) == 0 {
			lines = append(lines, "No transactions recorded.")
			break
		}
		lines = append(lines, r.style(headingStyle, "Average transaction amount by description:"))
		for _, desc := range a.Descriptions {
			lines = append(lines, fmt.Sprintf("  - %s: %s", desc, r.currency(a.Averages[desc])))
		}
	default:
		return nil
	}

	if resp.CacheHit() {
		lines[0] = r.style(hitStyle, cacheHitPrefix) + " " + lines[0]
	}
	return r.line(strings.Join(lines, "\n"))
}

func (r *renderer) transactionLines(txs []dataset.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, fmt.Sprintf("  - %s: %s", t.Description, r.currency(t.Amount)))
	}
	return out
}

// currency formats amount as dollars with thousands separators,
// e.g. 1234.5 -> "$1,234.50" and -20 -> "-$20.00".
func (r *renderer) currency(amount float64) string {
	format := fmt.Sprintf("%%.%df", r.precision)
	formatted := r.printer.Sprintf(format, math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func (r *renderer) line(text string) error {
	_, err := fmt.Fprintln(r.w, text)
	return err
}

func (r *renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
