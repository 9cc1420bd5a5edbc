package engine

import (
	"fmt"
	"strings"

	"github.com/rshade/finquery/internal/dataset"
	"github.com/rshade/finquery/internal/engine/cache"
)

// QueryClientBalance returns the account balance of clientID in year.
// It returns an error wrapping ErrNotFound, without caching anything, when the
// client or the year is absent.
func (e *QueryEngine) QueryClientBalance(clientID, year string) (BalanceResult, error) {
	key := cache.Key(namespaceBalance, clientID, year)
	if v, ok := e.lookup(key); ok {
		res := v.(BalanceResult) //nolint:forcetypeassert // namespace holds only BalanceResult
		res.CacheHit = true
		return res, nil
	}

	client, rec, err := e.findYear(clientID, year)
	if err != nil {
		return BalanceResult{}, err
	}

	res := BalanceResult{
		ClientID:   client.ID,
		ClientName: client.Name,
		Year:       year,
		Balance:    rec.AccountBalance,
	}
	e.store(key, res)
	return res, nil
}

// QueryTransactions returns the transactions of clientID in year.
// It returns an error wrapping ErrNotFound, without caching anything, when the
// client or the year is absent.
func (e *QueryEngine) QueryTransactions(clientID, year string) (TransactionsResult, error) {
	key := cache.Key(namespaceTransactions, clientID, year)
	if v, ok := e.lookup(key); ok {
		res := v.(TransactionsResult) //nolint:forcetypeassert // namespace holds only TransactionsResult
		res.CacheHit = true
		return res, nil
	}

	_, rec, err := e.findYear(clientID, year)
	if err != nil {
		return TransactionsResult{}, err
	}

	txs := rec.Transactions
	if txs == nil {
		txs = []dataset.Transaction{}
	}

	res := TransactionsResult{
		ClientID:     clientID,
		Year:         year,
		Transactions: txs,
	}
	e.store(key, res)
	return res, nil
}

// QueryCategoryReports returns every transaction whose description contains
// category, compared case-insensitively. The cache key keeps category's case.
// The result, empty or not, is always cached.
func (e *QueryEngine) QueryCategoryReports(category string) CategoryResult {
	key := cache.Key(namespaceCategory, category)
	if v, ok := e.lookup(key); ok {
		res := v.(CategoryResult) //nolint:forcetypeassert // namespace holds only CategoryResult
		res.CacheHit = true
		return res
	}

	needle := strings.ToLower(category)
	matches := make([]dataset.Transaction, 0)
	for _, client := range e.dataset.Clients() {
		for _, year := range client.Years {
			for _, t := range client.Records[year].Transactions {
				if strings.Contains(strings.ToLower(t.Description), needle) {
					matches = append(matches, t)
				}
			}
		}
	}

	res := CategoryResult{Category: category, Transactions: matches}
	e.store(key, res)
	return res
}

// QueryAverageTransaction returns the mean amount of every distinct transaction
// description across the whole dataset. Descriptions are grouped by exact text.
func (e *QueryEngine) QueryAverageTransaction() AverageResult {
	if v, ok := e.lookup(keyAverage); ok {
		res := v.(AverageResult) //nolint:forcetypeassert // key holds only AverageResult
		res.CacheHit = true
		return res
	}

	type group struct {
		sum   float64
		count int
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, client := range e.dataset.Clients() {
		for _, year := range client.Years {
			for _, t := range client.Records[year].Transactions {
				g, ok := groups[t.Description]
				if !ok {
					g = &group{}
					groups[t.Description] = g
					order = append(order, t.Description)
				}
				g.sum += t.Amount
				g.count++
			}
		}
	}

	averages := make(map[string]float64, len(groups))
	for desc, g := range groups {
		averages[desc] = g.sum / float64(g.count)
	}

	res := AverageResult{Averages: averages, Descriptions: order}
	e.store(keyAverage, res)
	return res
}

// findYear locates the year record of a client.
func (e *QueryEngine) findYear(clientID, year string) (*dataset.Client, dataset.YearRecord, error) {
	client, ok := e.dataset.Client(clientID)
	if !ok {
		return nil, dataset.YearRecord{}, fmt.Errorf("%w: client %q", ErrNotFound, clientID)
	}

	rec, ok := client.Year(year)
	if !ok {
		return nil, dataset.YearRecord{}, fmt.Errorf("%w: client %q has no year %q", ErrNotFound, clientID, year)
	}

	return client, rec, nil
}
