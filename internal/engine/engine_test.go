package engine

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/finquery/internal/dataset"
	"github.com/rshade/finquery/internal/engine/cache"
	"github.com/rshade/finquery/internal/logging"
)

// newTestDataset builds four clients A-D with a 2023 record each. Client A also
// has a 2022 record listed before 2023.
func newTestDataset(t *testing.T) *dataset.Dataset {
	t.Helper()

	clients := []dataset.Client{
		*dataset.NewClient("A", "Alpha Inc").
			AddYear("2022", dataset.YearRecord{
				AccountBalance: 10,
				Transactions:   []dataset.Transaction{{Description: "Coffee", Amount: 3.0}},
			}).
			AddYear("2023", dataset.YearRecord{
				AccountBalance: 1500.75,
				Transactions: []dataset.Transaction{
					{Description: "Grocery Store", Amount: 80.0},
					{Description: "Rent", Amount: 1000.0},
				},
			}),
		*dataset.NewClient("B", "Beta LLC").
			AddYear("2023", dataset.YearRecord{
				AccountBalance: 0,
				Transactions: []dataset.Transaction{
					{Description: "grocery run", Amount: 20.0},
					{Description: "Coffee", Amount: 5.0},
				},
			}),
		*dataset.NewClient("C", "Gamma Co").
			AddYear("2023", dataset.YearRecord{AccountBalance: 300}),
		*dataset.NewClient("D", "Delta Ltd").
			AddYear("2023", dataset.YearRecord{AccountBalance: 400}),
	}

	ds, err := dataset.New(clients)
	require.NoError(t, err)
	return ds
}

func newTestEngine(t *testing.T, capacity int, opts ...Option) *QueryEngine {
	t.Helper()
	e, err := New(newTestDataset(t), capacity, opts...)
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	t.Run("invalid capacity", func(t *testing.T) {
		for _, capacity := range []int{0, -3} {
			e, err := New(newTestDataset(t), capacity)
			require.ErrorIs(t, err, cache.ErrInvalidCapacity)
			assert.Nil(t, e)
		}
	})

	t.Run("nil dataset", func(t *testing.T) {
		e, err := New(nil, 3)
		require.ErrorIs(t, err, ErrNilDataset)
		assert.Nil(t, e)
	})

	t.Run("valid", func(t *testing.T) {
		e := newTestEngine(t, 3)
		assert.Equal(t, 3, e.CacheCap())
		assert.Zero(t, e.CacheLen())
	})
}

func TestQueryClientBalance(t *testing.T) {
	e := newTestEngine(t, 5)

	first, err := e.QueryClientBalance("A", "2023")
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, "Alpha Inc", first.ClientName)
	assert.Equal(t, "2023", first.Year)
	assert.InDelta(t, 1500.75, first.Balance, 1e-9)

	second, err := e.QueryClientBalance("A", "2023")
	require.NoError(t, err)
	assert.True(t, second.CacheHit, "second call must be served from cache")

	second.CacheHit = false
	assert.Equal(t, first, second, "hit returns the identical value")
	assert.Equal(t, 1, e.CacheLen())
}

func TestQueryClientBalance_ZeroBalanceIsHit(t *testing.T) {
	e := newTestEngine(t, 5)

	_, err := e.QueryClientBalance("B", "2023")
	require.NoError(t, err)

	res, err := e.QueryClientBalance("B", "2023")
	require.NoError(t, err)
	assert.True(t, res.CacheHit, "a cached zero balance is still a hit")
	assert.Zero(t, res.Balance)
}

func TestQueryClientBalance_NotFoundIsNotCached(t *testing.T) {
	tests := []struct {
		name     string
		clientID string
		year     string
	}{
		{name: "unknown client", clientID: "ghost", year: "1999"},
		{name: "unknown year", clientID: "A", year: "1999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, 5)

			for range 2 {
				res, err := e.QueryClientBalance(tt.clientID, tt.year)
				require.ErrorIs(t, err, ErrNotFound)
				assert.Zero(t, res)
				assert.Zero(t, e.CacheLen(), "not-found outcomes must not be cached")
			}
		})
	}
}

func TestQueryTransactions(t *testing.T) {
	e := newTestEngine(t, 5)

	res, err := e.QueryTransactions("A", "2023")
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, "A", res.ClientID)
	assert.Equal(t, "2023", res.Year)
	want := []dataset.Transaction{
		{Description: "Grocery Store", Amount: 80.0},
		{Description: "Rent", Amount: 1000.0},
	}
	if diff := cmp.Diff(want, res.Transactions); diff != "" {
		t.Errorf("transactions mismatch (-want +got):\n%s", diff)
	}

	hit, err := e.QueryTransactions("A", "2023")
	require.NoError(t, err)
	assert.True(t, hit.CacheHit)
	assert.Equal(t, res.Transactions, hit.Transactions)

	t.Run("empty transactions are cached", func(t *testing.T) {
		_, err := e.QueryTransactions("C", "2023")
		require.NoError(t, err)
		again, err := e.QueryTransactions("C", "2023")
		require.NoError(t, err)
		assert.True(t, again.CacheHit)
		assert.Empty(t, again.Transactions)
		assert.NotNil(t, again.Transactions)

		data, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"transactions":[]`)
	})

	t.Run("not found", func(t *testing.T) {
		before := e.CacheLen()
		_, err := e.QueryTransactions("ghost", "2023")
		require.ErrorIs(t, err, ErrNotFound)
		_, err = e.QueryTransactions("B", "2019")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, before, e.CacheLen())
	})

	t.Run("separate namespace from balance", func(t *testing.T) {
		bal, err := e.QueryClientBalance("A", "2023")
		require.NoError(t, err)
		assert.False(t, bal.CacheHit)
	})
}

func TestQueryCategoryReports(t *testing.T) {
	e := newTestEngine(t, 5)

	res := e.QueryCategoryReports("grocery")
	assert.False(t, res.CacheHit)
	assert.Equal(t, "grocery", res.Category)
	want := []dataset.Transaction{
		{Description: "Grocery Store", Amount: 80.0},
		{Description: "grocery run", Amount: 20.0},
	}
	if diff := cmp.Diff(want, res.Transactions); diff != "" {
		t.Errorf("category scan mismatch (-want +got):\n%s", diff)
	}

	hit := e.QueryCategoryReports("grocery")
	assert.True(t, hit.CacheHit)
	assert.Equal(t, res.Transactions, hit.Transactions)

	t.Run("key is case sensitive, search is not", func(t *testing.T) {
		upper := e.QueryCategoryReports("GROCERY")
		assert.False(t, upper.CacheHit)
		assert.Equal(t, res.Transactions, upper.Transactions)
	})

	t.Run("year order follows document order", func(t *testing.T) {
		coffee := e.QueryCategoryReports("coffee")
		assert.Equal(t, []dataset.Transaction{
			{Description: "Coffee", Amount: 3.0},
			{Description: "Coffee", Amount: 5.0},
		}, coffee.Transactions)
	})

	t.Run("empty result is cached and hits", func(t *testing.T) {
		miss := e.QueryCategoryReports("yacht")
		assert.False(t, miss.CacheHit)
		assert.NotNil(t, miss.Transactions)
		assert.Empty(t, miss.Transactions)

		again := e.QueryCategoryReports("yacht")
		assert.True(t, again.CacheHit, "an empty cached result is a hit, not a miss")
		assert.Empty(t, again.Transactions)
	})
}

func TestQueryAverageTransaction(t *testing.T) {
	ds, err := dataset.New([]dataset.Client{
		*dataset.NewClient("X", "X").
			AddYear("2023", dataset.YearRecord{Transactions: []dataset.Transaction{
				{Description: "Coffee", Amount: 3.0},
				{Description: "Rent", Amount: 1000.0},
			}}),
		*dataset.NewClient("Y", "Y").
			AddYear("2024", dataset.YearRecord{Transactions: []dataset.Transaction{
				{Description: "Coffee", Amount: 5.0},
			}}),
	})
	require.NoError(t, err)

	e, err := New(ds, 2)
	require.NoError(t, err)

	res := e.QueryAverageTransaction()
	assert.False(t, res.CacheHit)
	assert.Equal(t, map[string]float64{"Coffee": 4.0, "Rent": 1000.0}, res.Averages)
	assert.Equal(t, []string{"Coffee", "Rent"}, res.Descriptions)

	hit := e.QueryAverageTransaction()
	assert.True(t, hit.CacheHit)
	assert.Equal(t, res.Averages, hit.Averages)
	assert.Equal(t, []string{"average_transaction"}, e.CacheKeys())
}

func TestQueryAverageTransaction_FullPrecision(t *testing.T) {
	ds, err := dataset.New([]dataset.Client{
		*dataset.NewClient("X", "X").
			AddYear("2023", dataset.YearRecord{Transactions: []dataset.Transaction{
				{Description: "Fee", Amount: 1},
				{Description: "Fee", Amount: 1},
				{Description: "Fee", Amount: 2},
			}}),
	})
	require.NoError(t, err)

	e, err := New(ds, 1)
	require.NoError(t, err)

	assert.Equal(t, 4.0/3.0, e.QueryAverageTransaction().Averages["Fee"])
}

func TestQueryAverageTransaction_EmptyDataset(t *testing.T) {
	ds, err := dataset.New(nil)
	require.NoError(t, err)

	e, err := New(ds, 1)
	require.NoError(t, err)

	res := e.QueryAverageTransaction()
	assert.Empty(t, res.Averages)
	assert.True(t, e.QueryAverageTransaction().CacheHit, "an empty average table is cached")
}

func TestEviction_EndToEnd(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, logging.Config{Level: "info", Format: logging.FormatJSON})
	e := newTestEngine(t, 3, WithLogger(logger))

	for _, id := range []string{"A", "B", "C", "D"} {
		res, err := e.QueryClientBalance(id, "2023")
		require.NoError(t, err)
		require.False(t, res.CacheHit)
		require.LessOrEqual(t, e.CacheLen(), 3)
	}

	assert.Equal(t, []string{"balance|D|2023", "balance|C|2023", "balance|B|2023"}, e.CacheKeys())
	assert.Contains(t, logs.String(), `"evicted_key":"balance|A|2023"`)
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		assert.Equal(t, 1, strings.Count(line, `"component"`), line)
		assert.Contains(t, line, `"component":"engine"`)
	}

	for _, id := range []string{"B", "C", "D"} {
		res, err := e.QueryClientBalance(id, "2023")
		require.NoError(t, err)
		assert.True(t, res.CacheHit, "client %s should still be cached", id)
	}

	res, err := e.QueryClientBalance("A", "2023")
	require.NoError(t, err)
	assert.False(t, res.CacheHit, "A was evicted and must be recomputed")
}

func TestEviction_ReadPromotesAcrossQueryTypes(t *testing.T) {
	e := newTestEngine(t, 3)

	_, err := e.QueryClientBalance("A", "2023")
	require.NoError(t, err)
	e.QueryCategoryReports("rent")
	e.QueryAverageTransaction()

	// Reading the balance promotes it; the category entry becomes the oldest.
	_, err = e.QueryClientBalance("A", "2023")
	require.NoError(t, err)

	_, err = e.QueryTransactions("B", "2023")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"transactions|B|2023",
		"balance|A|2023",
		"average_transaction",
	}, e.CacheKeys())
}

func TestCacheStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newTestEngine(t, 1, WithMetrics(reg))

	_, _ = e.QueryClientBalance("A", "2023")
	_, _ = e.QueryClientBalance("A", "2023")
	_, _ = e.QueryClientBalance("ghost", "2023")
	e.QueryCategoryReports("coffee")

	s := e.CacheStats()
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(3), s.Misses)
	assert.Equal(t, int64(1), s.Evictions)
	assert.Equal(t, 1, s.Entries)

	count, err := testutil.GatherAndCount(reg, "finquery_cache_hits_total", "finquery_cache_evictions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
