package engine

import "github.com/rshade/finquery/internal/dataset"

// BalanceResult is the account balance of one client in one year.
type BalanceResult struct {
	ClientID   string  `json:"client_id"`
	ClientName string  `json:"client_name"`
	Year       string  `json:"year"`
	Balance    float64 `json:"account_balance"`
	CacheHit   bool    `json:"cache_hit"`
}

// TransactionsResult lists the transactions of one client in one year.
// Transactions is shared with the dataset and the cache and must not be modified.
type TransactionsResult struct {
	ClientID     string                `json:"client_id"`
	Year         string                `json:"year"`
	Transactions []dataset.Transaction `json:"transactions"`
	CacheHit     bool                  `json:"cache_hit"`
}

// CategoryResult lists every transaction whose description contains Category,
// ignoring case, in client, year, then transaction order. An empty result is valid.
// Transactions is shared with the cache and must not be modified.
type CategoryResult struct {
	Category     string                `json:"category"`
	Transactions []dataset.Transaction `json:"transactions"`
	CacheHit     bool                  `json:"cache_hit"`
}

// AverageResult maps each distinct transaction description to its mean amount.
// Descriptions lists the map keys in the order they were first encountered.
// Averages and Descriptions are shared with the cache and must not be modified.
type AverageResult struct {
	Averages     map[string]float64 `json:"averages"`
	Descriptions []string           `json:"descriptions"`
	CacheHit     bool               `json:"cache_hit"`
}
