package dataset

import (
	"errors"
	"fmt"
)

// Validation errors returned when building a Dataset.
var (
	ErrMissingClients    = errors.New("dataset has no \"clients\" array")
	ErrMissingClientID   = errors.New("client has no client_id")
	ErrDuplicateClientID = errors.New("duplicate client_id")
)

// Transaction is a single ledger line.
type Transaction struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// YearRecord is a client's account state for one year.
type YearRecord struct {
	AccountBalance float64       `json:"account_balance"`
	Transactions   []Transaction `json:"transactions"`
}

// Client is one client and its per-year records.
type Client struct {
	ID   string
	Name string

	// Years lists the year keys in document order.
	Years []string

	// Records indexes year records by year key.
	Records map[string]YearRecord
}

// NewClient returns a client with no year records.
func NewClient(id, name string) *Client {
	return &Client{ID: id, Name: name, Records: make(map[string]YearRecord)}
}

// AddYear sets the record for year. A year seen for the first time is appended
// to Years; a repeated year replaces the record in place.
func (c *Client) AddYear(year string, rec YearRecord) *Client {
	if c.Records == nil {
		c.Records = make(map[string]YearRecord)
	}
	if _, exists := c.Records[year]; !exists {
		c.Years = append(c.Years, year)
	}
	c.Records[year] = rec
	return c
}

// Year returns the record for year and whether it exists.
func (c *Client) Year(year string) (YearRecord, bool) {
	rec, ok := c.Records[year]
	return rec, ok
}

// Dataset is an immutable collection of clients. It must not be modified after
// construction; it is safe to share between readers.
type Dataset struct {
	clients []Client
	index   map[string]int
}

// New builds a Dataset from clients, preserving their order.
// Client IDs must be non-empty and unique.
func New(clients []Client) (*Dataset, error) {
	ds := &Dataset{
		clients: clients,
		index:   make(map[string]int, len(clients)),
	}

	for i, c := range clients {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: client at index %d", ErrMissingClientID, i)
		}
		if prev, dup := ds.index[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q at index %d and %d", ErrDuplicateClientID, c.ID, prev, i)
		}
		ds.index[c.ID] = i
	}

	return ds, nil
}

// Clients returns all clients in document order. Callers must not modify the result.
func (d *Dataset) Clients() []Client {
	return d.clients
}

// Client returns the client with the given ID.
func (d *Dataset) Client(id string) (*Client, bool) {
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return &d.clients[i], true
}

// Len returns the number of clients.
func (d *Dataset) Len() int {
	return len(d.clients)
}

// TransactionCount returns the number of transactions across all clients and years.
func (d *Dataset) TransactionCount() int {
	n := 0
	for _, c := range d.clients {
		for _, rec := range c.Records {
			n += len(rec.Transactions)
		}
	}
	return n
}
