// Package dataset holds the read-only client/year/transaction records that
// finquery answers questions about, and loads them from JSON documents.
//
// A dataset document has a top-level "clients" array. Each client object
// carries "client_id", "client_name" and one object per year keyed by the
// year string:
//
//	{"clients": [{
//	  "client_id": "C001",
//	  "client_name": "Acme Corp",
//	  "2023": {"account_balance": 1200.5,
//	           "transactions": [{"description": "Grocery Store", "amount": 54.2}]}
//	}]}
//
// Year records keep their document order, which is the order category scans
// visit them in.
package dataset
