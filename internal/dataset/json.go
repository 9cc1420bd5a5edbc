package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Reserved client object keys; every other object-valued key is a year record.
const (
	keyClientID   = "client_id"
	keyClientName = "client_name"
)

// document is the top-level shape of a dataset file.
type document struct {
	Clients *[]Client `json:"clients"`
}

// yearRecordJSON distinguishes absent fields from zero values so that
// non-record attributes on a client object are skipped.
type yearRecordJSON struct {
	AccountBalance *float64       `json:"account_balance"`
	Transactions   *[]Transaction `json:"transactions"`
}

// UnmarshalJSON decodes a client object, keeping year keys in document order.
func (c *Client) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("client must be a JSON object, got %v", tok)
	}

	*c = Client{Records: make(map[string]YearRecord)}

	for dec.More() {
		keyTok, keyErr := dec.Token()
		if keyErr != nil {
			return keyErr
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding client field %q: %w", key, err)
		}

		switch key {
		case keyClientID:
			id, idErr := decodeClientID(raw)
			if idErr != nil {
				return idErr
			}
			c.ID = id
		case keyClientName:
			if err = json.Unmarshal(raw, &c.Name); err != nil {
				return fmt.Errorf("decoding client_name: %w", err)
			}
		default:
			rec, isRecord, recErr := decodeYearRecord(raw)
			if recErr != nil {
				return fmt.Errorf("decoding year %q: %w", key, recErr)
			}
			if isRecord {
				c.AddYear(key, rec)
			}
		}
	}

	_, err = dec.Token()
	return err
}

// MarshalJSON encodes a client in the same shape UnmarshalJSON accepts.
func (c Client) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := writeField(keyClientID, c.ID); err != nil {
		return nil, err
	}
	if err := writeField(keyClientName, c.Name); err != nil {
		return nil, err
	}
	for _, year := range c.Years {
		if err := writeField(year, c.Records[year]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeClientID accepts a JSON string or number and returns its text form.
func decodeClientID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}

	return "", fmt.Errorf("client_id must be a string or number, got %s", strings.TrimSpace(string(raw)))
}

// decodeYearRecord decodes raw as a year record. Values that are not objects,
// or objects with neither account_balance nor transactions, are reported as
// not being a record.
func decodeYearRecord(raw json.RawMessage) (YearRecord, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return YearRecord{}, false, nil
	}

	var r yearRecordJSON
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return YearRecord{}, false, err
	}
	if r.AccountBalance == nil && r.Transactions == nil {
		return YearRecord{}, false, nil
	}

	var rec YearRecord
	if r.AccountBalance != nil {
		rec.AccountBalance = *r.AccountBalance
	}
	if r.Transactions != nil {
		rec.Transactions = *r.Transactions
	}
	return rec, true, nil
}

// decodeDocument parses data into clients.
func decodeDocument(data []byte) ([]Client, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("parsing dataset JSON at offset %d: %w", syntaxErr.Offset, err)
		}
		return nil, fmt.Errorf("parsing dataset JSON: %w", err)
	}
	if doc.Clients == nil {
		return nil, ErrMissingClients
	}
	return *doc.Clients, nil
}
