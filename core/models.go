package core

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// WarningMarker prefixes placeholder entries that carry status text rather
// than evidence. Such entries are reported to callers but never fed to the
// generator as context.
const WarningMarker = "⚠️"

// NotAvailable is the value reported for quote fields the provider did not return.
const NotAvailable = "N/A"

// IsWarning reports whether s is a warning placeholder.
func IsWarning(s string) bool {
	return strings.HasPrefix(s, WarningMarker)
}

// ID is a unique identifier for stored documents.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Query is a user research request. Ticker and Country are optional.
type Query struct {
	Text    string
	Ticker  string
	Country string
}

// FilterResult is the outcome of the compliance check.
type FilterResult struct {
	Allowed bool
	// Text is the normalized query: a ticker token or the trimmed input.
	Text string
	// Reason is set when the query was blocked.
	Reason string
	// Token is true when Text was taken from a ticker-shaped token.
	Token bool
}

// Accepted returns an allowed FilterResult carrying text.
func Accepted(text string, token bool) FilterResult {
	return FilterResult{Allowed: true, Text: text, Token: token}
}

// Blocked returns a rejected FilterResult carrying reason.
func Blocked(reason string) FilterResult {
	return FilterResult{Reason: reason}
}

// TickerRecord pairs a listed symbol with its two-letter market country.
type TickerRecord struct {
	Symbol  string
	Country string
}

// LookupStatus classifies the outcome of a live symbol lookup.
type LookupStatus int

const (
	// LookupNotFound means the provider answered but knows no such symbol.
	LookupNotFound LookupStatus = iota
	// LookupFound means the symbol exists.
	LookupFound
	// LookupTransientError means the provider could not be reached or failed.
	LookupTransientError
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupTransientError:
		return "transient_error"
	default:
		return "not_found"
	}
}

// LookupResult is the explicit result of a symbol lookup.
type LookupResult struct {
	Status LookupStatus
	Record TickerRecord
	// Name is the provider's long company name, when known.
	Name string
	Err  error
}

// Found builds a successful LookupResult.
func Found(record TickerRecord, name string) LookupResult {
	return LookupResult{Status: LookupFound, Record: record, Name: name}
}

// NotFound builds a negative LookupResult.
func NotFound() LookupResult {
	return LookupResult{Status: LookupNotFound}
}

// TransientError builds a failed LookupResult wrapping err.
func TransientError(err error) LookupResult {
	return LookupResult{Status: LookupTransientError, Err: err}
}

// Document is a corpus entry held by a semantic store.
type Document struct {
	Id         ID
	Text       string
	Vector     []float32
	InsertedAt time.Time
}

// RankedDocument is a scored search hit. Position is the document's index in
// the corpus it came from.
type RankedDocument struct {
	Text     string
	Score    float64
	Position int
}

// TrendEntry is a cached search-interest series for one key.
type TrendEntry struct {
	Key          string
	Observations []string
	FetchedAt    time.Time
}

// QuoteField is a single named value of a quote snapshot.
type QuoteField struct {
	Key   string
	Value string
}

// Quote is an ordered market-data snapshot.
type Quote struct {
	Fields []QuoteField
}

// Get returns the value stored under key.
func (q Quote) Get(key string) (string, bool) {
	for _, f := range q.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// MarshalJSON encodes the snapshot as a JSON object whose keys keep field
// order.
func (q Quote) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range q.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping key order.
func (q *Quote) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("quote: expected object, got %v", tok)
	}

	var fields []QuoteField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("quote: field %q: %w", key, err)
		}
		fields = append(fields, QuoteField{Key: key, Value: value})
	}
	q.Fields = fields
	return nil
}

// QuoteError builds the single-field snapshot reported when a quote cannot
// be produced.
func QuoteError(reason string) Quote {
	return Quote{Fields: []QuoteField{{Key: "error", Value: reason}}}
}

// EvidenceContext holds everything gathered for one query.
type EvidenceContext struct {
	Query     Query
	Filtered  string
	Ticker    string
	Country   string
	Documents []string
	News      []string
	Trends    []string
	Quote     Quote
	// Diagnostics records degraded stages. It never feeds the context.
	Diagnostics []Diagnostic
	// Text is the assembled context handed to the generator.
	Text string
}

// Diagnostic describes a stage that failed or degraded without aborting the
// pipeline.
type Diagnostic struct {
	Stage  string `json:"stage"`
	Detail string `json:"detail"`
}

// Answer is the response payload for a research request.
type Answer struct {
	RequestID     string       `json:"request_id,omitempty"`
	OriginalQuery string       `json:"original_query"`
	FilteredQuery string       `json:"filtered_query,omitempty"`
	Ticker        string       `json:"effective_ticker,omitempty"`
	Country       string       `json:"inferred_country,omitempty"`
	Documents     []string     `json:"retrieved_documents"`
	News          []string     `json:"live_news"`
	Trends        []string     `json:"google_trends"`
	Quote         Quote        `json:"yahoo_finance_data"`
	Response      string       `json:"ai_generated_response,omitempty"`
	Error         string       `json:"error,omitempty"`
	Diagnostics   []Diagnostic `json:"diagnostics,omitempty"`
}

// DocumentMatch is a stored document with its similarity to a query vector.
type DocumentMatch struct {
	Document *Document
	Score    float32
}
