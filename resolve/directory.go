package resolve

import (
	"strings"

	"github.com/poiesic/marketscout/core"
)

// Directory is a curated mapping of company name to ticker record.
// Keys are matched case-insensitively. A Directory is read-only after
// construction.
type Directory struct {
	entries map[string]core.TickerRecord
	names   []string
}

// Entry is one curated company.
type Entry struct {
	Name   string
	Record core.TickerRecord
}

// DefaultEntries lists well-known issuers across US, Indian, Japanese,
// Korean and UK exchanges.
var DefaultEntries = []Entry{
	{"nvidia", core.TickerRecord{Symbol: "NVDA", Country: "US"}},
	{"tesla", core.TickerRecord{Symbol: "TSLA", Country: "US"}},
	{"apple", core.TickerRecord{Symbol: "AAPL", Country: "US"}},
	{"microsoft", core.TickerRecord{Symbol: "MSFT", Country: "US"}},
	{"amazon", core.TickerRecord{Symbol: "AMZN", Country: "US"}},
	{"google", core.TickerRecord{Symbol: "GOOGL", Country: "US"}},
	{"alphabet", core.TickerRecord{Symbol: "GOOGL", Country: "US"}},
	{"tata consultancy services", core.TickerRecord{Symbol: "TCS.NS", Country: "IN"}},
	{"reliance industries", core.TickerRecord{Symbol: "RELIANCE.NS", Country: "IN"}},
	{"infosys", core.TickerRecord{Symbol: "INFY.NS", Country: "IN"}},
	{"hdfc bank", core.TickerRecord{Symbol: "HDFCBANK.NS", Country: "IN"}},
	{"toyota", core.TickerRecord{Symbol: "TM", Country: "JP"}},
	{"samsung", core.TickerRecord{Symbol: "005930.KQ", Country: "KR"}},
	{"vodafone", core.TickerRecord{Symbol: "VOD.L", Country: "UK"}},
}

// ExtraCompanyNames are recognized by fuzzy matching but resolved through
// the live lookup rather than the curated map.
var ExtraCompanyNames = []string{
	"Meta", "Netflix", "Berkshire Hathaway", "IBM", "Sony", "Tesla Inc.", "Intel", "Oracle",
	"Bank of America", "JPMorgan Chase", "Goldman Sachs", "PayPal", "Uber", "Zoom Video",
}

// NewDirectory builds a directory from entries. Later duplicates win.
func NewDirectory(entries []Entry) *Directory {
	d := &Directory{entries: make(map[string]core.TickerRecord, len(entries))}
	for _, e := range entries {
		key := normalizeKey(e.Name)
		if key == "" {
			continue
		}
		if _, exists := d.entries[key]; !exists {
			d.names = append(d.names, e.Name)
		}
		d.entries[key] = e.Record
	}
	return d
}

// DefaultDirectory returns a directory over DefaultEntries.
func DefaultDirectory() *Directory {
	return NewDirectory(DefaultEntries)
}

// Lookup returns the curated record for name.
func (d *Directory) Lookup(name string) (core.TickerRecord, bool) {
	rec, ok := d.entries[normalizeKey(name)]
	return rec, ok
}

// Names returns the curated company names in insertion order.
func (d *Directory) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// KnownCompanies returns the curated names followed by ExtraCompanyNames,
// the list fuzzy matching runs against.
func (d *Directory) KnownCompanies() []string {
	return append(d.Names(), ExtraCompanyNames...)
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
