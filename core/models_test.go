// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	assert.Equal(t, IDFromContent("NVIDIA makes GPUs."), IDFromContent("NVIDIA makes GPUs."))
	assert.NotEqual(t, IDFromContent("content1"), IDFromContent("content2"))
}

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning(WarningMarker+" Not enough news."))
	assert.False(t, IsWarning("NVIDIA beats estimates"))
	assert.False(t, IsWarning(""))
}

func TestQuote(t *testing.T) {
	q := Quote{Fields: []QuoteField{{Key: "symbol", Value: "NVDA"}, {Key: "sector", Value: NotAvailable}}}

	v, ok := q.Get("symbol")
	assert.True(t, ok)
	assert.Equal(t, "NVDA", v)

	_, ok = q.Get("price")
	assert.False(t, ok)

	e := QuoteError("boom")
	assert.Equal(t, []QuoteField{{Key: "error", Value: "boom"}}, e.Fields)
}

func TestQuote_JSONKeepsFieldOrder(t *testing.T) {
	q := Quote{Fields: []QuoteField{
		{Key: "symbol", Value: "NVDA"},
		{Key: "name", Value: "NVIDIA \"Corp\""},
		{Key: "sector", Value: NotAvailable},
		{Key: "52_week_high", Value: "153.13"},
	}}

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, `{"symbol":"NVDA","name":"NVIDIA \"Corp\"","sector":"N/A","52_week_high":"153.13"}`, string(raw))

	var back Quote
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, q, back)

	raw, err = json.Marshal(Quote{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))

	assert.Error(t, json.Unmarshal([]byte(`["symbol"]`), &back))
}

func TestAnswer_QuoteSerializedInOrder(t *testing.T) {
	ans := Answer{Quote: Quote{Fields: []QuoteField{{Key: "symbol", Value: "TM"}, {Key: "name", Value: "Toyota"}}}}
	raw, err := json.Marshal(ans)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"yahoo_finance_data":{"symbol":"TM","name":"Toyota"}`)
}

func TestLookupResults(t *testing.T) {
	f := Found(TickerRecord{Symbol: "META", Country: "US"}, "Meta Platforms, Inc.")
	assert.Equal(t, LookupFound, f.Status)
	assert.Equal(t, "found", f.Status.String())

	assert.Equal(t, LookupNotFound, NotFound().Status)

	te := TransientError(errors.New("timeout"))
	assert.Equal(t, LookupTransientError, te.Status)
	assert.EqualError(t, te.Err, "timeout")
}

func TestFilterResultConstructors(t *testing.T) {
	a := Accepted("NVDA", true)
	assert.True(t, a.Allowed)
	assert.True(t, a.Token)

	b := Blocked("empty input")
	assert.False(t, b.Allowed)
	assert.Equal(t, "empty input", b.Reason)
}
