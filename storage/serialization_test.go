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

package storage

import (
	"testing"
	"time"

	"github.com/poiesic/marketscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendEntrySerialization(t *testing.T) {
	fetched := time.Date(2025, 3, 1, 12, 30, 0, 123000, time.UTC)
	entry := &core.TrendEntry{
		Key:          "NVDA",
		Observations: []string{"NVDA: 42", "NVDA: 57", "NVDA: 100"},
		FetchedAt:    fetched,
	}

	got, err := UnmarshalTrendEntry(MarshalTrendEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestTrendEntrySerialization_Empty(t *testing.T) {
	entry := &core.TrendEntry{Key: "TCS.NS", Observations: []string{}, FetchedAt: time.UnixMicro(0).UTC()}

	got, err := UnmarshalTrendEntry(MarshalTrendEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, "TCS.NS", got.Key)
	assert.Empty(t, got.Observations)
}

func TestDocumentSerialization(t *testing.T) {
	doc := &core.Document{
		Id:         core.IDFromContent("NVIDIA is a leader in AI computing and GPUs."),
		Text:       "NVIDIA is a leader in AI computing and GPUs.",
		Vector:     []float32{0.25, -0.5, 0.75, 1},
		InsertedAt: time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC),
	}

	got, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestUnmarshal_Truncated(t *testing.T) {
	data := MarshalDocument(&core.Document{Id: 7, Text: "abc", Vector: []float32{1, 2, 3}})
	_, err := UnmarshalDocument(data[:len(data)-10])
	assert.Error(t, err)

	trend := MarshalTrendEntry(&core.TrendEntry{Key: "K", Observations: []string{"K: 1", "K: 2"}})
	_, err = UnmarshalTrendEntry(trend[:4])
	assert.Error(t, err)

	_, err = UnmarshalTrendEntry(nil)
	assert.Error(t, err)
}
