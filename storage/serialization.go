package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/marketscout/core"
)

// Both record types are encoded field by field with mus-go primitives:
// strings with ord.String, counts with varint.PositiveInt, timestamps as
// Unix microseconds with varint.Int64 and vector components with raw.Float32.

// MarshalTrendEntry serializes a TrendEntry to bytes.
func MarshalTrendEntry(entry *core.TrendEntry) []byte {
	size := ord.String.Size(entry.Key) +
		varint.PositiveInt.Size(len(entry.Observations)) +
		varint.Int64.Size(entry.FetchedAt.UnixMicro())
	for _, o := range entry.Observations {
		size += ord.String.Size(o)
	}

	buf := make([]byte, size)
	n := ord.String.Marshal(entry.Key, buf)
	n += varint.PositiveInt.Marshal(len(entry.Observations), buf[n:])
	for _, o := range entry.Observations {
		n += ord.String.Marshal(o, buf[n:])
	}
	varint.Int64.Marshal(entry.FetchedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalTrendEntry deserializes a TrendEntry from bytes.
func UnmarshalTrendEntry(data []byte) (*core.TrendEntry, error) {
	key, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, wrapDecode("trend key", err)
	}

	count, m, err := varint.PositiveInt.Unmarshal(data[n:])
	if err != nil {
		return nil, wrapDecode("observation count", err)
	}
	n += m
	if count > len(data)-n {
		return nil, ErrTruncatedData
	}

	observations := make([]string, count)
	for i := range observations {
		observations[i], m, err = ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, wrapDecode("observation", err)
		}
		n += m
	}

	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, wrapDecode("fetched at", err)
	}

	return &core.TrendEntry{
		Key:          key,
		Observations: observations,
		FetchedAt:    time.UnixMicro(micros).UTC(),
	}, nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	size := varint.Uint64.Size(uint64(doc.Id)) +
		ord.String.Size(doc.Text) +
		varint.PositiveInt.Size(len(doc.Vector)) +
		varint.Int64.Size(doc.InsertedAt.UnixMicro())
	for _, v := range doc.Vector {
		size += raw.Float32.Size(v)
	}

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(doc.Id), buf)
	n += ord.String.Marshal(doc.Text, buf[n:])
	n += varint.PositiveInt.Marshal(len(doc.Vector), buf[n:])
	for _, v := range doc.Vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	varint.Int64.Marshal(doc.InsertedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, wrapDecode("document id", err)
	}

	text, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, wrapDecode("document text", err)
	}
	n += m

	dims, m, err := varint.PositiveInt.Unmarshal(data[n:])
	if err != nil {
		return nil, wrapDecode("vector length", err)
	}
	n += m
	if dims*4 > len(data)-n {
		return nil, ErrTruncatedData
	}

	var vector []float32
	if dims > 0 {
		vector = make([]float32, dims)
		for i := range vector {
			vector[i], m, err = raw.Float32.Unmarshal(data[n:])
			if err != nil {
				return nil, wrapDecode("vector", err)
			}
			n += m
		}
	}

	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, wrapDecode("inserted at", err)
	}

	return &core.Document{
		Id:         core.ID(id),
		Text:       text,
		Vector:     vector,
		InsertedAt: time.UnixMicro(micros).UTC(),
	}, nil
}

func wrapDecode(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSerializationFailed, field, err)
}
