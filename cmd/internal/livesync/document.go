package livesync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

type Collection string

const (
	CollectionCompanies Collection = "companies"
	CollectionEmployees Collection = "employees"
	CollectionRecords   Collection = "records"
	CollectionRequests  Collection = "requests"
)

// Document is one stored entity as it travels over a live subscription.
type Document map[string]any

// EncodeDocument turns an entity into its wire document using its json tags.
// Numbers are kept as json.Number so snowflake IDs survive the round trip.
func EncodeDocument(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// EncodeDocuments encodes a slice of entities, failing on the first error.
func EncodeDocuments[T any](items []T) ([]Document, error) {
	docs := make([]Document, len(items))
	for i, item := range items {
		doc, err := EncodeDocument(item)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return docs, nil
}

// decodeDocument fills out from doc. Fields listed in timeFields are first
// coerced to RFC3339 so any timestamp representation decodes into time.Time.
func decodeDocument(doc Document, out any, timeFields ...string) error {
	normalized := make(Document, len(doc))
	for k, v := range doc {
		normalized[k] = v
	}

	for _, field := range timeFields {
		v, ok := normalized[field]
		if !ok || v == nil {
			continue
		}

		t, err := CoerceTime(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
		normalized[field] = t.Format(time.RFC3339Nano)
	}

	raw, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// CoerceTime accepts the shapes a timestamp can arrive in: time.Time, a
// pointer to it, unix milliseconds (any numeric kind, including json
// float64), numeric strings and RFC3339 strings.
func CoerceTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("nil time")
		}
		return *t, nil
	case int64:
		return time.UnixMilli(t), nil
	case int:
		return time.UnixMilli(int64(t)), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, fmt.Errorf("invalid numeric time %v", t)
		}
		return time.UnixMilli(int64(t)), nil
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms), nil
	case string:
		if ms, err := strconv.ParseInt(t, 10, 64); err == nil {
			return time.UnixMilli(ms), nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, err
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time type %T", v)
	}
}
