// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore is the document store the engine reads projects and
// assignments from and appends exported papers to. Documents are JSON
// objects addressed by collection and id. Two implementations exist:
// Memory for tests and embedding, and SQLite for the CLI host.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MaxInValues is the largest number of values a single QueryWhereIn may
// address. Callers with more keys must chunk.
const MaxInValues = 10

// DocumentID is the key field that makes QueryWhereIn match document ids
// instead of a data field.
const DocumentID = "__name__"

var (
	// ErrNotFound indicates the addressed document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrTooManyValues indicates an in-query over MaxInValues values.
	ErrTooManyValues = fmt.Errorf("in-query accepts at most %d values", MaxInValues)

	// ErrNotArray indicates an append to a field that holds a non-array value.
	ErrNotArray = errors.New("field is not an array")
)

// Op is a comparison operator for QueryWhere.
type Op string

const (
	OpEq Op = "=="
	OpNe Op = "!="
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
)

// Document is a stored object and its id.
type Document struct {
	ID   string
	Data map[string]any
}

// Decode unmarshals the document data into v.
func (d Document) Decode(v any) error {
	b, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding document %s: %w", d.ID, err)
	}
	return nil
}

// Store is the narrow store surface the engine depends on.
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// QueryWhere returns documents whose field compares to value under op,
	// in insertion order.
	QueryWhere(ctx context.Context, collection, field string, op Op, value any) ([]Document, error)

	// QueryWhereIn returns documents whose keyField (or id, for
	// DocumentID) equals one of values. len(values) must not exceed
	// MaxInValues.
	QueryWhereIn(ctx context.Context, collection, keyField string, values []string) ([]Document, error)

	// AppendToArray atomically appends value to the array at the dotted
	// field path, creating it when absent. Returns ErrNotFound when the
	// document does not exist.
	AppendToArray(ctx context.Context, collection, id, field string, value any) error
}

// Writer seeds and removes whole documents.
type Writer interface {
	Set(ctx context.Context, collection, id string, data any) error
	Delete(ctx context.Context, collection, id string) error
}

// ReadWriter combines Store and Writer.
type ReadWriter interface {
	Store
	Writer
}

// Compact returns v as plain JSON values with every null removed from
// objects and arrays, recursively. Stored documents never carry a null
// placeholder for an absent field.
func Compact(v any) (any, error) {
	plain, err := toPlain(v)
	if err != nil {
		return nil, err
	}
	return prune(plain), nil
}

func prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if child == nil {
				delete(t, k)
				continue
			}
			t[k] = prune(child)
		}
		return t
	case []any:
		out := make([]any, 0, len(t))
		for _, child := range t {
			if child != nil {
				out = append(out, prune(child))
			}
		}
		return out
	default:
		return v
	}
}

// toPlain converts v to its JSON value form (map[string]any, []any,
// string, float64, bool, nil).
func toPlain(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return out, nil
}

// toObject converts v to a JSON object.
func toObject(v any) (map[string]any, error) {
	plain, err := toPlain(v)
	if err != nil {
		return nil, err
	}
	obj, ok := plain.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document data must be an object, got %T", plain)
	}
	return obj, nil
}

// Lookup returns the value at a dotted field path.
func Lookup(data map[string]any, field string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(field, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// appendAt appends value to the array at the dotted path inside data,
// creating intermediate objects and the array as needed.
func appendAt(data map[string]any, field string, value any) error {
	parts := strings.Split(field, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		if !ok || next == nil {
			child := map[string]any{}
			cur[part] = child
			cur = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotArray, field)
		}
		cur = child
	}

	last := parts[len(parts)-1]
	switch existing := cur[last].(type) {
	case nil:
		cur[last] = []any{value}
	case []any:
		cur[last] = append(existing, value)
	default:
		return fmt.Errorf("%w: %s", ErrNotArray, field)
	}
	return nil
}

func checkInValues(values []string) error {
	if len(values) > MaxInValues {
		return fmt.Errorf("%w: got %d", ErrTooManyValues, len(values))
	}
	return nil
}

func validOp(op Op) bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}
