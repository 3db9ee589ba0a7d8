// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Memory is an in-process Store. Documents are kept as JSON values and
// copied on every read and write, so callers never alias stored data.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memCollection
}

type memCollection struct {
	order []string
	docs  map[string]map[string]any
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: map[string]*memCollection{}}
}

func (m *Memory) collection(name string) *memCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{docs: map[string]map[string]any{}}
		m.collections[name] = c
	}
	return c
}

// Set stores data (any JSON-encodable object) under collection/id,
// replacing an existing document.
func (m *Memory) Set(_ context.Context, collection, id string, data any) error {
	obj, err := toObject(data)
	if err != nil {
		return fmt.Errorf("setting %s/%s: %w", collection, id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = obj
	return nil
}

// Delete removes collection/id. Deleting a missing document is not an error.
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.collection(collection).docs[id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return copyDocument(id, data)
}

// QueryWhere implements Store.
func (m *Memory) QueryWhere(_ context.Context, collection, field string, op Op, value any) ([]Document, error) {
	if !validOp(op) {
		return nil, fmt.Errorf("unsupported operator %q", op)
	}
	want, err := toPlain(value)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	var out []Document
	for _, id := range c.order {
		got, ok := Lookup(c.docs[id], field)
		if !ok || !compare(got, op, want) {
			continue
		}
		doc, err := copyDocument(id, c.docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// QueryWhereIn implements Store.
func (m *Memory) QueryWhereIn(_ context.Context, collection, keyField string, values []string) ([]Document, error) {
	if err := checkInValues(values); err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	var out []Document
	for _, id := range c.order {
		key := id
		if keyField != DocumentID {
			v, ok := Lookup(c.docs[id], keyField)
			s, isString := v.(string)
			if !ok || !isString {
				continue
			}
			key = s
		}
		if !set[key] {
			continue
		}
		doc, err := copyDocument(id, c.docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// AppendToArray implements Store.
func (m *Memory) AppendToArray(_ context.Context, collection, id, field string, value any) error {
	plain, err := toPlain(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.collection(collection).docs[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err := appendAt(data, field, plain); err != nil {
		return fmt.Errorf("appending to %s/%s: %w", collection, id, err)
	}
	return nil
}

func copyDocument(id string, data map[string]any) (Document, error) {
	obj, err := toObject(data)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Data: obj}, nil
}

// compare applies op to two JSON values. Ordering operators apply to
// numbers and strings only.
func compare(got any, op Op, want any) bool {
	switch op {
	case OpEq:
		return reflect.DeepEqual(got, want)
	case OpNe:
		return !reflect.DeepEqual(got, want)
	}

	var c int
	switch g := got.(type) {
	case float64:
		w, ok := want.(float64)
		if !ok {
			return false
		}
		switch {
		case g < w:
			c = -1
		case g > w:
			c = 1
		}
	case string:
		w, ok := want.(string)
		if !ok {
			return false
		}
		switch {
		case g < w:
			c = -1
		case g > w:
			c = 1
		}
	default:
		return false
	}

	switch op {
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	}
	return false
}
