// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperlink/pkg/types"
)

// --- test helpers ---

func newSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(types.StoreConfig{Path: filepath.Join(t.TempDir(), "db", "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachStore runs fn against every implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, s ReadWriter)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLite(t)) })
}

func seedAssignments(t *testing.T, s ReadWriter) {
	t.Helper()
	ctx := context.Background()
	docs := []struct {
		id   string
		data map[string]any
	}{
		{"a1", map[string]any{"projectId": "p1", "studentUid": "u1", "score": 3}},
		{"a2", map[string]any{"projectId": "p2", "studentUid": "u2", "score": 7}},
		{"a3", map[string]any{"projectId": "p3", "studentUid": "u1", "score": 9}},
	}
	for _, d := range docs {
		require.NoError(t, s.Set(ctx, "assignedProjects", d.id, d.data))
	}
}

// --- Store behaviour ---

func TestGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "projects", "p1", types.Project{Title: "Graphs", Duration: "2 weeks"}))

		doc, err := s.Get(ctx, "projects", "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", doc.ID)
		assert.Equal(t, "Graphs", doc.Data["title"])

		var p types.Project
		require.NoError(t, doc.Decode(&p))
		assert.Equal(t, "2 weeks", p.Duration)
	})
}

func TestGetNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		_, err := s.Get(context.Background(), "projects", "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSetReplaces(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "projects", "p1", map[string]any{"title": "old"}))
		require.NoError(t, s.Set(ctx, "projects", "p1", map[string]any{"title": "new"}))

		doc, err := s.Get(ctx, "projects", "p1")
		require.NoError(t, err)
		assert.Equal(t, "new", doc.Data["title"])
	})
}

func TestSetRejectsNonObject(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		err := s.Set(context.Background(), "projects", "p1", []string{"a"})
		assert.Error(t, err)
	})
}

func TestDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "projects", "p1", map[string]any{"title": "x"}))
		require.NoError(t, s.Delete(ctx, "projects", "p1"))
		require.NoError(t, s.Delete(ctx, "projects", "p1"))

		_, err := s.Get(ctx, "projects", "p1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestQueryWhereEquality(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		seedAssignments(t, s)
		docs, err := s.QueryWhere(context.Background(), "assignedProjects", "studentUid", OpEq, "u1")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a1", docs[0].ID)
		assert.Equal(t, "a3", docs[1].ID)
	})
}

func TestQueryWhereOrdering(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		seedAssignments(t, s)
		ctx := context.Background()

		docs, err := s.QueryWhere(ctx, "assignedProjects", "score", OpGt, 5)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a2", docs[0].ID)

		docs, err = s.QueryWhere(ctx, "assignedProjects", "score", OpLe, 3)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "a1", docs[0].ID)

		docs, err = s.QueryWhere(ctx, "assignedProjects", "studentUid", OpNe, "u1")
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "a2", docs[0].ID)
	})
}

func TestQueryWhereNoMatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		seedAssignments(t, s)
		docs, err := s.QueryWhere(context.Background(), "assignedProjects", "studentUid", OpEq, "nobody")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestQueryWhereUnsupportedOp(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		_, err := s.QueryWhere(context.Background(), "assignedProjects", "score", Op("~"), 1)
		assert.Error(t, err)
	})
}

func TestQueryWhereInByDocumentID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		ctx := context.Background()
		for _, id := range []string{"p1", "p2", "p3"} {
			require.NoError(t, s.Set(ctx, "projects", id, map[string]any{"title": "T" + id}))
		}

		docs, err := s.QueryWhereIn(ctx, "projects", DocumentID, []string{"p3", "p1", "ghost"})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		ids := []string{docs[0].ID, docs[1].ID}
		assert.ElementsMatch(t, []string{"p1", "p3"}, ids)
	})
}

func TestQueryWhereInByField(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		seedAssignments(t, s)
		docs, err := s.QueryWhereIn(context.Background(), "assignedProjects", "projectId", []string{"p2", "p3"})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a2", docs[0].ID)
		assert.Equal(t, "a3", docs[1].ID)
	})
}

func TestQueryWhereInLimit(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		ctx := context.Background()
		values := make([]string, MaxInValues+1)
		for i := range values {
			values[i] = string(rune('a' + i))
		}

		_, err := s.QueryWhereIn(ctx, "projects", DocumentID, values)
		assert.ErrorIs(t, err, ErrTooManyValues)

		_, err = s.QueryWhereIn(ctx, "projects", DocumentID, values[:MaxInValues])
		assert.NoError(t, err)
	})
}

func TestQueryWhereInEmpty(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		docs, err := s.QueryWhereIn(context.Background(), "projects", DocumentID, nil)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestAppendToArray(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "projects", "p1", map[string]any{"title": "x"}))

		require.NoError(t, s.AppendToArray(ctx, "projects", "p1", "resources.papers", map[string]any{"id": "2401.00001"}))
		require.NoError(t, s.AppendToArray(ctx, "projects", "p1", "resources.papers", map[string]any{"id": "2401.00002"}))

		doc, err := s.Get(ctx, "projects", "p1")
		require.NoError(t, err)
		papers, ok := Lookup(doc.Data, "resources.papers")
		require.True(t, ok)
		require.Len(t, papers, 2)
		assert.Equal(t, "2401.00002", papers.([]any)[1].(map[string]any)["id"])
		assert.Equal(t, "x", doc.Data["title"])
	})
}

func TestAppendToArrayMissingDocument(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		err := s.AppendToArray(context.Background(), "projects", "ghost", "resources.papers", "v")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAppendToArrayNotArray(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ReadWriter) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "projects", "p1", map[string]any{"resources": "flat"}))
		err := s.AppendToArray(ctx, "projects", "p1", "resources.papers", "v")
		assert.ErrorIs(t, err, ErrNotArray)
	})
}

func TestMemoryIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, "projects", "p1", map[string]any{"title": "x"}))

	doc, err := s.Get(ctx, "projects", "p1")
	require.NoError(t, err)
	doc.Data["title"] = "mutated"

	doc, err = s.Get(ctx, "projects", "p1")
	require.NoError(t, err)
	assert.Equal(t, "x", doc.Data["title"])
}

func TestSQLiteCollections(t *testing.T) {
	s := newSQLite(t)
	seedAssignments(t, s)
	require.NoError(t, s.Set(context.Background(), "projects", "p1", map[string]any{"title": "x"}))

	counts, err := s.Collections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"assignedProjects": 3, "projects": 1}, counts)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := OpenSQLite(types.StoreConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "projects", "p1", map[string]any{"title": "kept"}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(types.StoreConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()
	doc, err := s.Get(ctx, "projects", "p1")
	require.NoError(t, err)
	assert.Equal(t, "kept", doc.Data["title"])
}

// --- Compact ---

func TestCompactRemovesNulls(t *testing.T) {
	in := map[string]any{
		"title": "x",
		"doi":   nil,
		"nested": map[string]any{
			"keep": 1,
			"drop": nil,
			"list": []any{"a", nil, map[string]any{"inner": nil, "v": true}},
		},
	}

	out, err := Compact(in)
	require.NoError(t, err)
	want := map[string]any{
		"title": "x",
		"nested": map[string]any{
			"keep": float64(1),
			"list": []any{"a", map[string]any{"v": true}},
		},
	}
	assert.Equal(t, want, out)
}

func TestCompactTypedPaper(t *testing.T) {
	p := types.Paper{ID: "2401.00001", Title: "T", Authors: []string{"A"}}
	out, err := Compact(p)
	require.NoError(t, err)

	obj := out.(map[string]any)
	assert.Equal(t, "2401.00001", obj["id"])
	for _, absent := range []string{"doi", "updatedDate", "comments", "addedAt"} {
		_, ok := obj[absent]
		assert.False(t, ok, "field %s should be absent", absent)
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{"a": map[string]any{"b": map[string]any{"c": "deep"}}, "s": "flat"}

	v, ok := Lookup(data, "a.b.c")
	assert.True(t, ok)
	assert.Equal(t, "deep", v)

	_, ok = Lookup(data, "a.x")
	assert.False(t, ok)
	_, ok = Lookup(data, "s.deeper")
	assert.False(t, ok)
}

func TestDecodeError(t *testing.T) {
	doc := Document{ID: "p1", Data: map[string]any{"title": 5}}
	var p types.Project
	err := doc.Decode(&p)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
