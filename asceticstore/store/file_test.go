package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/query"
	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpen(t *testing.T) {
	t.Run("array of objects", func(t *testing.T) {
		path := writeFile(t, `[{"id": 1, "name": "Alice"}, {"id": 2, "name": "Bob"}]`)
		s, err := Open(path)
		require.NoError(t, err)
		assert.True(t, s.IsCollection())
		assert.Equal(t, path, s.Path())
		assert.Equal(t, 2, s.Count())
		assert.Equal(t, "Bob", s.GetByID(2).Unwrap().Value("name"))
	})
	t.Run("empty file", func(t *testing.T) {
		s, err := Open(writeFile(t, ""))
		require.NoError(t, err)
		assert.True(t, s.IsCollection())
		assert.Zero(t, s.Count())
	})
	t.Run("whitespace only", func(t *testing.T) {
		s, err := Open(writeFile(t, " \n\t "))
		require.NoError(t, err)
		assert.Zero(t, s.Count())
	})
	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, `[{"id": 1,`)
		_, err := Open(path)
		require.Error(t, err)
		var constructionErr *ConstructionError
		require.ErrorAs(t, err, &constructionErr)
		assert.Equal(t, path, constructionErr.Path)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "absent.json"))
		var constructionErr *ConstructionError
		require.ErrorAs(t, err, &constructionErr)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("object is a non-collection source", func(t *testing.T) {
		s, err := Open(writeFile(t, `{"users": []}`))
		require.NoError(t, err)
		assert.False(t, s.IsCollection())
		assert.ErrorIs(t, s.Insert(record.New("id", 1)), ErrInvalidSource)
	})
	t.Run("array of scalars is a non-collection source", func(t *testing.T) {
		s, err := Open(writeFile(t, `[1, 2, 3]`))
		require.NoError(t, err)
		assert.False(t, s.IsCollection())
	})
	t.Run("key order is kept", func(t *testing.T) {
		s, err := Open(writeFile(t, `[{"z": 1, "a": 2, "m": 3}]`))
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "a", "m"}, s.Records()[0].Keys())
	})
}

func TestSave(t *testing.T) {
	t.Run("insert then save persists to the original path", func(t *testing.T) {
		path := writeFile(t, `[{"id": 1, "name": "Alice"}]`)
		s, err := Open(path)
		require.NoError(t, err)

		require.NoError(t, s.Insert(record.New("id", 2, "name", "Bob")))
		require.NoError(t, s.Save())

		reopened, err := Open(path)
		require.NoError(t, err)
		assert.Equal(t, 2, reopened.Count())
		assert.Equal(t, "Bob", reopened.GetByID(2).Unwrap().Value("name"))
	})
	t.Run("pretty printed with trailing newline", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		s := New(record.Collection{record.New("id", 1, "name", "Alice")})
		require.NoError(t, s.SaveTo(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[\n  {\n    \"id\": 1,\n    \"name\": \"Alice\"\n  }\n]\n", string(data))
	})
	t.Run("custom indent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		s := New(record.Collection{record.New("id", 1)}, WithIndent("\t"))
		require.NoError(t, s.SaveTo(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[\n\t{\n\t\t\"id\": 1\n\t}\n]\n", string(data))
	})
	t.Run("empty collection", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		require.NoError(t, New(nil).SaveTo(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))
	})
	t.Run("in memory store without path is a no-op", func(t *testing.T) {
		s := New(record.Collection{record.New("id", 1)})
		assert.NoError(t, s.Save())
	})
	t.Run("non-collection source is written as is", func(t *testing.T) {
		src := writeFile(t, `{"users": [1, 2]}`)
		s, err := Open(src)
		require.NoError(t, err)
		require.NoError(t, s.Save())

		data, err := os.ReadFile(src)
		require.NoError(t, err)
		assert.JSONEq(t, `{"users": [1, 2]}`, string(data))
	})
	t.Run("unwritable path", func(t *testing.T) {
		s := New(nil)
		err := s.SaveTo(filepath.Join(t.TempDir(), "missing", "out.json"))
		assert.Error(t, err)
	})
	t.Run("saved event", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		s := New(record.Collection{record.New("id", 1)})
		var got Saved
		s.OnSaved().Attach(func(e Saved) { got = e })
		require.NoError(t, s.SaveTo(path))
		assert.Equal(t, Saved{Path: path, Count: 1}, got)
	})
	t.Run("round trip keeps data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		s := New(randomCollection(30))
		require.NoError(t, s.SaveTo(path))

		reopened, err := Open(path)
		require.NoError(t, err)
		original := s.Records()
		loaded := reopened.Records()
		require.Len(t, loaded, len(original))
		for i := range original {
			assert.True(t, original[i].Equal(loaded[i]))
			assert.Equal(t, original[i].Keys(), loaded[i].Keys())
		}

		result, err := reopened.Query(query.Query{Filter: query.Filter{"status": "active"}})
		require.NoError(t, err)
		expected, err := s.Query(query.Query{Filter: query.Filter{"status": "active"}})
		require.NoError(t, err)
		assert.Equal(t, ids(expected), normalizeIDs(ids(result)))
	})
}

func normalizeIDs(in []any) []any {
	out := make([]any, len(in))
	for i, id := range in {
		if f, ok := id.(float64); ok {
			out[i] = int(f)
			continue
		}
		out[i] = id
	}
	return out
}
