package option

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSome(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		o := Some(42)
		assert.True(t, o.IsSome())
		assert.False(t, o.IsNothing())
		assert.Equal(t, 42, o.Unwrap())
	})

	t.Run("zero value is valid", func(t *testing.T) {
		o := Some(0)
		assert.True(t, o.IsSome())
		assert.False(t, o.IsZero())
		assert.Equal(t, 0, o.Unwrap())
	})
}

func TestNothing(t *testing.T) {
	o := Nothing[int]()
	assert.True(t, o.IsNothing())
	assert.True(t, o.IsZero())

	var zero Option[string]
	assert.True(t, zero.IsNothing())
}

func TestGet(t *testing.T) {
	v, ok := Some("x").Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = Nothing[string]().Get()
	assert.False(t, ok)
}

func TestUnwrap(t *testing.T) {
	t.Run("some returns value", func(t *testing.T) {
		assert.Equal(t, 42, Some(42).Unwrap())
	})

	t.Run("none panics", func(t *testing.T) {
		assert.PanicsWithValue(t, "called Unwrap on a Nothing Option", func() {
			Nothing[int]().Unwrap()
		})
	})
}

func TestUnwrapOr(t *testing.T) {
	assert.Equal(t, 42, Some(42).UnwrapOr(0))
	assert.Equal(t, 99, Nothing[int]().UnwrapOr(99))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Some(42)", Some(42).String())
	assert.Equal(t, "Nothing", Nothing[int]().String())
}

type page struct {
	Limit Option[int] `json:"limit,omitzero" yaml:"limit,omitempty"`
}

func TestJSON(t *testing.T) {
	t.Run("some", func(t *testing.T) {
		data, err := json.Marshal(page{Limit: Some(10)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"limit":10}`, string(data))

		var p page
		require.NoError(t, json.Unmarshal(data, &p))
		assert.Equal(t, Some(10), p.Limit)
	})

	t.Run("nothing is omitted", func(t *testing.T) {
		data, err := json.Marshal(page{})
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(data))
	})

	t.Run("null decodes to nothing", func(t *testing.T) {
		p := page{Limit: Some(1)}
		require.NoError(t, json.Unmarshal([]byte(`{"limit":null}`), &p))
		assert.True(t, p.Limit.IsNothing())
	})

	t.Run("zero is kept", func(t *testing.T) {
		var p page
		require.NoError(t, json.Unmarshal([]byte(`{"limit":0}`), &p))
		assert.Equal(t, Some(0), p.Limit)
	})

	t.Run("type mismatch", func(t *testing.T) {
		var p page
		assert.Error(t, json.Unmarshal([]byte(`{"limit":"ten"}`), &p))
	})
}

func TestYAML(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		data, err := yaml.Marshal(page{Limit: Some(5)})
		require.NoError(t, err)
		assert.Equal(t, "limit: 5\n", string(data))

		var p page
		require.NoError(t, yaml.Unmarshal(data, &p))
		assert.Equal(t, Some(5), p.Limit)
	})

	t.Run("nothing is omitted", func(t *testing.T) {
		data, err := yaml.Marshal(page{})
		require.NoError(t, err)
		assert.Equal(t, "{}\n", string(data))
	})

	t.Run("null decodes to nothing", func(t *testing.T) {
		var p page
		require.NoError(t, yaml.Unmarshal([]byte("limit: null\n"), &p))
		assert.True(t, p.Limit.IsNothing())
	})
}
