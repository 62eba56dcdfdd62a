package record

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Collection is an ordered sequence of records.
type Collection []*Record

// Clone copies the slice; records are shared.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// ParseCollection decodes a JSON array of objects. Blank input is an empty collection.
func ParseCollection(data []byte) (Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Collection{}, nil
	}
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "unable to parse collection")
	}
	if c == nil {
		c = Collection{}
	}
	for i, r := range c {
		if r == nil {
			return nil, errors.Errorf("unable to parse collection: element %d is null", i)
		}
	}
	return c, nil
}

// FromMaps converts plain maps to records.
func FromMaps(maps ...map[string]any) Collection {
	c := make(Collection, len(maps))
	for i, m := range maps {
		c[i] = FromMap(m)
	}
	return c
}

// FromValue converts a decoded JSON value (or an equivalent Go value) to a
// collection. It reports false when v is not a sequence of objects.
func FromValue(v any) (Collection, bool) {
	switch x := v.(type) {
	case Collection:
		return x, true
	case []*Record:
		return Collection(x), true
	case []map[string]any:
		return FromMaps(x...), true
	case []any:
		c := make(Collection, 0, len(x))
		for _, item := range x {
			switch it := item.(type) {
			case *Record:
				c = append(c, it)
			case map[string]any:
				c = append(c, FromMap(it))
			default:
				return nil, false
			}
		}
		return c, true
	}
	return nil, false
}
