// Package record implements the open, ordered record model the store
// operates on, and the dynamic value semantics shared by filters and sorts.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Record is an ordered mapping from field name to a dynamically typed value.
// Keys keep their insertion order; setting an existing key keeps its position.
type Record struct {
	keys   []string
	values map[string]any
}

// New builds a record from alternating keys and values:
//
//	record.New("id", 1, "name", "Alice")
func New(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("record.New: odd number of arguments")
	}
	r := &Record{values: make(map[string]any, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("record.New: key %v is %T, not string", kv[i], kv[i]))
		}
		r.Set(k, kv[i+1])
	}
	return r
}

// FromMap builds a record from a plain map. Keys are sorted since map order is undefined.
func FromMap(m map[string]any) *Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r := &Record{keys: keys, values: make(map[string]any, len(m))}
	for k, v := range m {
		r.values[k] = v
	}
	return r
}

func (r *Record) init() {
	if r.values == nil {
		r.values = make(map[string]any)
	}
}

// Get returns the value of field k and whether it is present.
func (r *Record) Get(k string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[k]
	return v, ok
}

// Value returns the value of field k, or Undefined when absent.
func (r *Record) Value(k string) any {
	v, ok := r.Get(k)
	if !ok {
		return Undefined
	}
	return v
}

func (r *Record) Has(k string) bool {
	_, ok := r.Get(k)
	return ok
}

// Set assigns v to field k. Setting Undefined removes the field.
func (r *Record) Set(k string, v any) {
	if IsUndefined(v) {
		r.Delete(k)
		return
	}
	r.init()
	if _, ok := r.values[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.values[k] = v
}

func (r *Record) Delete(k string) {
	if _, ok := r.values[k]; !ok {
		return
	}
	delete(r.values, k)
	for i, key := range r.keys {
		if key == k {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			return
		}
	}
}

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone is a shallow copy: nested values are shared.
func (r *Record) Clone() *Record {
	c := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Map returns the fields as a plain map.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, r.Len())
	if r == nil {
		return m
	}
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// Merge returns a new record holding r's fields overwritten by patch's.
// Fields only present in patch are appended in patch order.
func (r *Record) Merge(patch *Record) *Record {
	merged := r.Clone()
	for _, k := range patch.Keys() {
		merged.Set(k, patch.values[k])
	}
	return merged
}

// Pick projects the record onto fields, in the given order. Absent fields
// are omitted.
func (r *Record) Pick(fields ...string) *Record {
	p := &Record{values: make(map[string]any, len(fields))}
	for _, f := range fields {
		v, ok := r.Get(f)
		if !ok || IsUndefined(v) {
			continue
		}
		p.Set(f, v)
	}
	return p
}

// Equal compares field sets and values strictly. Key order is ignored.
func (r *Record) Equal(other *Record) bool {
	if r.Len() != other.Len() {
		return false
	}
	for _, k := range r.Keys() {
		ov, ok := other.Get(k)
		if !ok || !Equal(r.values[k], ov) {
			return false
		}
	}
	return true
}

func (r *Record) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("Record(%v)", r.Map())
	}
	return string(data)
}

func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", k)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("record must be a JSON object, got %v", tok)
	}
	r.keys = nil
	r.values = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.Errorf("unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		r.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
