package store

import (
	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
)

type Group struct {
	Key     string
	Records record.Collection
}

// Groups are ordered by the first appearance of their key.
type Groups []Group

func (g Groups) Get(key string) (record.Collection, bool) {
	for _, group := range g {
		if group.Key == key {
			return group.Records, true
		}
	}
	return nil, false
}

func (g Groups) Keys() []string {
	keys := make([]string, len(g))
	for i, group := range g {
		keys[i] = group.Key
	}
	return keys
}

func (g Groups) Map() map[string]record.Collection {
	m := make(map[string]record.Collection, len(g))
	for _, group := range g {
		m[group.Key] = group.Records
	}
	return m
}

func groupBy(col record.Collection, field string) Groups {
	var groups Groups
	index := make(map[string]int)
	for _, rec := range col {
		key := record.Stringify(rec.Value(field))
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}
