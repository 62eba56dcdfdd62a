package store

import (
	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
)

type MutationKind string

const (
	MutationInserted MutationKind = "inserted"
	MutationUpdated  MutationKind = "updated"
	MutationDeleted  MutationKind = "deleted"
)

// Mutation carries the records affected by one operation: the inserted
// records, the updated records as they are after the update, or the
// deleted records.
type Mutation struct {
	Kind    MutationKind
	Records record.Collection
}

type Saved struct {
	Path  string
	Count int
}
