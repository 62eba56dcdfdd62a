package store

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/option"
	"github.com/krew-solutions/ascetic-store-go/asceticstore/query"
	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
	"github.com/krew-solutions/ascetic-store-go/asceticstore/signals"
)

// Store holds a collection of records, optionally backed by a JSON file.
// Reads run the query pipeline over the held collection; mutations build a
// new collection and swap it in whole.
type Store struct {
	mu           sync.RWMutex
	records      record.Collection
	source       any
	isCollection bool
	path         string

	indent   string
	logger   *slog.Logger
	idGen    IDGenerator
	pipeline *query.Pipeline

	inserted *signals.SignalImp[Mutation]
	updated  *signals.SignalImp[Mutation]
	deleted  *signals.SignalImp[Mutation]
	saved    *signals.SignalImp[Saved]
}

func newStore(opts []Option) *Store {
	s := &Store{
		indent:   DefaultIndent,
		logger:   slog.New(slog.DiscardHandler),
		pipeline: query.NewPipeline(),
		inserted: signals.NewSignal[Mutation](),
		updated:  signals.NewSignal[Mutation](),
		deleted:  signals.NewSignal[Mutation](),
		saved:    signals.NewSignal[Saved](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) setSource(src any) {
	if col, ok := record.FromValue(src); ok {
		if col == nil {
			col = record.Collection{}
		}
		s.records = col
		s.isCollection = true
		return
	}
	s.source = src
	s.isCollection = false
}

// New holds records in memory. Save without a path does nothing.
func New(records record.Collection, opts ...Option) *Store {
	s := newStore(opts)
	s.setSource(records)
	s.logger.Debug("store created", "records", len(s.records))
	return s
}

// NewFromSource holds an already decoded value. A sequence of objects
// becomes the collection; anything else is kept as a non-collection source
// that can be saved but not queried.
func NewFromSource(src any, opts ...Option) *Store {
	s := newStore(opts)
	s.setSource(src)
	if !s.isCollection {
		s.logger.Warn("store source is not a collection", "type", record.KindOf(src).String())
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

// IsCollection is false when the store was built over a non-collection source.
func (s *Store) IsCollection() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isCollection
}

// Records returns a shallow copy of the held collection, nil for a
// non-collection source.
func (s *Store) Records() record.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isCollection {
		return nil
	}
	return s.records.Clone()
}

func (s *Store) Query(q query.Query) (record.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isCollection {
		return nil, errors.Wrap(ErrInvalidSource, "query")
	}
	return s.pipeline.Run(s.records, q)
}

// GetByID returns the first record whose id field strictly equals id.
func (s *Store) GetByID(id any) option.Option[*record.Record] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if record.Equal(rec.Value("id"), id) {
			return option.Some(rec)
		}
	}
	return option.Nothing[*record.Record]()
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// CountQuery counts the records matching q.Filter. Sort, limit and select
// do not affect the count.
func (s *Store) CountQuery(q query.Query) (int, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isCollection {
		return 0, errors.Wrap(ErrInvalidSource, "count")
	}
	matched, err := s.pipeline.Filter(s.records, q.Filter)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// GroupBy groups records by the text form of field. Records without the
// field fall into the "undefined" group.
func (s *Store) GroupBy(field string) Groups {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return groupBy(s.records, field)
}

// Insert appends records in argument order.
func (s *Store) Insert(recs ...*record.Record) error {
	s.mu.Lock()
	if !s.isCollection {
		s.mu.Unlock()
		return errors.Wrap(ErrInvalidSource, "insert")
	}
	added := make(record.Collection, 0, len(recs))
	for i, rec := range recs {
		if rec == nil {
			s.mu.Unlock()
			return errors.Errorf("insert: record %d is nil", i)
		}
		if s.idGen != nil && !rec.Has("id") {
			rec = rec.Clone()
			rec.Set("id", s.idGen())
		}
		added = append(added, rec)
	}
	s.warnDuplicateIDs(added)
	next := make(record.Collection, 0, len(s.records)+len(added))
	next = append(next, s.records...)
	next = append(next, added...)
	s.records = next
	s.mu.Unlock()

	s.logger.Debug("records inserted", "count", len(added))
	s.inserted.Notify(Mutation{Kind: MutationInserted, Records: added})
	return nil
}

func (s *Store) warnDuplicateIDs(added record.Collection) {
	seen := make(map[string]struct{}, len(s.records)+len(added))
	key := func(rec *record.Record) (string, bool) {
		id := rec.Value("id")
		if record.IsUndefined(id) {
			return "", false
		}
		return record.KindOf(id).String() + ":" + record.Stringify(record.Normalize(id)), true
	}
	for _, rec := range s.records {
		if k, ok := key(rec); ok {
			seen[k] = struct{}{}
		}
	}
	for _, rec := range added {
		k, ok := key(rec)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			s.logger.Warn("inserted record repeats an existing id", "id", rec.Value("id"))
		}
		seen[k] = struct{}{}
	}
}

// Update replaces every record matching f with the record merged with
// patch and returns how many were replaced. An empty filter matches no
// record.
func (s *Store) Update(f query.Filter, patch *record.Record) (int, error) {
	op, err := query.Compile(f)
	if err != nil {
		return 0, err
	}
	if patch == nil {
		patch = record.New()
	}
	evaluator := s.pipeline.Evaluator()

	s.mu.Lock()
	if !s.isCollection {
		s.mu.Unlock()
		return 0, errors.Wrap(ErrInvalidSource, "update")
	}
	next := make(record.Collection, len(s.records))
	var changed record.Collection
	for i, rec := range s.records {
		if evaluator.Matches(op, rec) {
			rec = rec.Merge(patch)
			changed = append(changed, rec)
		}
		next[i] = rec
	}
	s.records = next
	s.mu.Unlock()

	s.logger.Debug("records updated", "count", len(changed))
	if len(changed) > 0 {
		s.updated.Notify(Mutation{Kind: MutationUpdated, Records: changed})
	}
	return len(changed), nil
}

// Delete removes every record matching f and returns how many were
// removed. An empty filter matches no record.
func (s *Store) Delete(f query.Filter) (int, error) {
	op, err := query.Compile(f)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	if !s.isCollection {
		s.mu.Unlock()
		return 0, errors.Wrap(ErrInvalidSource, "delete")
	}
	kept := s.pipeline.Select(s.records, op, false)
	removed := s.pipeline.Select(s.records, op, true)
	s.records = kept
	s.mu.Unlock()

	s.logger.Debug("records deleted", "count", len(removed))
	if len(removed) > 0 {
		s.deleted.Notify(Mutation{Kind: MutationDeleted, Records: removed})
	}
	return len(removed), nil
}

func (s *Store) OnInserted() signals.Signal[Mutation] {
	return s.inserted
}

func (s *Store) OnUpdated() signals.Signal[Mutation] {
	return s.updated
}

func (s *Store) OnDeleted() signals.Signal[Mutation] {
	return s.deleted
}

// OnChanged notifies about every insert, update and delete.
func (s *Store) OnChanged() signals.Signal[Mutation] {
	return signals.NewCompositeSignal[Mutation](s.inserted, s.updated, s.deleted)
}

func (s *Store) OnSaved() signals.Signal[Saved] {
	return s.saved
}
