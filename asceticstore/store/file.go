package store

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
)

// Open loads the JSON file at path and remembers the path for Save. A blank
// file is an empty collection. A file that holds valid JSON other than an
// array of objects is kept as a non-collection source.
func Open(path string, opts ...Option) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConstructionError{Path: path, Err: err}
	}
	src, err := decodeSource(data)
	if err != nil {
		return nil, &ConstructionError{Path: path, Err: err}
	}
	s := newStore(opts)
	s.path = path
	s.setSource(src)
	if s.isCollection {
		s.logger.Debug("store opened", "path", path, "records", len(s.records))
	} else {
		s.logger.Warn("store file does not hold a collection", "path", path)
	}
	return s, nil
}

func decodeSource(data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return record.Collection{}, nil
	}
	if data[0] == '[' {
		if col, err := record.ParseCollection(data); err == nil {
			return col, nil
		}
	}
	var src any
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, errors.Wrap(err, "malformed JSON")
	}
	return src, nil
}

// Save writes the store to the path it was opened from. A store created in
// memory has nowhere to write: for a collection this is a no-op, for a
// non-collection source it is ErrInvalidState.
func (s *Store) Save() error {
	if s.path == "" {
		if s.IsCollection() {
			s.logger.Debug("store has no path, nothing saved")
			return nil
		}
		return errors.Wrap(ErrInvalidState, "save")
	}
	return s.SaveTo(s.path)
}

// SaveTo writes the store to path as indented JSON.
func (s *Store) SaveTo(path string) error {
	s.mu.RLock()
	var payload any = s.source
	count := 0
	if s.isCollection {
		payload = s.records
		count = len(s.records)
	}
	data, err := json.MarshalIndent(payload, "", s.indent)
	s.mu.RUnlock()
	if err != nil {
		return errors.Wrapf(err, "unable to encode store for %s", path)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "unable to save store to %s", path)
	}

	s.logger.Debug("store saved", "path", path, "records", count)
	s.saved.Notify(Saved{Path: path, Count: count})
	return nil
}
