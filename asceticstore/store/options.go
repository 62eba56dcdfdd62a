package store

import (
	"log/slog"
)

const DefaultIndent = "  "

type Option func(*Store)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator makes Insert assign an id to records that have none.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		s.idGen = gen
	}
}

// WithIndent sets the indentation of saved JSON.
func WithIndent(indent string) Option {
	return func(s *Store) {
		s.indent = indent
	}
}
