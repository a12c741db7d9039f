// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

// Package journal persists the interaction event log in BadgerDB so a
// restart does not lose learned taste. The interaction store itself stays
// in memory; on startup the journal is replayed and every event folds
// back through the preference model in its original order.
package journal

import (
	"encoding/binary"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// eventPrefix namespaces event keys; the 8-byte big-endian sequence
// suffix keeps lexicographic key order equal to append order.
var eventPrefix = []byte("ev:")

// seqKey is the badger sequence counter key.
var seqKey = []byte("seq:interactions")

// Journal is an append-only event log backed by BadgerDB.
type Journal struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger zerolog.Logger
}

// Open opens (or creates) a journal at path. An empty path opens an
// in-memory journal, used in tests.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(path string, logger zerolog.Logger) (*Journal, error) {
	logger = logger.With().Str("component", "journal").Logger()

	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{logger})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	seq, err := db.GetSequence(seqKey, 128)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open journal sequence: %w", err)
	}

	return &Journal{db: db, seq: seq, logger: logger}, nil
}

// Append persists one event.
func (j *Journal) Append(ev recommend.Event) error {
	n, err := j.seq.Next()
	if err != nil {
		return fmt.Errorf("journal sequence: %w", err)
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	key := make([]byte, len(eventPrefix)+8)
	copy(key, eventPrefix)
	binary.BigEndian.PutUint64(key[len(eventPrefix):], n)

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Replay invokes fn for every persisted event in append order. A decode
// failure on a single entry is logged and skipped; an error from fn
// aborts the replay.
func (j *Journal) Replay(fn func(recommend.Event) error) error {
	return j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = eventPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(eventPrefix); it.ValidForPrefix(eventPrefix); it.Next() {
			var ev recommend.Event
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &ev)
			})
			if err != nil {
				j.logger.Warn().Err(err).Msg("skipping undecodable journal entry")
				continue
			}
			if err := fn(ev); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the sequence and closes the database.
func (j *Journal) Close() error {
	if err := j.seq.Release(); err != nil {
		j.logger.Warn().Err(err).Msg("sequence release failed")
	}
	return j.db.Close()
}

// badgerLogger adapts zerolog to badger's logger interface.
type badgerLogger struct {
	logger zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.logger.Error().Msgf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.logger.Warn().Msgf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.logger.Debug().Msgf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.logger.Debug().Msgf(format, args...)
}
