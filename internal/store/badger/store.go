// Package badger provides the Badger-backed implementation of store.Store.
//
// Every multi-document write (note create/delete with its counter update,
// library cascade delete) runs inside a single Badger transaction, so the
// all-or-nothing guarantees come from the engine rather than from
// application-level bookkeeping.
package badger

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badgerdb.DB
	logger *slog.Logger
}

// Open opens (or creates) a Badger database at the given path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badgerdb.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Transaction-scoped helpers.

// getJSON reads a key within a transaction and unmarshals it into dest.
// Passes badgerdb.ErrKeyNotFound through for the caller to translate.
func getJSON(txn *badgerdb.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

// setJSON marshals value and writes it under key within a transaction.
func setJSON(txn *badgerdb.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return txn.Set(key, data)
}

// lookupID reads an index key that stores a single entity ID.
func lookupID(txn *badgerdb.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if err != nil {
		return "", err
	}

	var id string
	err = item.Value(func(val []byte) error {
		id = string(val)
		return nil
	})
	return id, err
}

// readIDList reads a JSON-encoded ID list index, returning an empty list
// when the key does not exist yet.
func readIDList(txn *badgerdb.Txn, key []byte) ([]string, error) {
	var ids []string
	err := getJSON(txn, key, &ids)
	if err == badgerdb.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}
