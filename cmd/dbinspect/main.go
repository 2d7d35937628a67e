// Package main provides a read-only inspection tool for the Badger database.
//
// It dumps every library with its live note count and flags libraries whose
// stored NoteCount has drifted from the number of note records referencing
// them. Drift should never happen since both are written in one transaction;
// a non-zero drift count points at a bug or manual database surgery.
//
// Usage:
//
//	DATA_PATH=~/Notedown/data go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/notedownapp/notedown-server/internal/domain"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Notedown/data")
	}
	dbPath := filepath.Join(dataPath, "badger")

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	libraries := map[string]*domain.Library{}
	liveNotes := map[string]int{}
	noteCount := 0

	err = db.View(func(txn *badger.Txn) error {
		if err := scanPrefix(txn, "library:", func(val []byte) error {
			var lib domain.Library
			if err := json.Unmarshal(val, &lib); err != nil {
				return err
			}
			libraries[lib.ID] = &lib
			return nil
		}); err != nil {
			return err
		}

		return scanPrefix(txn, "note:", func(val []byte) error {
			var note domain.Note
			if err := json.Unmarshal(val, &note); err != nil {
				return err
			}
			liveNotes[note.LibraryID]++
			noteCount++
			return nil
		})
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	drifted := 0
	orphaned := 0

	for _, lib := range libraries {
		live := liveNotes[lib.ID]
		fmt.Printf("Library: %s\n", lib.Name)
		fmt.Printf("  ID: %s\n", lib.ID)
		fmt.Printf("  Owner: %s\n", lib.OwnerID)
		fmt.Printf("  Slug: %s\n", lib.Slug)
		fmt.Printf("  Stored note count: %d\n", lib.NoteCount)
		fmt.Printf("  Live notes: %d\n", live)
		if lib.NoteCount != live {
			drifted++
			fmt.Printf("  *** COUNTER DRIFT: stored %d, live %d\n", lib.NoteCount, live)
		}
		fmt.Println()
	}

	// Notes referencing libraries that no longer exist.
	for libID, count := range liveNotes {
		if _, ok := libraries[libID]; !ok {
			orphaned += count
			fmt.Printf("*** ORPHANED: %d notes reference missing library %s\n", count, libID)
		}
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total libraries: %d\n", len(libraries))
	fmt.Printf("Total notes: %d\n", noteCount)
	fmt.Printf("Libraries with counter drift: %d\n", drifted)
	fmt.Printf("Orphaned notes: %d\n", orphaned)
}

// scanPrefix iterates every record under prefix, skipping index keys.
func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		item := it.Item()
		key := string(item.Key())

		// Entity keys are exactly prefix + ID; anything with a further
		// separator is an index entry.
		if strings.Contains(strings.TrimPrefix(key, prefix), ":") {
			continue
		}

		if err := item.Value(fn); err != nil {
			log.Printf("Error reading %s: %v", key, err)
		}
	}
	return nil
}
