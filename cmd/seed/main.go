// Package main provides a tool to seed the database with demo libraries and notes.
//
// It creates a handful of owners, gives each a few libraries, and fills the
// libraries with notes so pagination and sorting behavior can be exercised
// against realistic data.
//
// Usage:
//
//	DATA_PATH=~/Notedown/data go run ./cmd/seed
//	DATA_PATH=~/Notedown/data STORAGE_BACKEND=sqlite go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/samber/do/v2"

	"github.com/notedownapp/notedown-server/internal/di"
	"github.com/notedownapp/notedown-server/internal/errors"
	"github.com/notedownapp/notedown-server/internal/logger"
	"github.com/notedownapp/notedown-server/internal/service"
)

// seedOwners are the demo user IDs that receive libraries.
var seedOwners = []string{"user-alex", "user-jordan", "user-sam"}

// seedLibraries are library names assigned round-robin to owners.
var seedLibraries = []string{
	"Reading List",
	"Recipes",
	"Work Notes",
	"Travel Plans",
	"Project Ideas",
	"Daily Journal",
}

// seedNoteTopics feed the generated note names.
var seedNoteTopics = []string{
	"Groceries",
	"Meeting Agenda",
	"Book Review",
	"Weekend Trip",
	"Sketch",
	"Brain Dump",
	"Checklist",
	"Retro",
	"Standup",
	"Draft",
	"Summary",
	"Follow Up",
	"Outline",
	"Snippets",
}

func main() {
	injector := di.NewContainer()

	// The seeder writes its own progress to stdout; keep service logging out
	// of the way unless something fails.
	do.Override(injector, func(do.Injector) (*logger.Logger, error) {
		return logger.New(logger.Config{
			Writer: io.Discard,
			Format: "json",
			Level:  slog.LevelError,
		}), nil
	})

	libraries := do.MustInvoke[*service.LibraryService](injector)
	notes := do.MustInvoke[*service.NoteService](injector)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	totalLibraries := 0
	totalNotes := 0

	for i, name := range seedLibraries {
		owner := seedOwners[i%len(seedOwners)]

		lib, err := libraries.Create(ctx, owner, name)
		if errors.Is(err, errors.ErrConflict) {
			fmt.Printf("Library %q already exists for %s, skipping\n", name, owner)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create library %q: %v", name, err)
		}
		totalLibraries++

		// 8-20 notes per library so some libraries span multiple pages.
		numNotes := 8 + rng.Intn(13)
		created := 0
		for n := range numNotes {
			topic := seedNoteTopics[rng.Intn(len(seedNoteTopics))]
			noteName := fmt.Sprintf("%s %02d", topic, n+1)
			content := fmt.Sprintf("Seeded content for %s, written %s.",
				noteName, time.Now().Format("2006-01-02"))

			if _, err := notes.Create(ctx, owner, lib.Slug, noteName, content); err != nil {
				log.Printf("Failed to create note %q in %q: %v", noteName, name, err)
				continue
			}
			created++
		}
		totalNotes += created

		fmt.Printf("Created library %q for %s with %d notes\n", name, owner, created)
	}

	fmt.Printf("\nSeeding complete: %d libraries, %d notes\n", totalLibraries, totalNotes)

	if err := injector.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
