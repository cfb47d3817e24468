package inbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/marchant/folium/internal/bookservice"
	"github.com/marchant/folium/internal/store"
)

func testService(t *testing.T) *bookservice.Service {
	t.Helper()
	dbFile, err := os.CreateTemp("", "folium-inbox-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return bookservice.NewService(db, nil)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDrain_ImportsAndArchives(t *testing.T) {
	svc := testService(t)
	in := tempInbox(t)
	drop(t, in, "first_novel.txt", "## Opening\nIt begins.\n\n## Closing\nIt ends.")

	var events []string
	Drain(context.Background(), svc, in, discardLogger(), func(kind, detail string) {
		events = append(events, kind+":"+detail)
	})

	books, err := svc.ListBooks(context.Background())
	if err != nil || len(books) != 1 {
		t.Fatalf("books = %+v, %v", books, err)
	}
	if books[0].Title != "first novel" {
		t.Errorf("title = %q", books[0].Title)
	}

	names, _ := in.Scan()
	if len(names) != 0 {
		t.Errorf("inbox not drained: %v", names)
	}
	if len(events) != 1 || events[0] != "imported:first_novel.txt" {
		t.Errorf("events = %v", events)
	}
}

func TestDrain_SkipsDuplicateContent(t *testing.T) {
	svc := testService(t)
	in := tempInbox(t)
	const text = "## Only\nSame bytes both times."

	drop(t, in, "one.txt", text)
	Drain(context.Background(), svc, in, discardLogger(), nil)

	drop(t, in, "two.txt", text)
	var kinds []string
	Drain(context.Background(), svc, in, discardLogger(), func(kind, _ string) {
		kinds = append(kinds, kind)
	})

	if len(kinds) != 1 || kinds[0] != "skipped" {
		t.Errorf("kinds = %v", kinds)
	}
	books, _ := svc.ListBooks(context.Background())
	if len(books) != 1 {
		t.Errorf("duplicate drop created a second book: %+v", books)
	}
	if names, _ := in.Scan(); len(names) != 0 {
		t.Errorf("duplicate not archived: %v", names)
	}
}

func TestDrain_LeavesEmptyFiles(t *testing.T) {
	svc := testService(t)
	in := tempInbox(t)
	drop(t, in, "partial.txt", "   \n")

	Drain(context.Background(), svc, in, discardLogger(), nil)

	names, _ := in.Scan()
	if len(names) != 1 {
		t.Errorf("empty file should stay pending, scan = %v", names)
	}
}
