package store

import (
	"errors"
	"os"
	"testing"

	"github.com/marchant/folium/internal/apperr"
	"github.com/marchant/folium/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "folium-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustBook(t *testing.T, db *DB, title string) *models.Book {
	t.Helper()
	b := &models.Book{Title: title, Author: "Author"}
	if err := db.InsertBook(b); err != nil {
		t.Fatalf("InsertBook: %v", err)
	}
	return b
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"books", "versions", "chapters", "comments", "imports"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestBookLookupAndInsert(t *testing.T) {
	db := testDB(t)

	if _, err := db.FindBookByTitle("Missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	b := mustBook(t, db, "The Divine Gene")
	if b.ID == "" {
		t.Fatal("expected server-assigned id")
	}

	got, err := db.FindBookByTitle("The Divine Gene")
	if err != nil {
		t.Fatalf("FindBookByTitle: %v", err)
	}
	if got.ID != b.ID || got.Author != "Author" {
		t.Errorf("got = %+v", got)
	}
}

func TestInsertBook_DuplicateTitleIsConstraint(t *testing.T) {
	db := testDB(t)
	mustBook(t, db, "Same Title")

	err := db.InsertBook(&models.Book{Title: "Same Title"})
	if err == nil {
		t.Fatal("expected duplicate title to fail")
	}
	if !IsConstraint(err) {
		t.Errorf("IsConstraint = false for %v", err)
	}
}

func TestUpdateBook_EmptyFieldsKept(t *testing.T) {
	db := testDB(t)
	b := mustBook(t, db, "Patch Me")

	if err := db.UpdateBook(b.ID, BookFields{Subtitle: "New Subtitle"}); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}
	got, err := db.GetBook(b.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Subtitle != "New Subtitle" {
		t.Errorf("subtitle = %q", got.Subtitle)
	}
	if got.Author != "Author" {
		t.Errorf("author overwritten: %q", got.Author)
	}
}

func TestVersions(t *testing.T) {
	db := testDB(t)
	b := mustBook(t, db, "Versioned")

	v := &models.Version{BookID: b.ID, Name: "1"}
	if err := db.InsertVersion(v); err != nil {
		t.Fatalf("InsertVersion: %v", err)
	}

	if err := db.InsertVersion(&models.Version{BookID: b.ID, Name: "1"}); !IsConstraint(err) {
		t.Errorf("duplicate (book, name) should be a constraint error, got %v", err)
	}

	names, err := db.VersionNames(b.ID)
	if err != nil {
		t.Fatalf("VersionNames: %v", err)
	}
	if _, ok := names["1"]; !ok || len(names) != 1 {
		t.Errorf("names = %v", names)
	}

	if _, err := db.FindVersion(b.ID, "2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for absent version, got %v", err)
	}
}

func TestChapters_ScopeIsolation(t *testing.T) {
	db := testDB(t)
	b := mustBook(t, db, "Scoped")
	v := &models.Version{BookID: b.ID, Name: "1"}
	if err := db.InsertVersion(v); err != nil {
		t.Fatal(err)
	}

	chs := []models.Chapter{
		{BookID: b.ID, VersionID: v.ID, Slug: "intro", Title: "Intro", Content: "a", OrderIndex: 1},
		{BookID: b.ID, VersionID: v.ID, Slug: "two", Title: "Two", Content: "b", OrderIndex: 2},
		{BookID: b.ID, VersionID: "", Slug: "intro", Title: "Unversioned Intro", Content: "c", OrderIndex: 1},
	}
	if err := db.InsertChapters(chs); err != nil {
		t.Fatalf("InsertChapters: %v", err)
	}

	slugs, err := db.ChapterSlugs(b.ID, v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(slugs) != 2 {
		t.Errorf("versioned slugs = %v", slugs)
	}
	slugs, _ = db.ChapterSlugs(b.ID, "")
	if len(slugs) != 1 {
		t.Errorf("unversioned slugs = %v", slugs)
	}

	max, err := db.MaxOrderIndex(b.ID, v.ID)
	if err != nil || max != 2 {
		t.Errorf("MaxOrderIndex = %d, %v", max, err)
	}
	max, _ = db.MaxOrderIndex(b.ID, "missing-scope")
	if max != 0 {
		t.Errorf("empty scope max = %d, want 0", max)
	}
}

func TestChapters_DuplicateSlugInScopeIsConstraint(t *testing.T) {
	db := testDB(t)
	b := mustBook(t, db, "Dup Slugs")

	first := []models.Chapter{{BookID: b.ID, Slug: "x", Title: "X", OrderIndex: 1}}
	if err := db.InsertChapters(first); err != nil {
		t.Fatal(err)
	}
	err := db.InsertChapters([]models.Chapter{{BookID: b.ID, Slug: "x", Title: "X again", OrderIndex: 2}})
	if !IsConstraint(err) {
		t.Errorf("expected constraint error, got %v", err)
	}
}

func TestGetChapterBySlugAndList(t *testing.T) {
	db := testDB(t)
	b := mustBook(t, db, "Readable")

	chs := []models.Chapter{
		{BookID: b.ID, Slug: "one", Title: "One", Content: "first body", OrderIndex: 1},
		{BookID: b.ID, Slug: "two", Title: "Two", Content: "second body", OrderIndex: 2},
	}
	if err := db.InsertChapters(chs); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetChapterBySlug(b.ID, "", "two")
	if err != nil {
		t.Fatalf("GetChapterBySlug: %v", err)
	}
	if got.Title != "Two" || got.OrderIndex != 2 {
		t.Errorf("chapter = %+v", got)
	}

	list, err := db.ListChapters(b.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Slug != "one" || list[1].Slug != "two" {
		t.Errorf("list = %+v", list)
	}
}

func TestDeleteBookChapters(t *testing.T) {
	db := testDB(t)
	b := mustBook(t, db, "Wiped")
	_ = db.InsertChapters([]models.Chapter{{BookID: b.ID, Slug: "gone", Title: "Gone", OrderIndex: 1}})

	if err := db.DeleteBookChapters(b.ID); err != nil {
		t.Fatalf("DeleteBookChapters: %v", err)
	}
	list, _ := db.ListChapters(b.ID, "")
	if len(list) != 0 {
		t.Errorf("chapters remain after wipe: %+v", list)
	}
}

func TestComments(t *testing.T) {
	db := testDB(t)
	b := mustBook(t, db, "Commented")
	_ = db.InsertChapters([]models.Chapter{{BookID: b.ID, Slug: "c1", Title: "C1", OrderIndex: 1}})
	ch, _ := db.GetChapterBySlug(b.ID, "", "c1")

	c := &models.Comment{
		BookID:    b.ID,
		ChapterID: ch.ID,
		Content:   "Lovely chapter",
		Anchor:    []byte(`{"selectedText":"Lovely","chapterSlug":"c1"}`),
	}
	if err := db.InsertComment(c); err != nil {
		t.Fatalf("InsertComment: %v", err)
	}

	list, err := db.ListComments(b.ID, ch.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Content != "Lovely chapter" {
		t.Fatalf("comments = %+v", list)
	}
	if string(list[0].Anchor) != `{"selectedText":"Lovely","chapterSlug":"c1"}` {
		t.Errorf("anchor round-trip = %s", list[0].Anchor)
	}
}

func TestImportsAudit(t *testing.T) {
	db := testDB(t)

	if _, err := db.FindImportByChecksum("deadbeef"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	rec := &models.ImportRecord{Source: "inbox/book.txt", Checksum: "deadbeef", Chapters: 3}
	if err := db.RecordImport(rec); err != nil {
		t.Fatalf("RecordImport: %v", err)
	}
	got, err := db.FindImportByChecksum("deadbeef")
	if err != nil {
		t.Fatalf("FindImportByChecksum: %v", err)
	}
	if got.Source != "inbox/book.txt" || got.Chapters != 3 {
		t.Errorf("record = %+v", got)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	b := mustBook(t, db, "Searchable")
	_ = db.InsertChapters([]models.Chapter{
		{BookID: b.ID, Slug: "s", Title: "Search Me", Content: "uniqueword appears here", OrderIndex: 1},
	})

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "s" {
		t.Errorf("search results = %+v, want 1 hit for s", results)
	}
}
