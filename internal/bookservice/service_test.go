package bookservice

import (
	"context"
	"strings"
	"testing"

	"github.com/marchant/folium/internal/apperr"
	"github.com/marchant/folium/internal/models"
	"github.com/marchant/folium/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.TestStore(t), nil)
}

const sampleManuscript = "## Intro\nHello world.\n\n## Chapter Two\nMore text here."

func TestImportFullManuscript_NewBook(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	res, err := svc.ImportFullManuscript(ctx, "The Divine Gene", "A. Writer", "1", sampleManuscript)
	if err != nil {
		t.Fatalf("ImportFullManuscript: %v", err)
	}
	if res.VersionName != "1" || res.ChaptersImported != 2 {
		t.Fatalf("result = %+v", res)
	}

	books, err := svc.ListBooks(ctx)
	if err != nil || len(books) != 1 {
		t.Fatalf("books = %+v, %v", books, err)
	}
	if books[0].Title != "The Divine Gene" || books[0].Author != "A. Writer" {
		t.Errorf("book = %+v", books[0])
	}

	infos, err := svc.BookVersions(ctx, books[0].ID)
	if err != nil || len(infos) != 1 {
		t.Fatalf("versions = %+v, %v", infos, err)
	}
	if infos[0].ChapterCount != 2 || infos[0].FirstSlug != "intro" {
		t.Errorf("version info = %+v", infos[0])
	}

	toc, err := svc.TableOfContents(ctx, books[0].ID, infos[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(toc) != 2 || toc[0].Slug != "intro" || toc[1].Slug != "chapter-two" {
		t.Errorf("toc = %+v", toc)
	}
	if toc[0].OrderIndex != 1 || toc[1].OrderIndex != 2 {
		t.Errorf("order = %d, %d", toc[0].OrderIndex, toc[1].OrderIndex)
	}
	if toc[0].Content != "" {
		t.Error("toc entries should omit content")
	}
}

func TestImportFullManuscript_VersionCollisionMintsNewName(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	first, err := svc.ImportFullManuscript(ctx, "Book", "", "1", sampleManuscript)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.ImportFullManuscript(ctx, "Book", "", "1", "## Other\nDifferent text.")
	if err != nil {
		t.Fatal(err)
	}
	if first.VersionName != "1" || second.VersionName != "2" {
		t.Errorf("version names = %q, %q", first.VersionName, second.VersionName)
	}

	books, _ := svc.ListBooks(ctx)
	infos, _ := svc.BookVersions(ctx, books[0].ID)
	if len(infos) != 2 {
		t.Fatalf("expected two independent versions, got %+v", infos)
	}
	if infos[0].ID == infos[1].ID {
		t.Error("colliding import reused the existing version")
	}
}

func TestImportFullManuscript_Validation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.ImportFullManuscript(ctx, "  ", "", "1", sampleManuscript); !apperr.IsValidation(err) {
		t.Errorf("blank title: err = %v", err)
	}
	if _, err := svc.ImportFullManuscript(ctx, "Book", "", "1", "   \n  "); !apperr.IsValidation(err) {
		t.Errorf("empty manuscript: err = %v", err)
	}
	if books, _ := svc.ListBooks(ctx); len(books) != 0 {
		t.Errorf("validation failures must not touch the store: %+v", books)
	}
}

func TestImportChapter_SequentialSlugsAndOrder(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	first, err := svc.ImportChapter(ctx, "Solo", "Me", "The Meeting", "They met at noon.")
	if err != nil {
		t.Fatalf("ImportChapter: %v", err)
	}
	if first.Slug != "the-meeting" || first.OrderIndex != 1 {
		t.Errorf("first = %+v", first)
	}

	second, err := svc.ImportChapter(ctx, "Solo", "", "The Meeting", "They met again.")
	if err != nil {
		t.Fatal(err)
	}
	if second.Slug != "the-meeting-2" || second.OrderIndex != 2 {
		t.Errorf("second = %+v", second)
	}
}

func TestImportChapter_ReusesExistingBook(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.ImportChapter(ctx, "One Book", "", "A", "text a"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ImportChapter(ctx, "One Book", "", "B", "text b"); err != nil {
		t.Fatal(err)
	}
	books, err := svc.ListBooks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 {
		t.Errorf("expected one book, got %d", len(books))
	}
}

func TestReplaceBook_WipesOldChapters(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	meta := BookMeta{Title: "Replaceable", Author: "Author"}
	if _, err := svc.ReplaceBook(ctx, meta, "## Old\nOld content."); err != nil {
		t.Fatal(err)
	}
	n, err := svc.ReplaceBook(ctx, meta, "## New One\nFresh.\n\n## New Two\nAlso fresh.")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("chapters imported = %d, want 2", n)
	}

	books, _ := svc.ListBooks(ctx)
	toc, err := svc.TableOfContents(ctx, books[0].ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(toc) != 2 || toc[0].Slug != "new-one" || toc[1].Slug != "new-two" {
		t.Errorf("toc after replace = %+v", toc)
	}
}

func TestChapterWithSiblings(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	manuscriptText := "## A\nbody a\n\n## B\nbody b\n\n## C\nbody c"
	if _, err := svc.ImportFullManuscript(ctx, "Nav", "", "1", manuscriptText); err != nil {
		t.Fatal(err)
	}
	books, _ := svc.ListBooks(ctx)
	infos, _ := svc.BookVersions(ctx, books[0].ID)

	ch, prev, next, err := svc.ChapterWithSiblings(ctx, books[0].ID, infos[0].ID, "b")
	if err != nil {
		t.Fatalf("ChapterWithSiblings: %v", err)
	}
	if ch.Title != "B" || prev != "a" || next != "c" {
		t.Errorf("ch=%q prev=%q next=%q", ch.Title, prev, next)
	}

	_, prev, next, _ = svc.ChapterWithSiblings(ctx, books[0].ID, infos[0].ID, "a")
	if prev != "" || next != "b" {
		t.Errorf("first chapter prev=%q next=%q", prev, next)
	}

	if _, _, _, err := svc.ChapterWithSiblings(ctx, books[0].ID, infos[0].ID, "zzz"); err == nil {
		t.Error("expected not found for unknown slug")
	}
}

func TestAlreadyImported(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	ok, err := svc.AlreadyImported(sampleManuscript)
	if err != nil || ok {
		t.Fatalf("fresh manuscript: ok=%v err=%v", ok, err)
	}
	if _, err := svc.ImportFullManuscript(ctx, "Dedup", "", "1", sampleManuscript); err != nil {
		t.Fatal(err)
	}
	ok, err = svc.AlreadyImported(sampleManuscript)
	if err != nil || !ok {
		t.Errorf("after import: ok=%v err=%v", ok, err)
	}
}

func TestAddComment(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.ImportChapter(ctx, "Commented", "", "C1", "Some chapter body."); err != nil {
		t.Fatal(err)
	}
	books, _ := svc.ListBooks(ctx)
	toc, _ := svc.TableOfContents(ctx, books[0].ID, "")

	c := &models.Comment{
		BookID:    books[0].ID,
		ChapterID: toc[0].ID,
		Content:   "Great start",
		Anchor:    []byte(`{"selectedText":"Some"}`),
	}
	if err := svc.AddComment(ctx, c); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	list, err := svc.Comments(ctx, books[0].ID, toc[0].ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("comments = %+v, %v", list, err)
	}
	if !strings.Contains(string(list[0].Anchor), "selectedText") {
		t.Errorf("anchor = %s", list[0].Anchor)
	}

	if err := svc.AddComment(ctx, &models.Comment{BookID: books[0].ID, ChapterID: toc[0].ID}); !apperr.IsValidation(err) {
		t.Errorf("blank content: err = %v", err)
	}
}

func TestEventsPublished(t *testing.T) {
	st := testutil.TestStore(t)
	var kinds []string
	svc := NewService(st, func(kind, detail string) {
		kinds = append(kinds, kind)
	})

	if _, err := svc.ImportFullManuscript(context.Background(), "Evented", "", "1", sampleManuscript); err != nil {
		t.Fatal(err)
	}
	var sawBook, sawVersion, sawChapters bool
	for _, k := range kinds {
		switch k {
		case EventBookCreated:
			sawBook = true
		case EventVersionCreated:
			sawVersion = true
		case EventChaptersImported:
			sawChapters = true
		}
	}
	if !sawBook || !sawVersion || !sawChapters {
		t.Errorf("events = %v", kinds)
	}
}
