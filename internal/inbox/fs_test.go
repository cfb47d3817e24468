package inbox

import (
	"os"
	"path/filepath"
	"testing"
)

func tempInbox(t *testing.T) *Dir {
	t.Helper()
	dir := t.TempDir()
	in, err := NewDir(dir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	return in
}

func drop(t *testing.T, d *Dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(d.Root(), name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanAndRead(t *testing.T) {
	in := tempInbox(t)
	drop(t, in, "alpha.txt", "one")
	drop(t, in, "beta.md", "two")
	drop(t, in, "ignore.pdf", "nope")
	if err := os.Mkdir(filepath.Join(in.Root(), "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := in.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha.txt" || names[1] != "beta.md" {
		t.Fatalf("names = %v", names)
	}

	got, err := in.Read("alpha.txt")
	if err != nil || got != "one" {
		t.Errorf("Read = %q, %v", got, err)
	}
}

func TestArchive(t *testing.T) {
	in := tempInbox(t)
	drop(t, in, "book.txt", "content")

	if err := in.Archive("book.txt"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if _, err := in.Read("book.txt"); err == nil {
		t.Error("archived file still pending")
	}
	data, err := os.ReadFile(filepath.Join(in.Root(), processedDir, "book.txt"))
	if err != nil || string(data) != "content" {
		t.Errorf("archived copy = %q, %v", data, err)
	}

	names, _ := in.Scan()
	if len(names) != 0 {
		t.Errorf("scan after archive = %v", names)
	}
}

func TestArchive_CollisionKeepsBoth(t *testing.T) {
	in := tempInbox(t)
	drop(t, in, "dup.txt", "first")
	if err := in.Archive("dup.txt"); err != nil {
		t.Fatal(err)
	}
	drop(t, in, "dup.txt", "second")
	if err := in.Archive("dup.txt"); err != nil {
		t.Fatalf("Archive collision: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(in.Root(), processedDir, "*dup.txt"))
	if len(matches) != 2 {
		t.Errorf("archived copies = %v, want 2", matches)
	}
}

func TestTraversalBlocked(t *testing.T) {
	in := tempInbox(t)
	cases := []string{
		"../../etc/passwd",
		"../outside.txt",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := in.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := in.Archive(p); err == nil {
			t.Errorf("expected error archiving %q", p)
		}
	}
}

func TestNewDir_NonExistent(t *testing.T) {
	if _, err := NewDir("/tmp/folium-does-not-exist-" + t.Name()); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestIsManuscript(t *testing.T) {
	cases := map[string]bool{
		"a.txt":  true,
		"b.md":   true,
		"C.TXT":  true,
		"d.pdf":  false,
		"no-ext": false,
	}
	for name, want := range cases {
		if got := IsManuscript(name); got != want {
			t.Errorf("IsManuscript(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestTitleFor(t *testing.T) {
	cases := map[string]string{
		"the_divine_gene.txt": "the divine gene",
		"My Book.md":          "My Book",
		"draft.txt":           "draft",
	}
	for name, want := range cases {
		if got := TitleFor(name); got != want {
			t.Errorf("TitleFor(%q) = %q, want %q", name, got, want)
		}
	}
}
