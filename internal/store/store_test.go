package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSetMark(t *testing.T) {
	s := NewSet("https://a.test/1")

	if !s.Has("https://a.test/1") {
		t.Error("expected preloaded link to be present")
	}
	if s.Mark("https://a.test/1") {
		t.Error("marking a known link should report false")
	}
	if !s.Mark("https://a.test/2") {
		t.Error("marking a new link should report true")
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 links, got %d", s.Len())
	}
	added := s.Added()
	if len(added) != 1 || added[0] != "https://a.test/2" {
		t.Errorf("unexpected added links: %v", added)
	}
}

func TestFileStoreMissing(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "cache.json"))

	set, status, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if status != LoadMissing {
		t.Errorf("expected missing, got %s", status)
	}
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d", set.Len())
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	set, status, err := NewFileStore(path).Load(context.Background())
	if err == nil {
		t.Fatal("expected parse error")
	}
	if status != LoadCorrupt {
		t.Errorf("expected corrupt, got %s", status)
	}
	if set == nil || set.Len() != 0 {
		t.Error("corrupt cache must still yield an empty set")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	fs := NewFileStore(path)

	set, _, _ := fs.Load(ctx)
	set.Mark("https://a.test/1")
	set.Mark("https://a.test/2")
	if err := fs.Save(ctx, set); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, status, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if status != LoadOK {
		t.Errorf("expected ok, got %s", status)
	}
	if !again.Has("https://a.test/1") || !again.Has("https://a.test/2") {
		t.Errorf("links lost in round trip: %v", again.Links())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the cache file, found %d entries", len(entries))
	}
}

func TestFileStoreReadsOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	data := `{
  "https://a.test/1": true,
  "https://a.test/2": true
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	set, status, err := NewFileStore(path).Load(context.Background())
	if err != nil || status != LoadOK {
		t.Fatalf("load: status=%s err=%v", status, err)
	}
	if set.Len() != 2 {
		t.Errorf("expected 2 links, got %d", set.Len())
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seen.db")

	db, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	set, status, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if status != LoadMissing {
		t.Errorf("expected missing on empty table, got %s", status)
	}

	set.Mark("https://a.test/1")
	set.Mark("https://a.test/2")
	if err := db.Save(ctx, set); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Saving twice is harmless.
	if err := db.Save(ctx, set); err != nil {
		t.Fatalf("second save: %v", err)
	}
	db.Close()

	db, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	again, status, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if status != LoadOK || again.Len() != 2 {
		t.Errorf("expected 2 links with status ok, got %d (%s)", again.Len(), status)
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := NewFileStore(filepath.Join(dir, "cache.json"))
	srcSet := NewSet()
	srcSet.Mark("https://a.test/1")
	srcSet.Mark("https://a.test/2")
	if err := src.Save(ctx, srcSet); err != nil {
		t.Fatal(err)
	}

	dst, err := NewSQLiteStore(filepath.Join(dir, "seen.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { dst.Close() })

	pre := NewSet()
	pre.Mark("https://a.test/2")
	if err := dst.Save(ctx, pre); err != nil {
		t.Fatal(err)
	}

	added, err := Import(ctx, dst, src)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 1 {
		t.Errorf("expected 1 new link, got %d", added)
	}

	set, _, _ := dst.Load(ctx)
	if set.Len() != 2 {
		t.Errorf("expected 2 links after import, got %d", set.Len())
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", filepath.Join(dir, "cache.json"))
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("default backend should be file, got %T", s)
	}

	s, err = Open(BackendSQLite, filepath.Join(dir, "seen.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s.Close()

	if _, err := Open("redis", "x"); err == nil {
		t.Error("expected error for unknown backend")
	}
}
