package docstore

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/readpipe/safeurl"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "docs"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCreateReadRoundTrip(t *testing.T) {
	s := newStore(t)

	p, err := s.Create("notes", "# Notes\n\nHello.")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p, "notes.md") {
		t.Errorf("path = %q, want .md suffix added", p)
	}

	got, err := s.Read("notes")
	if err != nil {
		t.Fatal(err)
	}
	if got != "# Notes\n\nHello." {
		t.Errorf("content = %q", got)
	}

	// Reading with the explicit suffix resolves the same document.
	if got2, err := s.Read("notes.md"); err != nil || got2 != got {
		t.Errorf("suffixed read = %q, %v", got2, err)
	}
}

func TestCreateExisting(t *testing.T) {
	s := newStore(t)
	if _, err := s.Create("a", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("a", "y"); !errors.Is(err, ErrExists) {
		t.Errorf("err = %v, want ErrExists", err)
	}
}

func TestReadMissing(t *testing.T) {
	s := newStore(t)
	if _, err := s.Read("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestWriteOverwriteAndAppend(t *testing.T) {
	s := newStore(t)
	if _, err := s.Write("doc", "first", false); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write("doc", "second", false); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Read("doc")
	if got != "second" {
		t.Errorf("overwrite: content = %q", got)
	}

	if _, err := s.Write("doc", "third", true); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Read("doc")
	if got != "second\nthird" {
		t.Errorf("append: content = %q", got)
	}
}

func TestWriteAppendMissingCreates(t *testing.T) {
	s := newStore(t)
	if _, err := s.Write("fresh", "body", true); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Read("fresh")
	if got != "body" {
		t.Errorf("content = %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	s.Create("gone", "x")

	ok, err := s.Delete("gone")
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	if s.Exists("gone") {
		t.Error("document survived deletion")
	}

	ok, err = s.Delete("gone")
	if err != nil || ok {
		t.Errorf("second delete = %v, %v; want false, nil", ok, err)
	}
}

func TestList(t *testing.T) {
	s := newStore(t)
	for _, name := range []string{"b", "a", "c"} {
		if _, err := s.Create(name, ""); err != nil {
			t.Fatal(err)
		}
	}

	names, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.md", "b.md", "c.md"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestTraversalRejected(t *testing.T) {
	s := newStore(t)
	if _, err := s.Create("../escape", "x"); !errors.Is(err, safeurl.ErrTraversal) {
		t.Errorf("err = %v, want ErrTraversal", err)
	}
	if _, err := s.Read("../../etc/passwd"); !errors.Is(err, safeurl.ErrTraversal) {
		t.Errorf("err = %v, want ErrTraversal", err)
	}
}

func TestEmptyName(t *testing.T) {
	s := newStore(t)
	if _, err := s.Create("  ", "x"); err == nil {
		t.Error("expected error for blank name")
	}
}
