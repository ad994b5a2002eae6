package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_Add_PersistsAndDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)
	h := NewHistory(path)

	for _, entry := range []string{"a{b,c}", "{1..3}", "a{b,c}", "{1..3}", "  ", "x\ny"} {
		if err := h.Add(entry); err != nil {
			t.Fatalf("Add(%q) failed: %v", entry, err)
		}
	}

	if diff := cmp.Diff([]string{"{1..3}", "a{b,c}"}, h.Recent()); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "a{b,c}\n{1..3}\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}
}

func TestHistory_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	content := "one\n\ntwo\none\n   \nthree\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	for i, want := range []string{"two", "one", "three"} {
		got, err := h.Entry(i)
		if err != nil {
			t.Fatalf("Entry(%d) failed: %v", i, err)
		}

		if got != want {
			t.Errorf("Entry(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestHistory_Load_MissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing", HistoryFile))
	if err := h.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_Entry_OutOfBounds(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("x"); err != nil {
		t.Fatal(err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}
