package cli

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestUserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	found := func() (string, error) { return "/xdg", nil }
	missing := func() (string, error) { return "", errors.New("unset") }

	if got, want := userDir(found, ".config"), filepath.Join("/xdg", basePrefix()); got != want {
		t.Errorf("userDir(found) = %q, want %q", got, want)
	}

	want := filepath.Join(home, ".cache", basePrefix())
	if got := userDir(missing, ".cache"); got != want {
		t.Errorf("userDir(missing) = %q, want %q", got, want)
	}
}

func TestBasePrefix(t *testing.T) {
	if got := basePrefix(); got == "" || filepath.Ext(got) != "" {
		t.Errorf("basePrefix() = %q", got)
	}
}
