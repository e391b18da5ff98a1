package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf(err.Error())
	}
}

func TestMedia(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Album 1")
	if err := os.Mkdir(dir, os.ModePerm); err != nil {
		t.Fatalf(err.Error())
	}

	touch(t, filepath.Join(dir, "exact.jpg"))
	touch(t, filepath.Join(dir, "legacy.png"))
	touch(t, filepath.Join(dir, "legacy.heic"))
	touch(t, filepath.Join(dir, "clip.mov"))

	cases := []struct {
		name     string
		title    string
		expected string
		skip     bool
		errText  string
	}{
		{
			name:     "title with extension resolves to the exact path",
			title:    "exact.jpg",
			expected: filepath.Join(dir, "exact.jpg"),
		},
		{
			name:    "title with extension never probes alternatives",
			title:   "legacy.jpg",
			errText: "media file not found",
		},
		{
			name:     "extensionless title takes the first match in probe order",
			title:    "legacy",
			expected: filepath.Join(dir, "legacy.png"),
		},
		{
			name:     "extensionless title falls through to video formats",
			title:    "clip",
			expected: filepath.Join(dir, "clip.mov"),
		},
		{
			name:    "extensionless title with no match fails",
			title:   "ghost",
			errText: "no matching extension found",
		},
		{
			name:  "empty title is album metadata",
			title: "",
			skip:  true,
		},
		{
			name:  "title equal to the containing directory is album metadata",
			title: "Album 1",
			skip:  true,
		},
	}

	for _, c := range cases {
		got, err := Media(dir, c.title)

		if c.skip {
			if !errors.Is(err, ErrSkip) {
				t.Errorf("%v\n\tExpected ErrSkip but got %v instead", c.name, err)
			}
			continue
		}

		if c.errText != "" {
			if err == nil || !strings.Contains(err.Error(), c.errText) {
				t.Errorf("%v\n\tExpected error containing %q but got %v instead", c.name, c.errText, err)
			}
			continue
		}

		if err != nil {
			t.Errorf("%v\n\tUnexpected error: %v", c.name, err)
			continue
		}
		if got != c.expected {
			t.Errorf("%v\n\tExpected %v but got %v instead", c.name, c.expected, got)
		}
	}
}

func TestMediaIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "trip.jpg"), os.ModePerm); err != nil {
		t.Fatalf(err.Error())
	}

	if _, err := Media(dir, "trip.jpg"); err == nil {
		t.Errorf("Expected an error for a directory match but got none")
	}
}
