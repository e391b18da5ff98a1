package sidecar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		t.Fatalf(err.Error())
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf(err.Error())
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "Album", "a.jpg.supplemental-metadata.json"), "{}")
	write(t, filepath.Join(root, "Album", "metadata.json"), "{}")
	write(t, filepath.Join(root, "Album", "Nested", "b.json"), "{}")
	write(t, filepath.Join(root, "Album", "a.jpg"), "not json")

	paths, err := Discover(root, zap.NewNop())
	if err != nil {
		t.Fatalf(err.Error())
	}

	if len(paths) != 3 {
		t.Errorf("Expected 3 sidecars but got %v instead: %v", len(paths), paths)
	}
	for _, p := range paths {
		if filepath.Ext(p) != ".json" {
			t.Errorf("Expected only .json files but got %v", p)
		}
	}
}

func TestDiscoverSkipsUnreadableSubtrees(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	write(t, filepath.Join(root, "Album", "a.json"), "{}")
	write(t, filepath.Join(root, "Locked", "b.json"), "{}")

	locked := filepath.Join(root, "Locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf(err.Error())
	}
	t.Cleanup(func() {
		_ = os.Chmod(locked, 0o755)
	})

	paths, err := Discover(root, zap.NewNop())
	if err != nil {
		t.Fatalf("Expected the unreadable subtree to be skipped but got %v", err)
	}

	if len(paths) != 1 || filepath.Base(paths[0]) != "a.json" {
		t.Errorf("Expected only the readable sidecar but got %v instead", paths)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "ghost"), zap.NewNop()); err == nil {
		t.Errorf("Expected an error for a missing root but got none")
	}
}

func TestParse(t *testing.T) {
	root := t.TempDir()

	full := filepath.Join(root, "full.json")
	write(t, full, `{
		"title": "photo.jpg",
		"description": "at the beach",
		"photoTakenTime": {"timestamp": "1577882096"},
		"creationTime": {"timestamp": "1593349200"},
		"geoData": {"latitude": -22.9519, "longitude": -43.2105, "altitude": 8.5}
	}`)

	sparse := filepath.Join(root, "sparse.json")
	write(t, sparse, `{"title": "old"}`)

	s, err := Parse(full)
	if err != nil {
		t.Fatalf(err.Error())
	}
	if s.Title != "photo.jpg" || s.Description != "at the beach" {
		t.Errorf("Expected title and description to be parsed but got %+v", s)
	}
	if s.GeoData.Latitude != -22.9519 || s.GeoData.Altitude != 8.5 {
		t.Errorf("Expected geodata to be parsed but got %+v", s.GeoData)
	}
	if got := s.Dates().TakenAt; !got.Equal(time.Date(2020, 1, 1, 12, 34, 56, 0, time.UTC)) {
		t.Errorf("Expected parsed taken time but got %v instead", got)
	}

	s, err = Parse(sparse)
	if err != nil {
		t.Fatalf(err.Error())
	}
	// Missing fields keep their documented defaults: zero geodata, epoch dates.
	if s.GeoData.Latitude != 0 || s.GeoData.Longitude != 0 || s.GeoData.Altitude != 0 {
		t.Errorf("Expected zero geodata defaults but got %+v", s.GeoData)
	}
	dates := s.Dates()
	if !dates.TakenAt.Equal(time.Unix(0, 0)) || !dates.CreatedAt.Equal(time.Unix(0, 0)) {
		t.Errorf("Expected epoch defaults but got %+v", dates)
	}
}

func TestParseMalformed(t *testing.T) {
	root := t.TempDir()
	bad := filepath.Join(root, "bad.json")
	write(t, bad, `{"title": `)

	if _, err := Parse(bad); err == nil {
		t.Errorf("Expected an error for malformed JSON but got none")
	}
}
