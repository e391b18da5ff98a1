// Package resolve maps a sidecar's declared title to the media file it
// describes. Titles from old exports may lack an extension, and sidecars
// sometimes outlive the media they described, so resolution probes the
// filesystem rather than trusting the title.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// extensions is the probe order for extensionless titles: image formats
// first, then video. First existing match wins.
var extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".heic", ".heif", ".mp4", ".mov"}

// ErrSkip reports that a sidecar describes its containing album rather than
// a media item. Callers must not count it as a failure.
var ErrSkip = errors.New("album-level sidecar")

// Media locates the media file a sidecar's title refers to inside dir.
//
// An empty title, or a title equal to the directory's own name, is album
// metadata and yields ErrSkip. A title carrying an extension must match
// exactly; no alternatives are probed. An extensionless title is probed
// against the known extensions in order.
func Media(dir, title string) (string, error) {
	if title == "" || title == filepath.Base(dir) {
		return "", ErrSkip
	}

	if filepath.Ext(title) != "" {
		path := filepath.Join(dir, title)
		if !isFile(path) {
			return "", fmt.Errorf("media file not found: %q", path)
		}
		return path, nil
	}

	for _, ext := range extensions {
		path := filepath.Join(dir, title+ext)
		if isFile(path) {
			return path, nil
		}
	}

	return "", fmt.Errorf("no matching extension found for %q", filepath.Join(dir, title))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
