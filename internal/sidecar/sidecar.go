package sidecar

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpaiva/takeout-merge/internal/models"

	"go.uber.org/zap"
)

const extension = ".json"

// Discover returns every sidecar file found recursively under root.
// Takeout names media sidecars "<name>.supplemental-metadata.json" but
// truncates long names, so anything ending in .json counts.
//
// An unreadable subtree is logged and skipped so one bad permission bit
// cannot kill a multi-thousand-file batch; only a failure on root itself
// is fatal.
func Discover(root string, logger *zap.Logger) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("Skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			logger.Debug("Parsing media", zap.String("dir", path))
			return nil
		}

		if strings.ToLower(filepath.Ext(d.Name())) == extension {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %v: %w", root, err)
	}

	return paths, nil
}

// Parse reads one sidecar file into its normalized form.
func Parse(path string) (models.Sidecar, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Sidecar{}, err
	}
	defer f.Close()

	var s models.Sidecar
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return models.Sidecar{}, fmt.Errorf("parsing %v: %w", path, err)
	}

	return s, nil
}
