// Package fsx moves processed sidecar files out of the export tree.
package fsx

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/natefinch/atomic"
	"lukechampine.com/blake3"
)

// Relocate moves a sidecar under destRoot, preserving its path relative to
// srcRoot and creating intermediate directories as needed.
//
// Takeout splits exports across archives, so the same sidecar can already
// sit at the destination from a previous run: identical content means the
// source is simply removed, different content is an error rather than an
// overwrite.
func Relocate(srcRoot, destRoot, path string) error {
	rel, err := filepath.Rel(srcRoot, path)
	if err != nil {
		return err
	}
	target := filepath.Join(destRoot, rel)

	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return fmt.Errorf("unable to create target directory %v: %w", filepath.Dir(target), err)
	}

	if _, err := os.Stat(target); err == nil {
		same, err := sameContent(path, target)
		if err != nil {
			return err
		}
		if !same {
			return fmt.Errorf("%v already exists with different content", target)
		}
		return os.Remove(path)
	}

	if err := os.Rename(path, target); err != nil {
		if !isCrossDevice(err) {
			return err
		}
		return moveAcross(path, target)
	}

	return nil
}

// moveAcross copies then removes, for when source and destination live on
// different filesystems. The copy is atomic so a crash never leaves a
// half-written sidecar at the destination.
func moveAcross(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := atomic.WriteFile(dst, bufio.NewReader(f)); err != nil {
		return fmt.Errorf("cannot atomically move %v to %v: %w", src, dst, err)
	}

	return os.Remove(src)
}

func sameContent(a, b string) (bool, error) {
	ha, err := hashFile(a)
	if err != nil {
		return false, err
	}
	hb, err := hashFile(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ha, hb), nil
}

func hashFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}
