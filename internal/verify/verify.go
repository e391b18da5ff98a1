// Package verify checks an extracted Takeout export against the
// navigator.html manifest Google ships with it.
package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go.uber.org/zap"
)

// Report is the result of checking one manifest.
type Report struct {
	Checked int
	Missing []string
}

// Check parses the navigator manifest and verifies that every folder and
// file it lists exists on disk, relative to the manifest's own directory.
// Listed entries that are absent land in Report.Missing; only a manifest
// that cannot be read or parsed is an error.
func Check(manifestPath string, logger *zap.Logger) (Report, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return Report{}, fmt.Errorf("parsing %v: %w", manifestPath, err)
	}

	root := filepath.Dir(manifestPath)
	var rep Report

	doc.Find("div.service-detail").Each(func(_ int, service *goquery.Selection) {
		name := strings.TrimSpace(service.Find(".service_name > h1").First().Text())
		servicePath := filepath.Join(root, name)

		logger.Info("Checking service", zap.String("service", name))

		if !isDir(servicePath) {
			rep.Missing = append(rep.Missing, servicePath)
			return
		}

		service.Find("div.extracted-list").First().Children().Each(func(_ int, row *goquery.Selection) {
			checkEntry(row, servicePath, &rep)
		})
	})

	return rep, nil
}

// checkEntry descends one row of the manifest tree: a folder row carries its
// name in the first child and its entries in the rest, a leaf row is a file.
func checkEntry(row *goquery.Selection, dir string, rep *Report) {
	children := row.Children()
	first := children.First()

	switch {
	case first.HasClass("extracted-folder"):
		name := strings.TrimSpace(first.Find("div").First().Text())
		folder := filepath.Join(dir, name)
		rep.Checked++

		if !isDir(folder) {
			rep.Missing = append(rep.Missing, folder)
			return
		}

		children.Slice(1, children.Length()).Each(func(_ int, child *goquery.Selection) {
			checkEntry(child, folder, rep)
		})
	case first.HasClass("file-leaf"):
		name := strings.TrimSpace(first.Text())
		full := filepath.Join(dir, name)
		rep.Checked++

		if !isFile(full) {
			rep.Missing = append(rep.Missing, full)
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
