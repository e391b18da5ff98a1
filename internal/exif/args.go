// Package exif translates sidecar metadata into exiftool invocations and
// runs them against media files.
package exif

import (
	"math"
	"strconv"
	"unicode"

	"github.com/rpaiva/takeout-merge/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const dateFormat = "2006:01:02 15:04:05"

// Args builds the ordered exiftool arguments for one sidecar: description
// (when present), the three date tags, then geolocation (when present).
// The date tags are always emitted; a sidecar without timestamps writes the
// epoch on purpose rather than failing the whole item.
func Args(meta models.Sidecar) []string {
	args := make([]string, 0, 9)

	if meta.Description != "" {
		args = append(args, "-Description="+normalizeASCII(meta.Description))
	}

	dates := meta.Dates()
	args = append(args,
		"-DateTimeOriginal="+dates.TakenAt.Format(dateFormat),
		"-CreateDate="+dates.CreatedAt.Format(dateFormat),
		"-ModifyDate="+dates.CreatedAt.Format(dateFormat),
	)

	return append(args, geoArgs(meta.GeoData)...)
}

// geoArgs emits nothing for the 0,0 coordinate pair, which is Google's
// placeholder for missing geodata. Altitude is optional on top of that.
func geoArgs(g models.GeoData) []string {
	if g.Latitude == 0 && g.Longitude == 0 {
		return nil
	}

	latRef, lonRef := "N", "E"
	if g.Latitude < 0 {
		latRef = "S"
	}
	if g.Longitude < 0 {
		lonRef = "W"
	}

	args := []string{
		"-GPSLatitude=" + formatCoord(g.Latitude),
		"-GPSLatitudeRef=" + latRef,
		"-GPSLongitude=" + formatCoord(g.Longitude),
		"-GPSLongitudeRef=" + lonRef,
	}
	if g.Altitude != 0 {
		args = append(args, "-GPSAltitude="+formatCoord(g.Altitude))
	}

	return args
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
}

// normalizeASCII degrades text to its ASCII base letters, since exiftool's
// Description tag historically accepts ASCII only: canonical decomposition
// followed by removal of the combining marks, so "café" becomes "cafe".
func normalizeASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
