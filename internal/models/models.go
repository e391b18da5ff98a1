package models

import (
	"strconv"
	"time"
)

// Sidecar is the parsed view of one Takeout JSON metadata file. Google
// exports one next to each media item (and one per album). Absent fields
// keep their zero values: numeric sub-fields default to 0.0 and timestamps
// to the Unix epoch, so an epoch or zero value means "unknown", not a
// verified zero.
type Sidecar struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PhotoTakenTime TimeField `json:"photoTakenTime"`
	CreationTime   TimeField `json:"creationTime"`
	GeoData        GeoData   `json:"geoData"`
}

// TimeField holds an epoch-seconds timestamp as Takeout exports it.
type TimeField struct {
	Timestamp string `json:"timestamp"`
}

// GeoData carries the coordinates Takeout attaches to a media item.
// Google writes latitude == 0 and longitude == 0 when there is no geodata.
type GeoData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// MediaDates are the capture and creation instants derived from a sidecar,
// both in UTC.
type MediaDates struct {
	TakenAt   time.Time
	CreatedAt time.Time
}

// Dates converts the sidecar's epoch-second strings. Missing or malformed
// timestamps fall back to the Unix epoch.
func (s Sidecar) Dates() MediaDates {
	return MediaDates{
		TakenAt:   s.PhotoTakenTime.Time(),
		CreatedAt: s.CreationTime.Time(),
	}
}

func (t TimeField) Time() time.Time {
	secs, err := strconv.ParseFloat(t.Timestamp, 64)
	if err != nil {
		secs = 0
	}
	return time.Unix(int64(secs), 0).UTC()
}

// Task pairs one sidecar with the media file it is about to edit.
type Task struct {
	SidecarPath string
	MediaPath   string
	Meta        Sidecar
}

type Status int

const (
	StatusApplied Status = iota
	StatusSkipped
	StatusFailed
)

// Outcome is the per-sidecar result of one batch task. Reason carries the
// skip reason or failure detail.
type Outcome struct {
	SidecarPath string
	Status      Status
	Reason      string
}
