package helper

import (
	"math"
	"strings"
	"time"
)

// FileStampLayout is the timestamp used in export file names.
const FileStampLayout = "20060102_150405"

var fileReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_")

// FilePart makes a name safe to embed in a file name: spaces and path
// separators become underscores and ".." is removed.
func FilePart(name string) string {
	return fileReplacer.Replace(strings.TrimSpace(name))
}

// ExportFilename builds telemetry_{driver}_{track}_{vehicle}_{stamp}.csv.
func ExportFilename(driver, track, vehicle string, at time.Time) string {
	return "telemetry_" + FilePart(driver) + "_" + FilePart(track) + "_" + FilePart(vehicle) + "_" + at.Format(FileStampLayout) + ".csv"
}

// Percent2 converts a [0,1] fraction to a percentage rounded to 2 decimals.
func Percent2(f float64) float64 {
	return math.Round(f*100*100) / 100
}

// Clamp01 bounds f to [0,1].
func Clamp01(f float64) float64 {
	return math.Min(math.Max(f, 0), 1)
}
