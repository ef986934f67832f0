package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// exportFilename names an export so repeated runs never overwrite each other,
// e.g. readings_farm-1_20240115_143000_1a2b3c4d.csv
func exportFilename(dir, prefix, farmID string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	random := uuid.New().String()[:8]
	name := fmt.Sprintf("%s_%s_%s_%s.csv", prefix, unsafeNameChars.ReplaceAllString(farmID, "_"), timestamp, random)
	return filepath.Join(dir, name)
}
