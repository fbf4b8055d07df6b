package storage

import (
	"fmt"
	"time"
)

// timeFormats are the layouts accepted when reading timestamps back.
// Writes always use RFC3339Nano in UTC; the laxer layouts cover rows
// written by hand or by earlier tooling.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseTime parses a stored timestamp string.
// POST: Returns the parsed time or an error if no layout matches
func ParseTime(s string) (time.Time, error) {
	for _, f := range timeFormats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
