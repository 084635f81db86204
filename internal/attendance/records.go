package attendance

import (
	"slices"
	"strings"
	"time"

	"faceattend/internal/faceclient"
)

// Layouts accepted for record timestamps, most specific first. The backend
// emits Python isoformat() strings, which may omit the zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 record timestamp. Zoneless values are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortNewestFirst returns a copy of records ordered by timestamp, most recent
// first. Unparsable timestamps go last; equal keys keep backend order.
func SortNewestFirst(records []faceclient.Record) []faceclient.Record {
	type keyed struct {
		rec faceclient.Record
		at  time.Time
		ok  bool
	}
	items := make([]keyed, len(records))
	for i, r := range records {
		at, ok := ParseTimestamp(r.Timestamp)
		items[i] = keyed{rec: r, at: at, ok: ok}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return b.at.Compare(a.at)
	})

	out := make([]faceclient.Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}
