package attendance

import (
	"testing"
	"time"

	"faceattend/internal/faceclient"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-01-02T10:00:00Z", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), true},
		{"2024-01-02T10:00:00.123456", time.Date(2024, 1, 2, 10, 0, 0, 123456000, time.UTC), true},
		{"2024-01-02 10:00:00", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), true},
		{"2024-01-02T12:00:00+02:00", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), true},
		{"2024-01-02T10:30", time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseTimestamp(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseTimestamp(%q) ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSortNewestFirst(t *testing.T) {
	in := []faceclient.Record{
		{Name: "broken", Timestamp: "n/a"},
		{Name: "old", Timestamp: "2024-01-01T08:00:00"},
		{Name: "new", Timestamp: "2024-01-03T08:00:00Z"},
		{Name: "mid-a", Timestamp: "2024-01-02T08:00:00Z"},
		{Name: "mid-b", Timestamp: "2024-01-02 08:00:00"},
	}
	got := names(SortNewestFirst(in))
	if got != "new,mid-a,mid-b,old,broken" {
		t.Fatalf("unexpected order %s", got)
	}
	if in[0].Name != "broken" {
		t.Fatal("input slice was reordered")
	}
}

func TestSortNewestFirstEmpty(t *testing.T) {
	if got := SortNewestFirst(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
