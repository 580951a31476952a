package model

import (
	"testing"
	"time"
)

func TestEditableOn_YesterdayIsEditable(t *testing.T) {
	now := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)
	yesterday := time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)
	if !EditableOn(yesterday, now) {
		t.Fatalf("request dated yesterday must still be editable")
	}
}

func TestEditableOn_TwoDaysAgoIsLocked(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 1, 0, time.UTC)
	twoDaysAgo := time.Date(2025, 1, 8, 23, 59, 59, 0, time.UTC)
	if EditableOn(twoDaysAgo, now) {
		t.Fatalf("request dated two days ago must be locked")
	}
}

func TestEditableOn_TodayAndFuture(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	} {
		if !EditableOn(d, now) {
			t.Fatalf("request dated %s must be editable at %s", d, now)
		}
	}
}

func TestEditableOn_DayGranularityNotRolling24h(t *testing.T) {
	// 2025-01-09 is editable at any clock time on 2025-01-10, even when
	// more than 24 hours separate the two instants.
	now := time.Date(2025, 1, 10, 23, 59, 0, 0, time.UTC)
	d := time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC)
	if !EditableOn(d, now) {
		t.Fatalf("edit window must compare whole days, not rolling 24h periods")
	}
}
