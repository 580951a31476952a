package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeSlot is a bounded same-day interval declared by an interviewer.
// Both bounds are stored as zero-padded "HH:MM" strings, the format the
// clients submit and the format persisted in submission_slots and
// pool_entries.  A slot is valid only when its start is strictly before
// its end.
//
// Fields:
//
//	StartTime – inclusive lower bound, "HH:MM".
//	EndTime   – exclusive upper bound, "HH:MM".
type TimeSlot struct {
	StartTime string `json:"start_time"` // submission_slots.start_time
	EndTime   string `json:"end_time"`   // submission_slots.end_time
}

// slotMinutes parses an "HH:MM" string into minutes since midnight.  It
// rejects empty strings, malformed values and out-of-range components.
func slotMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("time bound is required")
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// Validate checks that both bounds are present, well formed and that the
// start precedes the end strictly.  Overlap between different slots of the
// same submission is deliberately not checked here; submissions may carry
// overlapping intervals.
func (s TimeSlot) Validate() error {
	start, err := slotMinutes(s.StartTime)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	end, err := slotMinutes(s.EndTime)
	if err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	if start >= end {
		return fmt.Errorf("start_time %q must be before end_time %q", s.StartTime, s.EndTime)
	}
	return nil
}

// Label returns the human-readable "HH:MM-HH:MM" form used in emails and
// event payloads.
func (s TimeSlot) Label() string {
	return s.StartTime + "-" + s.EndTime
}
