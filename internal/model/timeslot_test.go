package model

import "testing"

func TestTimeSlotValidate_OK(t *testing.T) {
	s := TimeSlot{StartTime: "09:00", EndTime: "09:30"}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid slot, got %v", err)
	}
}

func TestTimeSlotValidate_StartNotBeforeEnd(t *testing.T) {
	cases := []TimeSlot{
		{StartTime: "09:30", EndTime: "09:00"},
		{StartTime: "09:00", EndTime: "09:00"},
	}
	for _, s := range cases {
		if err := s.Validate(); err == nil {
			t.Fatalf("expected error for slot %s-%s", s.StartTime, s.EndTime)
		}
	}
}

func TestTimeSlotValidate_MissingOrMalformedBounds(t *testing.T) {
	cases := []TimeSlot{
		{StartTime: "", EndTime: "09:30"},
		{StartTime: "09:00", EndTime: ""},
		{StartTime: "9am", EndTime: "10am"},
		{StartTime: "25:00", EndTime: "26:00"},
		{StartTime: "09:61", EndTime: "10:00"},
	}
	for _, s := range cases {
		if err := s.Validate(); err == nil {
			t.Fatalf("expected error for slot %q-%q", s.StartTime, s.EndTime)
		}
	}
}

func TestTimeSlotLabel(t *testing.T) {
	s := TimeSlot{StartTime: "09:00", EndTime: "09:30"}
	if got := s.Label(); got != "09:00-09:30" {
		t.Fatalf("unexpected label %q", got)
	}
}
