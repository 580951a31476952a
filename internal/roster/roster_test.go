package roster

import (
	"strings"
	"testing"
)

func TestParse_TabSeparatedWithHeader(t *testing.T) {
	text := "Hiring Name\tDomain\tUser ID\tFull Name\tEmail\tMobile\tResume Link\n" +
		"Campus 2025\tBackend\tU-1\tJane Roe\tJane@X.com\t+91 98765 4321\thttps://cv.example.com/jane\n"
	rows := Parse(text)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Invalid {
		t.Fatalf("row unexpectedly invalid: %s", r.Reason)
	}
	if r.Email != "jane@x.com" {
		t.Fatalf("email must be lower-cased, got %q", r.Email)
	}
	if r.HiringName != "Campus 2025" || r.Domain != "Backend" || r.ExternalID != "U-1" {
		t.Fatalf("unexpected mapping: %+v", r)
	}
	if r.Line != 2 {
		t.Fatalf("expected line 2 for first data row under a header, got %d", r.Line)
	}
}

func TestParse_CommaSeparated(t *testing.T) {
	text := "email,full name\na@x.com,Ann\n"
	rows := Parse(text)
	if len(rows) != 1 || rows[0].Invalid {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows[0].FullName != "Ann" {
		t.Fatalf("expected full name mapped, got %+v", rows[0])
	}
}

func TestProcess_HeaderlessPositionalMapping(t *testing.T) {
	rows := Process([][]string{
		{"Campus", "Backend", "U-9", "Bob Lee", "bob@x.com", "1234567", "cv.example.com/bob"},
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Invalid {
		t.Fatalf("row unexpectedly invalid: %s", r.Reason)
	}
	if r.HiringName != "Campus" || r.ExternalID != "U-9" || r.Email != "bob@x.com" {
		t.Fatalf("positional mapping wrong: %+v", r)
	}
	if r.Line != 1 {
		t.Fatalf("headerless sheets start at line 1, got %d", r.Line)
	}
}

func TestProcess_DedupeByLowercasedEmailFirstWins(t *testing.T) {
	rows := Process([][]string{
		{"email", "full name"},
		{"a@x.com", "First A"},
		{"A@X.com", "Second A"},
		{"b@x.com", "Only B"},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after dedupe, got %d", len(rows))
	}
	if rows[0].Email != "a@x.com" || rows[0].FullName != "First A" {
		t.Fatalf("first occurrence must win, got %+v", rows[0])
	}
	if rows[1].Email != "b@x.com" {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
}

func TestValidate_FirstFailingRuleWins(t *testing.T) {
	rows := Process([][]string{
		{"email", "full name", "mobile"},
		{"bad", "Jo", ""},
		{"jo@x.com", "", "123"},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Invalid || rows[0].Reason != "Invalid or missing email." {
		t.Fatalf("expected email failure, got %+v", rows[0])
	}
	// Full name is checked before mobile, so the short mobile number is
	// not the reported reason.
	if !rows[1].Invalid || rows[1].Reason != "Full name is required." {
		t.Fatalf("expected full name failure, got %+v", rows[1])
	}
}

func TestValidate_MobileAndResumeShapes(t *testing.T) {
	cases := []struct {
		mobile, resume string
		wantInvalid    bool
	}{
		{"1234567", "", false},
		{"(0712) 345-678", "", false},
		{"123456", "", true},           // below 7 chars
		{"1234567890123456", "", true}, // above 15 chars
		{"12345ab", "", true},          // letters
		{"", "https://a.example.com", false},
		{"", "example.com/path", false},
		{"", "not a url", true},
		{"", "nodots", true},
	}
	for _, tc := range cases {
		rows := Process([][]string{
			{"email", "full name", "mobile", "resume link"},
			{"a@x.com", "Ann", tc.mobile, tc.resume},
		})
		if rows[0].Invalid != tc.wantInvalid {
			t.Fatalf("mobile=%q resume=%q: invalid=%v, want %v (reason %q)",
				tc.mobile, tc.resume, rows[0].Invalid, tc.wantInvalid, rows[0].Reason)
		}
	}
}

func TestParseCSV(t *testing.T) {
	csvText := "Email,Full Name,Resume\n a@x.com ,Ann,https://cv.example.com/ann\n"
	rows, err := ParseCSV(strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 1 || rows[0].Invalid {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows[0].Email != "a@x.com" {
		t.Fatalf("expected trimmed lower-cased email, got %q", rows[0].Email)
	}
	if rows[0].ResumeLink != "https://cv.example.com/ann" {
		t.Fatalf("resume alias not mapped: %+v", rows[0])
	}
}

func TestValid_ReturnsOnlyCleanRows(t *testing.T) {
	rows := Process([][]string{
		{"email", "full name"},
		{"a@x.com", "Ann"},
		{"bad", "Bob"},
	})
	valid := Valid(rows)
	if len(valid) != 1 || valid[0].Email != "a@x.com" {
		t.Fatalf("unexpected valid subset: %+v", valid)
	}
	// The invalid row stays in the working set for operator review.
	if len(rows) != 2 {
		t.Fatalf("invalid rows must be retained, got %d rows", len(rows))
	}
}
