// Package roster parses, normalizes, validates and de-duplicates imported
// student contact lists before they are authorized against a booking link.
// It accepts pasted delimited text (tab or comma separated) or an uploaded
// CSV file and is free of any I/O or persistence concerns; the admin
// handler feeds it raw input and persists only the rows it marks valid.
package roster

import (
	"encoding/csv"
	"io"
	"regexp"
	"strings"
)

// Validation patterns.  These shapes are part of the import contract and
// mirrored by the client templates; do not tighten them.
var (
	emailRe  = regexp.MustCompile(`\S+@\S+\.\S+`)
	urlRe    = regexp.MustCompile(`(?i)^(https?://)?([\w-]+\.)+[\w-]{2,}(/\S*)?$`)
	mobileRe = regexp.MustCompile(`^[0-9+\-\s()]{7,15}$`)
)

// Row is one imported student in canonical form.  Invalid rows carry a
// Reason and are retained for operator review; they are never persisted.
type Row struct {
	HiringName string `json:"hiring_name"`
	Domain     string `json:"domain"`
	ExternalID string `json:"user_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	ResumeLink string `json:"resume_link"`

	Line    int    `json:"line"`
	Invalid bool   `json:"invalid"`
	Reason  string `json:"reason,omitempty"`
}

// canonical column order used when a sheet has no recognizable header.
const (
	colHiringName = iota
	colDomain
	colExternalID
	colFullName
	colEmail
	colMobile
	colResumeLink
	colCount
)

// headerAliases maps lower-cased header cells to canonical column indexes.
// Matching is case-insensitive and ignores surrounding whitespace.
var headerAliases = map[string]int{
	"hiring name":   colHiringName,
	"hiring_name":   colHiringName,
	"hiringname":    colHiringName,
	"domain":        colDomain,
	"user id":       colExternalID,
	"user_id":       colExternalID,
	"userid":        colExternalID,
	"full name":     colFullName,
	"full_name":     colFullName,
	"fullname":      colFullName,
	"name":          colFullName,
	"email":         colEmail,
	"email id":      colEmail,
	"email_id":      colEmail,
	"mobile":        colMobile,
	"mobile number": colMobile,
	"mobile_number": colMobile,
	"phone":         colMobile,
	"phone number":  colMobile,
	"resume":        colResumeLink,
	"resume link":   colResumeLink,
	"resume_link":   colResumeLink,
}

// Parse splits pasted text into cell rows and runs the full pipeline:
// header mapping, normalization, de-duplication and validation.  Lines are
// split on tabs when the first line contains one, otherwise on commas,
// matching how spreadsheet pastes and CSV pastes arrive.
func Parse(text string) []Row {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	sep := ","
	if strings.Contains(lines[0], "\t") {
		sep = "\t"
	}
	cells := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells = append(cells, strings.Split(line, sep))
	}
	return Process(cells)
}

// ParseCSV reads an uploaded CSV file and runs the same pipeline as Parse.
// Ragged rows are tolerated; missing trailing cells map to empty fields.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return Process(records), nil
}

// Process turns raw cell rows into the validated, de-duplicated working
// set.  The first row is consumed as a header when at least one of its
// cells matches a known alias; otherwise every row is data and columns are
// mapped positionally in the template order (hiring name, domain, user id,
// full name, email, mobile, resume link).
func Process(cells [][]string) []Row {
	if len(cells) == 0 {
		return []Row{}
	}
	mapping, hasHeader := headerMapping(cells[0])
	data := cells
	if hasHeader {
		data = cells[1:]
	}
	rows := make([]Row, 0, len(data))
	for i, rec := range data {
		row := mapRow(rec, mapping)
		row.Line = i + 1
		if hasHeader {
			row.Line = i + 2
		}
		rows = append(rows, row)
	}
	rows = Dedupe(rows)
	for i := range rows {
		validate(&rows[i])
	}
	return rows
}

// headerMapping inspects a candidate header row.  It returns a column
// index -> canonical field mapping and whether the row was recognized as
// a header at all.
func headerMapping(header []string) (map[int]int, bool) {
	mapping := make(map[int]int)
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if field, ok := headerAliases[key]; ok {
			mapping[i] = field
		}
	}
	if len(mapping) == 0 {
		// Headerless sheet: positional template order.
		for i := 0; i < colCount; i++ {
			mapping[i] = i
		}
		return mapping, false
	}
	return mapping, true
}

// mapRow places raw cells into a Row and trims every field.  The email is
// additionally lower-cased so de-duplication and allowlist lookups are
// case-insensitive.
func mapRow(rec []string, mapping map[int]int) Row {
	var row Row
	for i, cell := range rec {
		field, ok := mapping[i]
		if !ok {
			continue
		}
		v := strings.TrimSpace(cell)
		switch field {
		case colHiringName:
			row.HiringName = v
		case colDomain:
			row.Domain = v
		case colExternalID:
			row.ExternalID = v
		case colFullName:
			row.FullName = v
		case colEmail:
			row.Email = strings.ToLower(v)
		case colMobile:
			row.Mobile = v
		case colResumeLink:
			row.ResumeLink = v
		}
	}
	return row
}

// Dedupe reduces rows by lower-cased email.  The first occurrence wins and
// later duplicates are discarded silently.  Rows without an email cannot
// collide and pass through untouched (they fail validation afterwards).
func Dedupe(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if row.Email != "" {
			if _, dup := seen[row.Email]; dup {
				continue
			}
			seen[row.Email] = struct{}{}
		}
		out = append(out, row)
	}
	return out
}

// validate applies the row rules in order; the first failing rule wins and
// its reason is the one attached to the row.
func validate(row *Row) {
	switch {
	case row.Email == "" || !emailRe.MatchString(row.Email):
		row.Invalid = true
		row.Reason = "Invalid or missing email."
	case row.FullName == "":
		row.Invalid = true
		row.Reason = "Full name is required."
	case row.Mobile != "" && !mobileRe.MatchString(row.Mobile):
		row.Invalid = true
		row.Reason = "Invalid mobile number."
	case row.ResumeLink != "" && !urlRe.MatchString(row.ResumeLink):
		row.Invalid = true
		row.Reason = "Invalid resume link."
	}
}

// Valid returns the subset of rows that passed validation.  Only this
// subset is ever sent to persistence; invalid rows stay in the working set
// for display.
func Valid(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !row.Invalid {
			out = append(out, row)
		}
	}
	return out
}
