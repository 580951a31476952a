package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewPublicID returns the opaque, URL-safe identifier embedded in a
// shareable booking link.  It is a random UUID with the dashes stripped
// so the resulting path segment is a single 32-character hex token that
// reveals nothing about issue order or volume.
func NewPublicID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewInterviewRef returns the tracking reference pre-created for each
// authorized student.  Downstream systems use it to correlate the
// eventual interview record with the invitation.
func NewInterviewRef() string {
	return "iv-" + uuid.NewString()
}
