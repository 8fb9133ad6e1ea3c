package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy strips all markup from member-supplied values. Directory fields
// end up interpolated into the letter document, so they are cleaned once at the
// ingestion boundary.
var StrictPolicy *bluemonday.Policy

func init() {
	StrictPolicy = bluemonday.StrictPolicy()
}

// CleanField sanitizes a single directory attribute value
func CleanField(value string) string {
	return strings.TrimSpace(StrictPolicy.Sanitize(value))
}
