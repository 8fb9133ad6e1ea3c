package models

import (
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// Member is the canonical member record. The directory may deliver either the
// current or the legacy attribute names; everything past the ingestion
// boundary sees only this shape.
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RegNo    string `json:"regNo"`
	Team     string `json:"team"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// firstAttr returns the first non-empty attribute among the given names
func firstAttr(attrs map[string]string, names ...string) string {
	for _, n := range names {
		if v, ok := attrs[n]; ok && v != "" {
			return v
		}
	}
	return ""
}

// FromAttributes builds a canonical Member from a raw attribute map, accepting
// both the current and the legacy field-naming schemes. A record without a
// display name normalizes to an empty Name, never an error. Values are
// sanitized here because they are later interpolated into letter markup.
func FromAttributes(id string, attrs map[string]string) Member {
	return Member{
		ID:       id,
		Name:     utils.CleanField(firstAttr(attrs, "name", "fullName")),
		RegNo:    utils.CleanField(firstAttr(attrs, "reg_no", "regNo", "reg")),
		Team:     utils.CleanField(firstAttr(attrs, "team_name", "team", "teamName")),
		Email:    utils.CleanField(firstAttr(attrs, "email")),
		Position: utils.CleanField(firstAttr(attrs, "position", "role")),
	}
}

// Identity is the authenticated viewer state published by the session
// controller. Member is nil while unauthenticated; Loading is true while a
// session restore is still in flight.
type Identity struct {
	Member        *Member `json:"member,omitempty"`
	Authenticated bool    `json:"authenticated"`
	Loading       bool    `json:"loading"`
}
