package auth

import (
	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
)

// CanAccess reports whether the viewer may preview or download the letter for
// the target record: the viewer must be authenticated and the registration
// numbers must match exactly, case-sensitively. The same predicate gates both
// preview and download, and it is evaluated fresh on every action.
//
// Exact matching means a registration number stored in a different case than
// the login records locks its owner out. The upstream store keeps them
// uppercase, so this mirrors observed behavior rather than normalizing.
func CanAccess(viewer models.Identity, target *models.Member) bool {
	if !viewer.Authenticated || viewer.Member == nil || target == nil {
		return false
	}
	return viewer.Member.RegNo == target.RegNo
}
