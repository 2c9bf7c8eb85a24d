package scope

import "strings"

const (
	RoleDCP          = "DCP"
	RoleACP          = "ACP"
	RolePI           = "PI"
	RoleInspector    = "Inspector"
	RoleSubInspector = "SubInspector"
)

// Identity is the (userId, role) pair supplied by the client. The role
// is trusted as supplied; there is no session verification in front of
// it.
type Identity struct {
	UserID int64
	Role   string
}

type contextKey string

// IdentityContextKey carries the request Identity through middleware.
const IdentityContextKey contextKey = "crimedesk.identity"

func KnownRole(role string) bool {
	switch strings.TrimSpace(role) {
	case RoleDCP, RoleACP, RolePI, RoleInspector, RoleSubInspector:
		return true
	}
	return false
}

// StationBound reports whether the role is tied to a single station.
func StationBound(role string) bool {
	switch strings.TrimSpace(role) {
	case RolePI, RoleInspector, RoleSubInspector:
		return true
	}
	return false
}
