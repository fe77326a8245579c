package access

import "encoding/json"

// Role is a user's resolved access level on a project. Values are ordered by
// precedence: a comparison r >= min answers "at least this much access".
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleClient
	RoleFreelancer
	RoleProjectManager
	RoleOwner
	RoleAdmin // platform-wide override, full access to every project
)

var roleNames = map[Role]string{
	RoleNone:           "none",
	RoleViewer:         "viewer",
	RoleClient:         "client",
	RoleFreelancer:     "freelancer",
	RoleProjectManager: "project_manager",
	RoleOwner:          "owner",
	RoleAdmin:          "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "none"
}

// MarshalJSON renders the role as its string name.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// AtLeast reports whether the role grants at least the given level of access.
func (r Role) AtLeast(min Role) bool {
	return r >= min && r != RoleNone
}

// grantRoles is the closed set of roles a membership row may carry.
// Owner and admin are never stored as grants; they derive from the project
// owner reference and the user profile flag.
var grantRoles = map[string]Role{
	"project_manager": RoleProjectManager,
	"freelancer":      RoleFreelancer,
	"client":          RoleClient,
	"viewer":          RoleViewer,
}

// ParseGrantRole maps a stored membership role string to a Role.
// Unknown strings resolve to RoleNone so a corrupt row fails closed.
func ParseGrantRole(s string) Role {
	if r, ok := grantRoles[s]; ok {
		return r
	}
	return RoleNone
}

// ParseRole maps any role name, including owner and admin, to a Role.
// Used for the min-role query parameter on access checks.
func ParseRole(s string) Role {
	switch s {
	case "owner":
		return RoleOwner
	case "admin":
		return RoleAdmin
	default:
		return ParseGrantRole(s)
	}
}

// ValidGrantRole reports whether s may be stored on a membership row.
func ValidGrantRole(s string) bool {
	_, ok := grantRoles[s]
	return ok
}
