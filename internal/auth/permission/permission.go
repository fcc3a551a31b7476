package permission

import "errors"

var ErrDenied = errors.New("permission denied")

type Privilege uint8

const (
	Guest     Privilege = 0   // No valid credential presented
	Moderator Privilege = 10  // Content editing only
	Admin     Privilege = 50  // Content editing, same as moderator today
	Master    Privilege = 100 // User management, password changes, role permission editing
)

func (p Privilege) String() string {
	switch p {
	case Guest:
		return "guest"
	case Moderator:
		return "moderator"
	case Admin:
		return "admin"
	case Master:
		return "master"
	default:
		return "unknown"
	}
}

// FromString maps a stored or token-supplied role name onto a privilege
// level. Unrecognized names resolve to Guest so they never pass a gate.
func FromString(role string) Privilege {
	switch role {
	case "master":
		return Master
	case "admin":
		return Admin
	case "moderator":
		return Moderator
	default:
		return Guest
	}
}
