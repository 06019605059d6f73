package nav

import "github.com/eduverse/lms/core/user"

// Decision is the outcome of the role authorization gate. Unauthenticated
// and Forbidden both redirect to the login route today, but the distinction
// is kept so callers can log and report them apart.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionUnauthenticated
	DecisionForbidden
	DecisionNotFound
)

func (d Decision) Allowed() bool { return d == DecisionAllow }

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	case DecisionNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// LoginPath is where every denial redirects.
const LoginPath = "/login"

// Authorize decides whether the current session may view a route guarded by
// the given role set. It is a pure function and must be re-evaluated on
// every navigation; the session can change between calls.
//
// Rules:
//   - empty role set: public, allowed unconditionally
//   - no session: unauthenticated
//   - session role in the set: allowed
//   - otherwise: forbidden
func Authorize(allowed []user.Role, usr user.User, ok bool) Decision {
	if len(allowed) == 0 {
		return DecisionAllow
	}
	if !ok || usr.IsZero() {
		return DecisionUnauthenticated
	}
	for _, role := range allowed {
		if usr.Role == role {
			return DecisionAllow
		}
	}
	return DecisionForbidden
}
