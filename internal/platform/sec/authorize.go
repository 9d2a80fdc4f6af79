// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Decision is the outcome of evaluating a role code against a requirement.
type Decision uint8

const (
	// Deny means the code is valid but holds none of the required roles.
	Deny Decision = iota

	// Allow means the requirement is satisfied.
	Allow

	// Malformed means the code failed validation. Callers treat it as a denial
	// but report it separately since it points at corrupt data, not a normal
	// unauthorized access.
	Malformed
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Authorize decides whether a principal holding code satisfies required.
//
// Rules, applied in order:
//   - an empty requirement allows (authentication alone suffices);
//   - an invalid code is [Malformed];
//   - the admin bit allows every requirement, including ones that do not name Admin;
//   - otherwise any one required role is enough.
//
// Authorize is pure and total. It is safe with attacker-controlled input.
func Authorize(code string, required []Role) Decision {
	if len(required) == 0 {
		return Allow
	}

	parsed, err := ParseRoleCode(code)
	if err != nil {
		return Malformed
	}

	return parsed.Satisfies(required)
}

// Satisfies evaluates an already decoded code. The empty requirement and the
// admin bypass apply exactly as in [Authorize].
func (c RoleCode) Satisfies(required []Role) Decision {
	if len(required) == 0 || c.IsAdmin() {
		return Allow
	}

	for _, role := range required {
		if c.Has(role) {
			return Allow
		}
	}
	return Deny
}
