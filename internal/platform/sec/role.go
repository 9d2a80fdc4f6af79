// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// # Role Set

// Role is a capability tag held by a principal.
//
// # Ordering
//
// The integer value is the character position of the role inside a [RoleCode].
// New roles must be appended. Reordering or removing a role invalidates every
// stored role string and every issued token.
type Role uint8

const (
	// Consumes published courses
	RoleLearner Role = iota

	// Runs courses and follows learners
	RoleTeacher

	// Designs course material and modules
	RoleConceptor

	// Unrestricted system access (superuser bypass)
	RoleAdmin
)

// Roles lists every defined role in position order.
var Roles = []Role{RoleLearner, RoleTeacher, RoleConceptor, RoleAdmin}

// RoleCodeLength is the width of the wire representation. One character per role.
const RoleCodeLength = 4

var roleNames = [...]string{"learner", "teacher", "conceptor", "admin"}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return int(r) < len(Roles)
}

// String returns the lowercase role name.
func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("role(%d)", uint8(r))
	}
	return roleNames[r]
}

// ParseRole resolves a role from its name (case-insensitive).
func ParseRole(name string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for index, roleName := range roleNames {
		if roleName == normalized {
			return Role(index), nil
		}
	}
	return 0, fmt.Errorf("sec: unknown role %q", name)
}

// # Role Code

// RoleCode is the set of roles a principal holds, stored as a bitmask.
//
// Bit i is set when the principal holds Role(i). The only external form is
// the fixed-width string produced by [RoleCode.String] (e.g. "1000" for a
// learner, "0001" for an admin), which is what tokens and user rows carry.
// A RoleCode is a value: mutators return a new code.
type RoleCode uint8

// allRolesMask covers every defined role bit.
const allRolesMask RoleCode = 1<<RoleCodeLength - 1

// DefaultRoleCode is assigned to self-registered accounts.
var DefaultRoleCode = NewRoleCode(RoleLearner)

// NewRoleCode builds a code holding the given roles. Undefined roles are ignored.
func NewRoleCode(roles ...Role) RoleCode {
	var code RoleCode
	for _, role := range roles {
		code = code.With(role)
	}
	return code
}

// ValidRoleCode reports whether code is a well-formed wire role string.
//
// It is the only gate before any position is read: the length must equal the
// number of defined roles and every character must be '0' or '1'.
func ValidRoleCode(code string) bool {
	if len(code) != RoleCodeLength {
		return false
	}
	for index := 0; index < len(code); index++ {
		if code[index] != '0' && code[index] != '1' {
			return false
		}
	}
	return true
}

// ParseRoleCode decodes a wire role string. Malformed input is rejected with
// [ErrMalformed], never coerced.
func ParseRoleCode(code string) (RoleCode, error) {
	if !ValidRoleCode(code) {
		return 0, fmt.Errorf("%w: role code %q", ErrMalformed, code)
	}

	var parsed RoleCode
	for index := 0; index < len(code); index++ {
		if code[index] == '1' {
			parsed |= 1 << index
		}
	}
	return parsed, nil
}

// Has reports whether the code holds role.
func (c RoleCode) Has(role Role) bool {
	if !role.Valid() {
		return false
	}
	return c&(1<<role) != 0
}

// IsAdmin reports whether the superuser bit is set.
func (c RoleCode) IsAdmin() bool {
	return c.Has(RoleAdmin)
}

// With returns a copy of the code that also holds role.
func (c RoleCode) With(role Role) RoleCode {
	if !role.Valid() {
		return c
	}
	return c | 1<<role
}

// Without returns a copy of the code that no longer holds role.
func (c RoleCode) Without(role Role) RoleCode {
	if !role.Valid() {
		return c
	}
	return c &^ (1 << role)
}

// Roles lists the roles held, in position order.
func (c RoleCode) Roles() []Role {
	held := make([]Role, 0, len(Roles))
	for _, role := range Roles {
		if c.Has(role) {
			held = append(held, role)
		}
	}
	return held
}

// String renders the fixed-width wire form.
func (c RoleCode) String() string {
	var builder strings.Builder
	builder.Grow(RoleCodeLength)
	for _, role := range Roles {
		if c.Has(role) {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

// # Wire & Storage Boundary

// MarshalText implements [encoding.TextMarshaler].
func (c RoleCode) MarshalText() ([]byte, error) {
	if c&^allRolesMask != 0 {
		return nil, fmt.Errorf("%w: role mask %08b", ErrMalformed, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *RoleCode) UnmarshalText(text []byte) error {
	parsed, err := ParseRoleCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements [driver.Valuer]. Role codes are stored as varchar(4).
func (c RoleCode) Value() (driver.Value, error) {
	return c.String(), nil
}

// Scan implements [sql.Scanner]. A stored value that is not a valid role
// string is reported as an error instead of being read as "no roles".
func (c *RoleCode) Scan(source any) error {
	switch value := source.(type) {
	case string:
		return c.UnmarshalText([]byte(value))
	case []byte:
		return c.UnmarshalText(value)
	case nil:
		return fmt.Errorf("%w: role code is NULL", ErrMalformed)
	default:
		return fmt.Errorf("sec: cannot scan %T into RoleCode", source)
	}
}
