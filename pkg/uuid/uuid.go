// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the identifiers used for account, course and request IDs.
//
// All of them are UUIDv7: the leading 48 bits are a millisecond timestamp, so
// new rows land at the right edge of the primary key B-tree and IDs sort by
// creation time.
package uuid

import "github.com/google/uuid"

// New returns a UUIDv7 in canonical form. It panics only when the system
// random source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether value is a UUID in any accepted form.
func Valid(value string) bool {
	return uuid.Validate(value) == nil
}
