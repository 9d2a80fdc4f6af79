// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize canonicalizes user-supplied identifiers.
//
// # Usage
//
// Emails are the token subject and the lookup key for accounts, so the same
// address typed two ways ("Jane@Example.com", full-width letters, trailing
// spaces) must map to one value before it is stored or compared.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Email returns the canonical form of an email address.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFKC (compatibility forms such as full-width letters collapse).
// 3. Applies Unicode case folding.
func Email(raw string) string {
	trimmed := strings.TrimSpace(raw)
	composed := norm.NFKC.String(trimmed)
	return folder.String(composed)
}
