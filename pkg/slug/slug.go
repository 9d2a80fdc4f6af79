// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns course titles into ASCII URL segments.
//
// # Example
//
//	slug.From("Algèbre linéaire 101") // "algebre-lineaire-101"
//
// The result only ever holds a-z, 0-9 and single inner hyphens, and is at most
// [MaxLength] bytes long. An input with no usable character yields "".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength matches the width of the slug column.
const MaxLength = 200

// stripMarks decomposes accented letters and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From converts title into a slug.
func From(title string) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		folded = title
	}

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		isWordChar := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isWordChar {
			pendingHyphen = builder.Len() > 0
			continue
		}
		if pendingHyphen {
			builder.WriteByte('-')
			pendingHyphen = false
		}
		builder.WriteRune(r)
	}

	return truncate(builder.String())
}

// truncate cuts at the last hyphen that fits, so no word is split in half
// unless a single word is longer than MaxLength.
func truncate(value string) string {
	if len(value) <= MaxLength {
		return value
	}
	cut := value[:MaxLength]
	if index := strings.LastIndexByte(cut, '-'); index > 0 {
		return cut[:index]
	}
	return cut
}
