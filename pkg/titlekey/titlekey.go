// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package titlekey derives a normalized comparison key from a book title.
//
// # Usage
//
// Duplicate detection falls back to an exact title match when neither ISBN
// nor work key identifies an existing record. Bibliographic titles arrive
// with inconsistent casing, accents, and spacing ("Les Misérables" vs
// "les miserables"), so comparison happens on a normalized key rather than
// the raw string. Title matching stays inherently fuzzy: two distinct works
// with identical titles will merge. That is accepted policy, not a bug.
package titlekey

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// multiSpace collapses runs of whitespace into a single space.
var multiSpace = regexp.MustCompile(`\s+`)

// From converts an arbitrary Unicode title into its comparison key.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Collapses internal whitespace and trims the ends.
func From(title string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, title)

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Clean up spacing
	result = multiSpace.ReplaceAllString(result, " ")
	result = strings.TrimSpace(result)

	return result
}

// Equal reports whether two titles normalize to the same key.
func Equal(a, b string) bool {
	return From(a) == From(b)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
