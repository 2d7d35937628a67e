// Package slug derives URL-safe identifiers from human-readable names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches whitespace runs (for replacement with dashes).
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Matches non-alphanumeric characters (except dashes).
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

// foldDiacritics decomposes to NFD and strips combining marks,
// so "Café" normalizes the same way as "Cafe".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts a human-readable name to a canonical slug.
// The slug is the lookup identity for libraries and notes; it does not
// guarantee uniqueness - that is enforced by the store.
//
// Normalization rules:
//  1. Fold diacritics, trim whitespace and lowercase
//  2. Replace whitespace runs with dashes
//  3. Remove non-alphanumeric characters (except dashes)
//  4. Collapse multiple dashes
//  5. Trim leading/trailing dashes
//
// Examples:
//
//	"Data Structures"  → "data-structures"
//	"  multi   word "  → "multi-word"
//	"Café Notes"       → "cafe-notes"
//	"🐉 Dragons!"      → "dragons"
//	"--leading--"      → "leading"
//
// Make is pure and idempotent: Make(Make(name)) == Make(name).
// A name that normalizes to the empty string is a validation failure
// at the caller, not handled here.
func Make(input string) string {
	// 1. Fold diacritics, trim and lowercase
	s, _, err := transform.String(foldDiacritics, input)
	if err != nil {
		// Fall back to the raw input; the character strip below
		// still produces a valid (if lossier) slug.
		s = input
	}
	s = strings.ToLower(strings.TrimSpace(s))

	// 2. Replace whitespace runs with dashes
	s = whitespaceRe.ReplaceAllString(s, "-")

	// 3. Remove non-alphanumeric (except dashes)
	s = nonAlphanumericRe.ReplaceAllString(s, "")

	// 4. Collapse multiple dashes
	s = multipleDashRe.ReplaceAllString(s, "-")

	// 5. Trim leading/trailing dashes
	return strings.Trim(s, "-")
}
