// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize canonicalizes user-supplied identity strings before they
// are compared or persisted.
//
// # Usage
//
// Usernames are unique case-insensitively. Storing them in a single canonical
// form lets the database enforce uniqueness with a plain UNIQUE index.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Username converts a raw username into its canonical stored form.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFKC (full-width and compatibility forms collapse).
// 3. Lowercases using language-neutral rules.
func Username(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// A [cases.Caser] is stateful, so each call builds its own.
	composed := norm.NFKC.String(trimmed)
	return cases.Lower(language.Und).String(composed)
}

// Text trims whitespace and composes the string to NFC.
func Text(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// Email trims whitespace and lowercases the address. Emails are unique
// case-insensitively, like usernames.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
