// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textfold provides Unicode-aware case-insensitive text matching.
//
// # Overview
//
// The client-side search filter must agree with the server's ILIKE matching
// for non-ASCII titles and content. Plain strings.ToLower misses Unicode
// special cases (dotless i, final sigma), so both sides of the comparison
// go through a case-folding caser instead.
package textfold

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder performs Unicode case folding, the canonical normalization for
// caseless comparison.
var folder = cases.Fold()

// Fold returns the case-folded form of s.
func Fold(s string) string {
	return folder.String(s)
}

// Contains reports whether needle occurs within haystack under case folding.
//
// An empty needle matches everything, mirroring strings.Contains.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
