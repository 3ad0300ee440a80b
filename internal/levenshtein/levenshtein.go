// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package levenshtein finds near matches to a string among a set of
// candidates. It backs the "did you mean" hints attached to undefined rule
// errors.
package levenshtein

import (
	"slices"

	"github.com/agnivade/levenshtein"
)

// Closest returns the candidates with the smallest edit distance to s, as
// long as that distance does not exceed maxDistance. Ties are all returned,
// sorted lexically.
func Closest(maxDistance int, s string, candidates []string) []string {
	closest := []string{}
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(s, c)
		switch {
		case d < maxDistance:
			closest = []string{c}
			maxDistance = d
		case d == maxDistance:
			closest = append(closest, c)
		}
	}
	slices.Sort(closest)
	return closest
}
