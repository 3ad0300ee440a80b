// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package grammar

// AttributesType enumerates the ways a rule's internal structure can be
// treated during matching.
type AttributesType int

const (
	// None marks an ordinary structural rule.
	None AttributesType = iota

	// Token marks a rule that matches atomically: it succeeds or fails as a
	// whole, and partial progress inside the rule is never surfaced to
	// callers, including in failure diagnostics.
	Token
)

func (t AttributesType) String() string {
	if t == Token {
		return "token"
	}
	return "structural"
}

// Attributes holds per-rule metadata consulted when the rule is matched
// through a reference.
type Attributes struct {
	Type AttributesType `json:"type"`
}
