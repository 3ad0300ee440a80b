// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package grammar

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Errors represents a series of errors encountered during interpretation.
type Errors []*Error

func (e Errors) Error() string {

	if len(e) == 0 {
		return "no error(s)"
	}

	if len(e) == 1 {
		return fmt.Sprintf("1 error occurred: %v", e[0].Error())
	}

	s := []string{}
	for _, err := range e {
		s = append(s, err.Error())
	}

	return fmt.Sprintf("%d errors occurred:\n%s", len(e), strings.Join(s, "\n"))
}

// ErrCode defines the types of errors returned while building a grammar or
// interpreting input against it.
type ErrCode int

const (
	// ParseErr indicates an unclassified parse error occurred.
	ParseErr = iota

	// UnrecognizedExprErr indicates no rule attempted at the reported
	// position could recognize the input there.
	UnrecognizedExprErr = iota

	// UnexpectedEOFErr indicates the input ended while a rule still required
	// more characters.
	UnexpectedEOFErr = iota

	// TrailingInputErr indicates the start rule matched a prefix of the input
	// but unconsumed characters remain.
	TrailingInputErr = iota

	// MaxRecursionErr indicates rule evaluation exceeded the interpreter's
	// recursion depth limit.
	MaxRecursionErr = iota

	// ConfigErr indicates the grammar itself is invalid, e.g. a rule body
	// references a rule that was never defined.
	ConfigErr = iota
)

func (c ErrCode) String() string {
	switch c {
	case ParseErr:
		return "parse_error"
	case UnrecognizedExprErr:
		return "unrecognized_expr"
	case UnexpectedEOFErr:
		return "unexpected_eof"
	case TrailingInputErr:
		return "trailing_input"
	case MaxRecursionErr:
		return "max_recursion"
	case ConfigErr:
		return "config_error"
	}
	return fmt.Sprintf("unknown_error_%d", int(c))
}

// MarshalJSON encodes the code as its string name.
func (c ErrCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// IsError returns true if err is a grammar error with code.
func IsError(code ErrCode, err error) bool {
	if err, ok := err.(*Error); ok {
		return err.Code == code
	}
	return false
}

// Error represents a single error caught during grammar construction or
// interpretation.
type Error struct {
	Code     ErrCode   `json:"code"`
	Location *Location `json:"location"`
	Message  string    `json:"message"`
}

func (e *Error) Error() string {

	if e.Location == nil {
		return e.Message
	}

	prefix := ""

	if len(e.Location.File) > 0 {
		prefix += e.Location.File + ":" + fmt.Sprint(e.Location.Row)
	} else {
		prefix += fmt.Sprint(e.Location.Row) + ":" + fmt.Sprint(e.Location.Col)
	}

	return fmt.Sprintf("%v: %v", prefix, e.Message)
}

// Kind returns the code classifying this error.
func (e *Error) Kind() ErrCode {
	return e.Code
}

// Line returns the 1-based line on which the error occurred, or 0 if the
// error carries no location.
func (e *Error) Line() int {
	if e.Location == nil {
		return 0
	}
	return e.Location.Row
}

// Col returns the 1-based column at which the error occurred, or 0 if the
// error carries no location.
func (e *Error) Col() int {
	if e.Location == nil {
		return 0
	}
	return e.Location.Col
}

// NewError returns a new Error object.
func NewError(code ErrCode, loc *Location, f string, a ...any) *Error {
	return &Error{
		Code:     code,
		Location: loc,
		Message:  fmt.Sprintf(f, a...),
	}
}
