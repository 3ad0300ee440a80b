// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package grammar

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestErrorsString(t *testing.T) {
	assertErrorString := func(t *testing.T, err error, exp string) {
		t.Helper()
		if err.Error() != exp {
			t.Fatalf("Expected %q but got %q", exp, err.Error())
		}
	}

	assertErrorString(t, Errors{}, "no error(s)")

	assertErrorString(t,
		Errors{NewError(ParseErr, nil, "singleton")},
		"1 error occurred: singleton")

	assertErrorString(t,
		Errors{
			NewError(UnrecognizedExprErr, NewLocation(nil, "", 1, 2), "first"),
			NewError(UnexpectedEOFErr, NewLocation(nil, "", 2, 3), "second"),
		},
		"2 errors occurred:\n1:2: first\n2:3: second")
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		note string
		err  *Error
		exp  string
	}{
		{
			"no location",
			NewError(ParseErr, nil, "boom"),
			"boom",
		},
		{
			"row and column",
			NewError(UnrecognizedExprErr, NewLocation(nil, "", 3, 9), "boom"),
			"3:9: boom",
		},
		{
			"file prefix",
			NewError(UnrecognizedExprErr, NewLocation(nil, "premises.logic", 3, 9), "boom"),
			"premises.logic:3: boom",
		},
		{
			"formatted message",
			NewError(ConfigErr, nil, "undefined rule: %s", "statement"),
			"undefined rule: statement",
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.exp {
				t.Fatalf("Expected %q but got %q", tc.exp, got)
			}
		})
	}
}

func TestErrorAccessors(t *testing.T) {
	err := NewError(UnexpectedEOFErr, NewLocation(nil, "", 4, 7), "cut short")
	if err.Kind() != UnexpectedEOFErr {
		t.Fatalf("Expected unexpected_eof but got %v", err.Kind())
	}
	if err.Line() != 4 || err.Col() != 7 {
		t.Fatalf("Expected 4:7 but got %d:%d", err.Line(), err.Col())
	}

	bare := NewError(ConfigErr, nil, "no position")
	if bare.Line() != 0 || bare.Col() != 0 {
		t.Fatalf("Expected zero position but got %d:%d", bare.Line(), bare.Col())
	}
}

func TestIsError(t *testing.T) {
	err := NewError(TrailingInputErr, nil, "leftover")

	if !IsError(TrailingInputErr, err) {
		t.Fatal("Expected code to match")
	}
	if IsError(ParseErr, err) {
		t.Fatal("Expected code mismatch")
	}
	if IsError(ParseErr, nil) {
		t.Fatal("Expected nil error not to match")
	}
	if IsError(ParseErr, fmt.Errorf("plain")) {
		t.Fatal("Expected foreign error not to match")
	}
}

func TestErrCodeString(t *testing.T) {
	tests := []struct {
		code ErrCode
		exp  string
	}{
		{ParseErr, "parse_error"},
		{UnrecognizedExprErr, "unrecognized_expr"},
		{UnexpectedEOFErr, "unexpected_eof"},
		{TrailingInputErr, "trailing_input"},
		{MaxRecursionErr, "max_recursion"},
		{ConfigErr, "config_error"},
		{ErrCode(99), "unknown_error_99"},
	}

	for _, tc := range tests {
		if got := tc.code.String(); got != tc.exp {
			t.Errorf("Expected %q but got %q", tc.exp, got)
		}
	}
}

func TestErrorMarshalJSON(t *testing.T) {
	err := NewError(UnrecognizedExprErr, NewLocation(nil, "premises.logic", 1, 2), "unrecognized expression")

	bs, e := json.Marshal(err)
	if e != nil {
		t.Fatal(e)
	}

	exp := `{"code":"unrecognized_expr","location":{"File":"premises.logic","Row":1,"Col":2},"message":"unrecognized expression"}`
	if string(bs) != exp {
		t.Fatalf("Expected %v but got %v", exp, string(bs))
	}
}

func TestLocationCompare(t *testing.T) {
	loc := func() *Location {
		return NewLocation([]byte("&"), "premises.logic", 1, 4)
	}

	tests := []struct {
		note string
		a    *Location
		b    *Location
		exp  bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs non-nil", nil, loc(), false},
		{"non-nil vs nil", loc(), nil, false},
		{"equal", loc(), loc(), true},
		{"different text", loc(), NewLocation([]byte("∨"), "premises.logic", 1, 4), false},
		{"different file", loc(), NewLocation([]byte("&"), "other.logic", 1, 4), false},
		{"different row", loc(), NewLocation([]byte("&"), "premises.logic", 2, 4), false},
		{"different col", loc(), NewLocation([]byte("&"), "premises.logic", 1, 5), false},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.exp {
				t.Fatalf("Expected %v but got %v", tc.exp, got)
			}
		})
	}
}

func TestLocationErrorf(t *testing.T) {
	loc := NewLocation(nil, "", 3, 9)

	err := loc.Errorf("bad %s", "input")
	if err.Error() != "3:9: bad input" {
		t.Fatalf("Expected location prefix but got %q", err.Error())
	}

	wrapped := loc.Wrapf(fmt.Errorf("cause"), "context")
	if wrapped.Error() != "3:9: context: cause" {
		t.Fatalf("Expected wrapped message but got %q", wrapped.Error())
	}
}

func TestLocationString(t *testing.T) {
	if got := NewLocation(nil, "premises.logic", 3, 9).String(); got != "premises.logic:3" {
		t.Fatalf("Expected file form but got %q", got)
	}
	if got := NewLocation(nil, "", 3, 9).String(); got != "3:9" {
		t.Fatalf("Expected row:col form but got %q", got)
	}
}
