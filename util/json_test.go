// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package util_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/organon-lang/organon/util"
)

func TestUnmarshalJSONUsesNumbers(t *testing.T) {
	var x any
	if err := util.UnmarshalJSON([]byte(`{"n": 100, "f": 1.5}`), &x); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	obj, ok := x.(map[string]any)
	if !ok {
		t.Fatalf("Expected object but got: %T", x)
	}
	if _, ok := obj["n"].(json.Number); !ok {
		t.Fatalf("Expected json.Number but got: %T", obj["n"])
	}
	if _, ok := obj["f"].(json.Number); !ok {
		t.Fatalf("Expected json.Number but got: %T", obj["f"])
	}
}

func TestUnmarshalJSONRejectsTrailingGarbage(t *testing.T) {
	cases := []struct {
		note  string
		input string
		ok    bool
	}{
		{"single value", `{"a": 1}`, true},
		{"trailing whitespace", `{"a": 1}` + "\n\t ", true},
		{"second value", `{"a": 1} {"b": 2}`, false},
		{"trailing token", `1 true`, false},
	}
	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			var x any
			err := util.UnmarshalJSON([]byte(tc.input), &x)
			if tc.ok && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("Expected error but got: %v", x)
			}
		})
	}
}

func TestUnmarshalYAMLAndJSON(t *testing.T) {
	cases := []struct {
		note     string
		input    string
		expected any
	}{
		{"json object", `{"a": [1], "b": "x"}`, map[string]any{"a": []any{json.Number("1")}, "b": "x"}},
		{"yaml object", "a:\n  - 1\nb: x\n", map[string]any{"a": []any{json.Number("1")}, "b": "x"}},
		{"yaml scalar", "7", json.Number("7")},
		{"bom prefix", "\xef\xbb\xbf{\"a\": 1}", map[string]any{"a": json.Number("1")}},
	}
	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			var x any
			if err := util.Unmarshal([]byte(tc.input), &x); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(x, tc.expected) {
				t.Fatalf("Expected %v but got: %v", tc.expected, x)
			}
		})
	}
}

func TestUnmarshalBadYAML(t *testing.T) {
	var x any
	err := util.Unmarshal([]byte("a: [unclosed"), &x)
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "error converting YAML to JSON") {
		t.Fatalf("Expected YAML conversion error but got: %v", err)
	}
}

func TestMustUnmarshalJSONPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Expected panic")
		}
	}()
	util.MustUnmarshalJSON([]byte(`{`))
}

func TestMustMarshalJSON(t *testing.T) {
	bs := util.MustMarshalJSON(map[string]any{"a": 1})
	if string(bs) != `{"a":1}` {
		t.Fatalf("Expected {\"a\":1} but got: %v", string(bs))
	}
}
