// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package logging

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/organon-lang/organon/logging"
)

func TestGetLevel(t *testing.T) {
	cases := []struct {
		input    string
		expected logging.Level
		wantErr  bool
	}{
		{"debug", logging.Debug, false},
		{"info", logging.Info, false},
		{"", logging.Info, false},
		{"warn", logging.Warn, false},
		{"error", logging.Error, false},
		{"ERROR", logging.Error, false},
		{"verbose", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			level, err := GetLevel(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if level != tc.expected {
				t.Fatalf("Expected level %v but got: %v", tc.expected, level)
			}
		})
	}
}

func TestPrettyFormatterNoFields(t *testing.T) {
	fmtr := prettyFormatter{}

	e := logrus.NewEntry(logrus.StandardLogger())
	e.Message = "test"
	e.Level = logrus.InfoLevel

	out, err := fmtr.Format(e)
	if err != nil {
		t.Fatalf("Unexpected error formatting log entry: %s", err.Error())
	}

	if !strings.HasPrefix(string(out), "[INFO] test\n") {
		t.Errorf("Expected log message with level prefix:\n%s", string(out))
	}
}

func TestPrettyFormatterBasicFields(t *testing.T) {
	fmtr := prettyFormatter{}

	e := logrus.WithFields(logrus.Fields{
		"number": 5,
		"string": "field_string",
		"nil":    nil,
	})

	e.Message = "test"
	e.Level = logrus.InfoLevel

	out, err := fmtr.Format(e)
	if err != nil {
		t.Fatalf("Unexpected error formatting log entry: %s", err.Error())
	}

	actualStr := string(out)

	if !strings.Contains(actualStr, "test\n") {
		t.Errorf("Expected log message to have the entry message '%s':\n%s", "test", actualStr)
	}

	if !strings.Contains(actualStr, "number = 5\n") {
		t.Errorf("Expected to have the number field in message:\n%s", actualStr)
	}

	if !strings.Contains(actualStr, "string = \"field_string\"\n") {
		t.Errorf("Expected to have the string field in message:\n%s", actualStr)
	}

	if !strings.Contains(actualStr, "nil = null\n") {
		t.Errorf("Expected to have the nil field in message:\n%s", actualStr)
	}

	// Fields print in sorted key order.
	if strings.Index(actualStr, "nil =") > strings.Index(actualStr, "number =") {
		t.Errorf("Expected fields in sorted order:\n%s", actualStr)
	}

	expectedLines := 6 // one for the message, 3 fields (one line each), and a trailing blank
	actualLines := len(strings.Split(actualStr, "\n"))
	if actualLines != expectedLines {
		t.Errorf("Expected %d lines in output, found %d\n Output: \n%s\n", expectedLines, actualLines, actualStr)
	}
}

func TestPrettyFormatterMultilineStringFields(t *testing.T) {
	fmtr := prettyFormatter{}

	mlStr := "(A ⊃ B),\nA\n.:. B"

	e := logrus.WithFields(logrus.Fields{
		"source": mlStr,
	})

	e.Message = "test"
	e.Level = logrus.InfoLevel

	out, err := fmtr.Format(e)
	if err != nil {
		t.Fatalf("Unexpected error formatting log entry: %s", err.Error())
	}

	actualStr := string(out)

	if !strings.Contains(actualStr, "source = |\n") {
		t.Errorf("Expected multi-line block marker in message:\n%s", actualStr)
	}

	for _, line := range strings.Split(mlStr, "\n") {
		// The lines get prefixed with padding but keep their real newlines.
		expectedStr := line + "\n"
		if !strings.Contains(actualStr, expectedStr) {
			t.Errorf("Expected to find line in message:\n\n%s\n\nactual:\n\n%s\n", expectedStr, actualStr)
		}
	}
}

func TestPrettyFormatterObjectFields(t *testing.T) {
	fmtr := prettyFormatter{}

	e := logrus.WithFields(logrus.Fields{
		"stats": map[string]any{"files": 2, "failed": 1},
	})

	e.Message = "test"
	e.Level = logrus.WarnLevel

	out, err := fmtr.Format(e)
	if err != nil {
		t.Fatalf("Unexpected error formatting log entry: %s", err.Error())
	}

	if !strings.Contains(string(out), `stats = {"failed":1,"files":2}`) {
		t.Errorf("Expected object field as single-line JSON:\n%s", string(out))
	}
}
