// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/organon-lang/organon/logging"
)

// GetLevel maps a command line log level string to a logging.Level. The empty
// string maps to Info.
func GetLevel(level string) (logging.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logging.Debug, nil
	case "", "info":
		return logging.Info, nil
	case "warn":
		return logging.Warn, nil
	case "error":
		return logging.Error, nil
	default:
		return logging.Debug, fmt.Errorf("invalid log level: %v", level)
	}
}

// GetFormatter returns the logrus formatter for a command line log format
// string. Unrecognized formats fall back to single-line JSON.
func GetFormatter(format, timestampFormat string) logrus.Formatter {
	switch format {
	case "text":
		return &prettyFormatter{}
	case "json-pretty":
		return &logrus.JSONFormatter{PrettyPrint: true, TimestampFormat: timestampFormat}
	default:
		return &logrus.JSONFormatter{TimestampFormat: timestampFormat}
	}
}

// prettyFormatter implements the logrus Formatter interface and provides a
// simpler, easier to read text formatter option than the default
// logrus.TextFormatter.
type prettyFormatter struct {
}

func (*prettyFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b := new(bytes.Buffer)

	fmt.Fprintf(b, "[%s] %s\n", strings.ToUpper(e.Level.String()), e.Message)

	// Sort the fields so repeated runs produce identical output.
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		val, err := prettyValue(e.Data[k])
		if err != nil {
			return nil, err
		}
		if strings.Contains(val, "\n") {
			fmt.Fprintf(b, "  %s = |\n      %s\n", k, strings.ReplaceAll(val, "\n", "\n      "))
		} else {
			fmt.Fprintf(b, "  %s = %s\n", k, val)
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// prettyValue renders multi-line strings as-is and everything else as JSON.
func prettyValue(v any) (string, error) {
	if s, ok := v.(string); ok && strings.Contains(s, "\n") {
		return s, nil
	}
	bs, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}
