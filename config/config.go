// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package config implements Organon configuration file parsing and validation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/organon-lang/organon/util"
)

// Config represents the configuration file that the organon CLI and REPL can
// be started with. Zero values defer to the command line defaults.
type Config struct {
	Format      string                     `json:"format,omitempty"`
	StartRule   string                     `json:"start_rule,omitempty"`
	MaxDepth    int                        `json:"max_depth,omitempty"`
	Memoize     bool                       `json:"memoize,omitempty"`
	HistoryPath *string                    `json:"history_path,omitempty"`
	LogLevel    string                     `json:"log_level,omitempty"`
	LogFormat   string                     `json:"log_format,omitempty"`
	Extra       map[string]json.RawMessage `json:"-"`
}

// ParseConfig returns a valid Config object with defaults injected. Unknown
// keys are preserved under Extra so future options in a config file do not
// break older binaries.
func ParseConfig(raw []byte) (*Config, error) {
	var result Config
	objValue := reflect.ValueOf(&result).Elem()
	knownFields := map[string]reflect.Value{}
	for i := 0; i != objValue.NumField(); i++ {
		jsonName := strings.Split(objValue.Type().Field(i).Tag.Get("json"), ",")[0]
		knownFields[jsonName] = objValue.Field(i)
	}

	if err := util.Unmarshal(raw, &result.Extra); err != nil {
		return nil, err
	}

	for key, chunk := range result.Extra {
		if field, found := knownFields[key]; found {
			if err := util.Unmarshal(chunk, field.Addr().Interface()); err != nil {
				return nil, err
			}
			delete(result.Extra, key)
		}
	}
	if len(result.Extra) == 0 {
		result.Extra = nil
	}
	return &result, result.validateAndInjectDefaults()
}

// Load reads and parses the configuration file at path. An empty path returns
// a Config holding only defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return ParseConfig(nil)
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseConfig(bs)
	if err != nil {
		return nil, fmt.Errorf("config error: %v: %v", path, err)
	}
	return c, nil
}

// GetHistoryPath returns the configured REPL history file, or
// $HOME/.organon_history if none is configured.
func (c Config) GetHistoryPath() (string, error) {
	if c.HistoryPath == nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".organon_history"), nil
	}
	return *c.HistoryPath, nil
}

// Clone creates a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := &Config{
		Format:    c.Format,
		StartRule: c.StartRule,
		MaxDepth:  c.MaxDepth,
		Memoize:   c.Memoize,
		LogLevel:  c.LogLevel,
		LogFormat: c.LogFormat,
	}

	if c.HistoryPath != nil {
		s := *c.HistoryPath
		clone.HistoryPath = &s
	}

	if c.Extra != nil {
		clone.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			if v != nil {
				clone.Extra[k] = make(json.RawMessage, len(v))
				copy(clone.Extra[k], v)
			}
		}
	}

	return clone
}

func (c *Config) validateAndInjectDefaults() error {
	if c.Format == "" {
		c.Format = defaultFormat
	}
	switch c.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid format: %v (must be pretty or json)", c.Format)
	}

	if c.StartRule == "" {
		c.StartRule = defaultStartRule
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("invalid max_depth: %v (must not be negative)", c.MaxDepth)
	}

	return nil
}

const (
	defaultFormat    = "pretty"
	defaultStartRule = "input"
)
