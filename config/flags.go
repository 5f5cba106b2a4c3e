// Package config provides concrete, ambient implementations of
// routing.Source: flags for a CLI binary, environment variables, and a
// YAML file. The parsing shapes here -- a single-mode flag limited to
// RO/RN/RP and a comma/pipe-separated pair flag -- both implement the
// flag.Value/UnmarshalYAML pattern so the same value can come from
// either a CLI flag or a YAML document.
package config

import (
	"fmt"
	"strings"

	"github.com/dctlabs/requestrouting/routing"
)

// postModesFlag parses the "Name1 | Mode1, Name2 | Mode2" grammar as a
// pflag.Value, validating every pair on Set so a malformed flag value
// fails fast at parse time instead of at first routing decision.
type postModesFlag struct {
	raw string
}

func (f *postModesFlag) String() string {
	if f == nil {
		return ""
	}
	return f.raw
}

func (f *postModesFlag) Set(value string) error {
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, "|")
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return fmt.Errorf("invalid routing POST pair, expected Name|Mode but got: %q", pair)
		}
	}
	f.raw = value
	return nil
}

func (f *postModesFlag) Type() string { return "routingPostModes" }

func (f *postModesFlag) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}
	return f.Set(value)
}

// modeFlag restricts its value to the RO/RN/RP vocabulary.
type modeFlag struct {
	raw string
}

func (f *modeFlag) String() string {
	if f == nil {
		return ""
	}
	return f.raw
}

func (f *modeFlag) Set(value string) error {
	if _, err := routing.ParseMode(value); err != nil {
		return err
	}
	f.raw = value
	return nil
}

func (f *modeFlag) Type() string { return "routingMode" }

func (f *modeFlag) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}
	return f.Set(value)
}
