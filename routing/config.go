package routing

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Configuration keys recognized by the Config Loader.
const (
	KeyNewService = "Routing.NewService"
	KeyGET        = "Routing.GET"
	KeyPOST       = "Routing.POST"
)

// Source is a read-only key/value configuration source. The interceptor
// takes this as an external collaborator; a concrete implementation
// (env vars, a YAML file, a pflag set) lives in the config package.
type Source interface {
	Get(key string) (value string, ok bool)
}

// Config is an immutable routing configuration snapshot. The zero
// value has Valid false, which Decide treats the same as any other
// invalid snapshot: every request defaults to RO.
type Config struct {
	NewServiceURL string
	GetMode       Mode
	// PostModes maps a lower-cased request-type name to its mode.
	PostModes map[string]Mode
	// Valid is false when any part of the configuration failed to
	// parse; a false Config forces RO for every request regardless
	// of the other fields (fail-safe per the Decision Engine).
	Valid bool
}

// Load parses a Config out of src. Malformed fields are logged and
// cause Valid to be false, but parsing continues so every defect in
// the snapshot is reported in one pass.
func Load(src Source) Config {
	cfg := Config{Valid: true, PostModes: map[string]Mode{}}

	if v, ok := src.Get(KeyNewService); ok {
		cfg.NewServiceURL = strings.TrimSpace(v)
	}

	getModeStr, _ := src.Get(KeyGET)
	getMode, err := ParseMode(getModeStr)
	if err != nil {
		logrus.Errorf("routing: %v", err)
		cfg.Valid = false
	}
	cfg.GetMode = getMode

	postStr, _ := src.Get(KeyPOST)
	if err := parsePostModes(postStr, cfg.PostModes); err != nil {
		cfg.Valid = false
	}

	if requiresNewService(cfg) && cfg.NewServiceURL == "" {
		logrus.Error("routing: Routing.NewService is required when any mode is RN or RP")
		cfg.Valid = false
	}

	if !cfg.Valid {
		logrus.Error("routing: configuration invalid, every request will default to RO")
	}

	return cfg
}

// parsePostModes parses the "Name1 | Mode1, Name2 | Mode2, ..." grammar.
// A malformed pair is logged and dropped rather than aborting the whole
// parse; duplicate names are last-write-wins via plain map assignment.
func parsePostModes(raw string, into map[string]Mode) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var invalid bool
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		parts := strings.Split(pair, "|")
		if len(parts) != 2 {
			logrus.Errorf("routing: malformed POST routing pair %q, expected Name|Mode", pair)
			invalid = true
			continue
		}

		name := strings.ToLower(strings.TrimSpace(parts[0]))
		modeStr := strings.TrimSpace(parts[1])
		if name == "" || modeStr == "" {
			logrus.Errorf("routing: malformed POST routing pair %q, expected Name|Mode", pair)
			invalid = true
			continue
		}

		mode, err := ParseMode(modeStr)
		if err != nil {
			logrus.Errorf("routing: %v in POST routing pair %q", err, pair)
			invalid = true
			continue
		}

		into[name] = mode
	}

	if invalid {
		return errInvalidPostModes
	}
	return nil
}

func requiresNewService(cfg Config) bool {
	if cfg.GetMode != RO {
		return true
	}
	for _, m := range cfg.PostModes {
		if m != RO {
			return true
		}
	}
	return false
}

var errInvalidPostModes = modeParseError("routing: one or more POST routing pairs are invalid")

type modeParseError string

func (e modeParseError) Error() string { return string(e) }
