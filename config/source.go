package config

import (
	"os"
	"strings"

	"github.com/dctlabs/requestrouting/routing"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// Flags binds the three recognized routing keys to a pflag.FlagSet and
// satisfies routing.Source directly, so a CLI binary can build a
// Config straight from os.Args without an intermediate map.
type Flags struct {
	NewService string
	GetMode    modeFlag
	PostModes  postModesFlag
}

// Register adds the routing flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.NewService, "routing-new-service", "", "absolute URL of the new backend service")
	fs.Var(&f.GetMode, "routing-get", "routing mode for GET requests: RO, RN, or RP")
	fs.Var(&f.PostModes, "routing-post", "comma-separated Name|Mode pairs for POST request routing")
}

// Get implements routing.Source.
func (f *Flags) Get(key string) (string, bool) {
	switch key {
	case routing.KeyNewService:
		return f.NewService, f.NewService != ""
	case routing.KeyGET:
		return f.GetMode.String(), true
	case routing.KeyPOST:
		return f.PostModes.String(), true
	default:
		return "", false
	}
}

// EnvSource reads the three routing keys from environment variables,
// translating "Routing.NewService" to "ROUTING_NEWSERVICE" and so on.
type EnvSource struct{}

func (EnvSource) Get(key string) (string, bool) {
	envKey := "ROUTING_" + strings.ToUpper(strings.TrimPrefix(key, "Routing."))
	v, ok := os.LookupEnv(envKey)
	return v, ok
}

// yamlDoc mirrors the expected shape of a routing config file:
//
//	routing:
//	  newService: http://new-service.internal
//	  get: RN
//	  post: "Foo|RP, Bar|RN"
type yamlDoc struct {
	Routing struct {
		NewService string `yaml:"newService"`
		GET        string `yaml:"get"`
		POST       string `yaml:"post"`
	} `yaml:"routing"`
}

// FileSource reads the three routing keys out of a parsed YAML
// document via gopkg.in/yaml.v2.
type FileSource struct {
	doc yamlDoc
}

// LoadFile parses a YAML file into a FileSource.
func LoadFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return &FileSource{doc: doc}, nil
}

func (s *FileSource) Get(key string) (string, bool) {
	switch key {
	case routing.KeyNewService:
		return s.doc.Routing.NewService, s.doc.Routing.NewService != ""
	case routing.KeyGET:
		return s.doc.Routing.GET, true
	case routing.KeyPOST:
		return s.doc.Routing.POST, true
	default:
		return "", false
	}
}
