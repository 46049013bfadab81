package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/AdeelKamalMalik/template-autocomplete/autocomplete"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrInvalid           = errors.New("invalid config")
)

// Config describes where candidates come from and how the controller
// behaves. File paths are resolved against the config file directory.
type Config struct {
	Trigger        string   `toml:"trigger" yaml:"trigger" json:"trigger,omitempty" jsonschema:"description=Marker that opens a completion query,default=<>"`
	Builtin        *bool    `toml:"builtin" yaml:"builtin" json:"builtin,omitempty" jsonschema:"description=Include the built-in candidate list,default=true"`
	Candidates     []string `toml:"candidates" yaml:"candidates" json:"candidates,omitempty" jsonschema:"description=Inline candidates in display order"`
	CandidateFiles []string `toml:"candidate_files" yaml:"candidate_files" json:"candidate_files,omitempty" jsonschema:"description=Word files with one candidate per line"`
	Harvest        []string `toml:"harvest" yaml:"harvest" json:"harvest,omitempty" jsonschema:"description=Source files whose identifiers become candidates"`
	VerifySpan     bool     `toml:"verify_span" yaml:"verify_span" json:"verify_span,omitempty" jsonschema:"description=Check the buffer still holds the completion before removing it"`
	MaxVisible     int      `toml:"max_visible" yaml:"max_visible" json:"max_visible,omitempty" jsonschema:"description=Rows of the suggestion popup,minimum=1,default=8"`
}

const defaultMaxVisible = 8

func Default() Config {
	on := true
	return Config{
		Trigger:    autocomplete.DefaultMarker,
		Builtin:    &on,
		MaxVisible: defaultMaxVisible,
	}
}

// UseBuiltin reports whether the built-in candidates are included.
func (c Config) UseBuiltin() bool {
	return c.Builtin == nil || *c.Builtin
}

// Load reads a TOML or YAML file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	cfg.resolve(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) resolve(dir string) {
	for i, p := range c.CandidateFiles {
		if !filepath.IsAbs(p) {
			c.CandidateFiles[i] = filepath.Join(dir, p)
		}
	}
	for i, p := range c.Harvest {
		if !filepath.IsAbs(p) {
			c.Harvest[i] = filepath.Join(dir, p)
		}
	}
}

func (c Config) Validate() error {
	if c.Trigger == "" {
		return fmt.Errorf("%w: trigger must not be empty", ErrInvalid)
	}
	if strings.ContainsFunc(c.Trigger, unicode.IsSpace) {
		return fmt.Errorf("%w: trigger %q contains whitespace", ErrInvalid, c.Trigger)
	}
	if c.MaxVisible < 1 {
		return fmt.Errorf("%w: max_visible must be at least 1, got %d", ErrInvalid, c.MaxVisible)
	}
	return nil
}

// Schema returns the JSON schema of the config file.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&Config{})
	schema.Title = "tac configuration"
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return out, nil
}
