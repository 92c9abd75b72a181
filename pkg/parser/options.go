package parser

import (
	"fmt"
	"os"

	"github.com/raymyers/cparse/pkg/lexer"
	"gopkg.in/yaml.v3"
)

// Options configures a parse session.
type Options struct {
	// Filename is used in token positions and diagnostics.
	Filename string `yaml:"filename"`
	// TypedefNames are treated as typedef-names from the first token, in
	// addition to __builtin_va_list and va_list.
	TypedefNames []string `yaml:"typedef_names"`
	// Pack is the structure packing before any #pragma pack.
	Pack int `yaml:"pack"`
	// Model names the data model: lp64, llp64 or ilp32.
	Model string `yaml:"model"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Filename: "<stdin>",
		Pack:     lexer.DefaultPack,
		Model:    "lp64",
	}
}

// LoadOptions reads options from a YAML file. Fields missing from the file
// keep their defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if opts.Pack < 0 {
		return opts, fmt.Errorf("config %s: invalid pack %d", path, opts.Pack)
	}
	return opts, nil
}
