// Package preproc runs an external C preprocessor (cc -E) over source files.
// The parser only understands line markers and #pragma, so anything that
// still contains macros or includes has to go through here first.
package preproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/raymyers/cparse/pkg/ctypes"
	"modernc.org/token"
)

// ErrNoPreprocessor is returned when none of cc, gcc or clang is on PATH.
var ErrNoPreprocessor = errors.New("no C preprocessor found (tried: cc, gcc, clang)")

// Options configures the preprocessing step
type Options struct {
	IncludePaths []string // -I directories
	Defines      []string // -D macros, NAME or NAME=VALUE
	Undefines    []string // -U macros
	Command      string   // preprocessor to run instead of searching PATH
}

// Macro splits a -D argument into its name and value. A bare NAME defines
// it as 1, as cc does.
func Macro(def string) (name, value string) {
	name, value, ok := strings.Cut(def, "=")
	if !ok {
		value = "1"
	}
	return strings.TrimSpace(name), value
}

// RecordMacros adds the -D macros of opts to ctx.
func RecordMacros(ctx *ctypes.Context, opts *Options) {
	if opts == nil {
		return
	}
	pos := token.Position{Filename: "<command-line>"}
	for _, def := range opts.Defines {
		if name, value := Macro(def); name != "" {
			ctx.AddMacro(name, value, pos)
		}
	}
}

// Source returns the text of filename ready for the lexer. Files that
// NeedsPreprocessing rejects are read verbatim; the rest are run through
// the external preprocessor.
func Source(ctx context.Context, filename string, opts *Options) (string, error) {
	if !NeedsPreprocessing(filename) {
		data, err := os.ReadFile(filename)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return Preprocess(ctx, filename, opts)
}

// Preprocess runs the system C preprocessor on filename and returns its
// output, line markers included.
func Preprocess(ctx context.Context, filename string, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}
	cppCmd := opts.Command
	if cppCmd == "" {
		cppCmd = findPreprocessor()
	}
	if cppCmd == "" {
		return "", ErrNoPreprocessor
	}

	abs, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, cppCmd, append(Args(opts), abs)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// relative includes resolve from the file's directory
	cmd.Dir = filepath.Dir(abs)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("preprocessing %s failed: %w\n%s", filename, err, stderr.String())
	}
	return stdout.String(), nil
}

// Args builds the preprocessor command line for opts, without the input
// file.
func Args(opts *Options) []string {
	args := []string{"-E"}
	for _, path := range opts.IncludePaths {
		args = append(args, "-I"+path)
	}
	for _, def := range opts.Defines {
		args = append(args, "-D"+def)
	}
	for _, name := range opts.Undefines {
		args = append(args, "-U"+name)
	}
	return args
}

// NeedsPreprocessing returns true if the file might need preprocessing.
// Files ending in .i are considered already preprocessed.
func NeedsPreprocessing(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) != ".i"
}

func findPreprocessor() string {
	for _, cmd := range []string{"cc", "gcc", "clang"} {
		if path, err := exec.LookPath(cmd); err == nil {
			return path
		}
	}
	return ""
}
