package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raymyers/cparse/pkg/cabs"
	"github.com/raymyers/cparse/pkg/ctypes"
	"github.com/raymyers/cparse/pkg/lexer"
	"github.com/raymyers/cparse/pkg/parser"
	"github.com/raymyers/cparse/pkg/preproc"
	"github.com/raymyers/cparse/pkg/typegen"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "0.1.0"

// Debug flags for dumping intermediate results
var (
	dParse  bool
	dTokens bool
	dTypes  bool
)

// Session flags
var (
	verbose      bool
	configFile   string
	modelName    string
	typedefNames []string
)

// Preprocessor options
var (
	useCPP        bool
	includePaths  []string
	defineFlags   []string
	undefineFlags []string
)

// ErrDiagnostics is returned when the input was read but did not parse or
// translate. The diagnostics themselves have already been printed.
var ErrDiagnostics = errors.New("compilation failed")

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Normalize CompCert-style single-dash flags to double-dash for pflag compatibility
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the flags that also accept a single dash.
var debugFlagNames = []string{"dparse", "dtokens", "dtypes"}

// normalizeFlags converts CompCert-style single-dash flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
	}
	return result
}

// wordSepNormalize accepts underscores in long flag names (--d_parse).
func wordSepNormalize(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", ""))
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cparse [flags] file",
		Short: "cparse parses C with GNU and MSVC extensions",
		Long: `cparse is a backtracking recursive descent parser for C. It
accepts C11 with the common GNU and MSVC extensions, records typedef
names as it goes so that declarations and expressions are told apart,
and builds a table of the types and scopes the file declares.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			return compile(cmd, args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.Flags().SetNormalizeFunc(wordSepNormalize)

	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump the parsed program as C")
	rootCmd.Flags().BoolVarP(&dTokens, "dtokens", "", false, "Dump the token array")
	rootCmd.Flags().BoolVarP(&dTypes, "dtypes", "", false, "Dump the type and scope tables as YAML")

	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Report progress on stderr")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Read session options from a YAML file")
	rootCmd.Flags().StringVar(&modelName, "model", "", "Data model: lp64, llp64 or ilp32")
	rootCmd.Flags().StringArrayVarP(&typedefNames, "typedef", "T", nil, "Treat NAME as a typedef name from the start")

	rootCmd.Flags().BoolVar(&useCPP, "cpp", false, "Run the system C preprocessor on .c inputs")
	rootCmd.Flags().StringArrayVarP(&includePaths, "include", "I", nil, "Add directory to include search path")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	rootCmd.Flags().StringArrayVarP(&undefineFlags, "undefine", "U", nil, "Undefine macro")

	return rootCmd
}

func logf(errOut io.Writer, format string, args ...any) {
	if verbose {
		fmt.Fprintf(errOut, "cparse: "+format+"\n", args...)
	}
}

// sessionOptions combines the config file, if any, with the command line.
func sessionOptions(filename string) (parser.Options, ctypes.Model, error) {
	opts := parser.DefaultOptions()
	if configFile != "" {
		var err error
		if opts, err = parser.LoadOptions(configFile); err != nil {
			return opts, ctypes.Model{}, err
		}
	}
	opts.Filename = filename
	opts.TypedefNames = append(opts.TypedefNames, typedefNames...)
	if modelName != "" {
		opts.Model = modelName
	}
	model, err := ctypes.ModelByName(opts.Model)
	return opts, model, err
}

func buildPreprocessorOptions() *preproc.Options {
	return &preproc.Options{
		IncludePaths: includePaths,
		Defines:      defineFlags,
		Undefines:    undefineFlags,
	}
}

// readSource reads filename, through the external preprocessor when --cpp
// is given.
func readSource(cmd *cobra.Command, filename string, errOut io.Writer) (string, error) {
	if useCPP {
		logf(errOut, "preprocessing %s...", filename)
		content, err := preproc.Source(cmd.Context(), filename, buildPreprocessorOptions())
		if err != nil {
			fmt.Fprintf(errOut, "cparse: preprocessing error: %v\n", err)
			return "", err
		}
		return content, nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "cparse: error reading %s: %v\n", filename, err)
		return "", err
	}
	return string(content), nil
}

func compile(cmd *cobra.Command, filename string, out, errOut io.Writer) error {
	opts, model, err := sessionOptions(filename)
	if err != nil {
		fmt.Fprintf(errOut, "cparse: %v\n", err)
		return err
	}
	content, err := readSource(cmd, filename, errOut)
	if err != nil {
		return err
	}

	logf(errOut, "lexing and parsing %s...", filename)
	res, err := parser.ParseString(content, opts)
	if dTokens && res.Tokens != nil {
		dumpTokens(out, res.Tokens)
	}
	if err != nil {
		res.Diag.WriteTo(out)
		return fmt.Errorf("%w: %w", ErrDiagnostics, err)
	}
	logf(errOut, "%d tokens, %d typedef names", len(res.Tokens), len(res.Typedefs))

	if dParse {
		if err := doParse(filename, res.Unit, out, errOut); err != nil {
			return err
		}
	}

	logf(errOut, "translating declarations...")
	tr := typegen.New(ctypes.NewContext(model), res.Diag)
	preproc.RecordMacros(tr.Context(), buildPreprocessorOptions())
	terr := tr.Translate(res.Unit)
	res.Diag.WriteTo(out)
	if terr != nil {
		return fmt.Errorf("%w: %w", ErrDiagnostics, terr)
	}

	if dTypes {
		if err := tr.Context().Dump(out); err != nil {
			fmt.Fprintf(errOut, "cparse: error writing types: %v\n", err)
			return err
		}
	}
	logf(errOut, "done.")
	return nil
}

// dumpTokens prints one token per line as file:line:column: text (type).
func dumpTokens(out io.Writer, toks []lexer.Token) {
	for _, tok := range toks {
		if tok.Type == lexer.TokenEOF {
			break
		}
		fmt.Fprintf(out, "%s: %s%s (%s)\n", tok.Pos, tok.Literal, tok.Fix, tok.Type)
	}
}

// doParse prints the program as C to out and to input.parsed.c.
func doParse(filename string, tu *cabs.TranslationUnit, out, errOut io.Writer) error {
	outputFilename := parsedOutputFilename(filename)
	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(errOut, "cparse: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	cabs.NewPrinter(outFile).PrintTranslationUnit(tu)
	cabs.NewPrinter(out).PrintTranslationUnit(tu)
	return nil
}

// parsedOutputFilename returns the output filename for -dparse
// input.c -> input.parsed.c (matching CompCert convention)
func parsedOutputFilename(filename string) string {
	for _, ext := range []string{".c", ".i"} {
		if strings.HasSuffix(filename, ext) {
			return filename[:len(filename)-len(ext)] + ".parsed.c"
		}
	}
	return filename + ".parsed.c"
}
