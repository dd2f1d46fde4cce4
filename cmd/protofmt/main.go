/*
Protofmt parses proto3 source files and re-emits them in canonical form.

Usage:

	protofmt [flags] FILE...

The flags are:

	-w, --write
		Rewrite each input file in place instead of printing the formatted
		source to stdout.

	-I, --import-path DIR
		Add DIR to the list of directories searched for imports named by
		each file's import statements. May be given more than once; the
		directories are tried in the order given, then the importing
		file's own directory.

	--config FILE
		Read import paths and verbosity from a TOML config file instead of
		(or in addition to) flags. A flag always overrides the
		corresponding config file value.

	-v, --verbose
		Log each file parsed and each import resolved to stderr.

Every named file is parsed along with its transitive imports so that
import cycles and missing imports are reported before anything is
printed; only the named files themselves are then formatted and emitted.
*/
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/dekarrin/proto3c"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates the command was invoked incorrectly.
	ExitUsageError

	// ExitParseError indicates a source file failed to parse.
	ExitParseError

	// ExitWriteError indicates a formatted file could not be written back.
	ExitWriteError
)

// fileConfig is the shape of an optional protofmt.toml config file.
type fileConfig struct {
	ImportPaths []string `toml:"import_paths"`
	Verbose     bool     `toml:"verbose"`
}

var (
	returnCode int = ExitSuccess

	flagWrite       *bool     = pflag.BoolP("write", "w", false, "Rewrite each input file in place")
	flagImportPaths *[]string = pflag.StringArrayP("import-path", "I", nil, "Directory to search for imports; may be repeated")
	flagConfig      *string   = pflag.String("config", "", "Path to a protofmt.toml config file")
	flagVerbose     *bool     = pflag.BoolP("verbose", "v", false, "Log each file parsed and each import resolved")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	files := pflag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: no input files given")
		returnCode = ExitUsageError
		return
	}

	importPaths, verbose, err := resolveConfig(*flagConfig, *flagImportPaths, *flagVerbose, pflag.CommandLine.Changed("verbose"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}

	var logf func(string, ...any)
	if verbose {
		logf = log.Printf
	}

	result, err := proto3.ParseFilesVerbose(files, importPaths, logf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
		return
	}

	for _, f := range files {
		abs, absErr := filepath.Abs(f)
		if absErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", absErr.Error())
			returnCode = ExitUsageError
			return
		}

		parsed, ok := result.Files[abs]
		if !ok {
			fmt.Fprintf(os.Stderr, "ERROR: %s was not parsed\n", f)
			returnCode = ExitParseError
			return
		}

		if verbose {
			log.Printf("formatting %s", f)
		}

		out := parsed.Format()

		if *flagWrite {
			if writeErr := os.WriteFile(f, []byte(out), 0644); writeErr != nil {
				fmt.Fprintf(os.Stderr, "ERROR: writing %s: %s\n", f, writeErr.Error())
				returnCode = ExitWriteError
				return
			}
		} else {
			fmt.Print(out)
		}
	}
}

// resolveConfig merges a TOML config file (if configPath is non-empty)
// with flag values. Precedence is flag > config file > default.
// verboseSet reports whether --verbose was explicitly given on the command
// line, since flagVerbose's own zero value is indistinguishable from an
// explicit "--verbose=false" otherwise.
func resolveConfig(configPath string, flagImportPaths []string, flagVerbose, verboseSet bool) (importPaths []string, verbose bool, err error) {
	if configPath != "" {
		var cfg fileConfig
		if _, decodeErr := toml.DecodeFile(configPath, &cfg); decodeErr != nil {
			return nil, false, fmt.Errorf("reading config %s: %w", configPath, decodeErr)
		}
		importPaths = cfg.ImportPaths
		verbose = cfg.Verbose
	}

	if len(flagImportPaths) > 0 {
		importPaths = flagImportPaths
	}
	if verboseSet {
		verbose = flagVerbose
	}
	return importPaths, verbose, nil
}
