// Package proto3 parses proto3 source into a typed syntax tree and
// renders that tree back to canonical source text.
package proto3

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dekarrin/proto3c/ast"
	"github.com/dekarrin/proto3c/internal/protoerr"
	"github.com/dekarrin/proto3c/internal/protogrammar"
	"github.com/dekarrin/proto3c/lex"
	"github.com/dekarrin/proto3c/parser"
	"github.com/dekarrin/proto3c/table"
)

// MaxImportDepth bounds how deep an import chain may run before
// ParseFiles gives up, mirroring the recursion guard tqw's manifest
// loader uses for included files.
const MaxImportDepth = 32

var (
	tableOnce  sync.Once
	parseTable *table.ParseTable
	tableErr   error
)

// parseTableSingleton builds the proto3 grammar and its LALR(1) parse
// table once per process; both are immutable after construction and safe
// to share across concurrent ParseSource calls.
func parseTableSingleton() (*table.ParseTable, error) {
	tableOnce.Do(func() {
		g, err := protogrammar.Build()
		if err != nil {
			tableErr = fmt.Errorf("building proto3 grammar: %w", err)
			return
		}
		t, err := table.Build(g)
		if err != nil {
			tableErr = fmt.Errorf("building proto3 parse table: %w", err)
			return
		}
		parseTable = t
	})
	return parseTable, tableErr
}

// ParseSource parses the proto3 source text of a single file into its
// typed syntax tree. file names the source for error spans; it need not
// refer to an actual path on disk.
func ParseSource(text, file string) (*ast.File, error) {
	tbl, err := parseTableSingleton()
	if err != nil {
		return nil, err
	}

	tokens, err := lex.Tokenize(text, file)
	if err != nil {
		return nil, err
	}

	v, err := parser.Parse(tbl, tokens)
	if err != nil {
		return nil, err
	}

	f, ok := v.(*ast.File)
	if !ok {
		protoerr.Violatef("parse of FILE production did not yield an *ast.File, got %T", v)
	}

	// The grammar requires a syntax declaration to be present and well
	// formed (FILE -> SYNTAX_DECL TOP_LEVEL_DEFS); a file missing one
	// entirely never reaches here; its absence instead surfaces as the
	// ordinary "unexpected token" parse error for whatever token appears
	// first, hinting "syntax". What remains a semantic check is whether
	// the declared value is actually "proto3".
	if f.Syntax != "proto3" {
		return nil, protoerr.AtSpanf(f.SyntaxSpan, "unsupported syntax %q", f.Syntax).
			WithHint(`only "proto3" syntax is supported`)
	}

	return f, nil
}

// Result is the output of ParseFiles: every file reached starting from
// the given entrypoints, keyed by absolute path.
type Result struct {
	Files map[string]*ast.File
}

// ParseFiles parses each of entrypoints and, depth-first, every file they
// transitively import. An import is resolved by trying each directory in
// importPaths in order, then the importing file's own directory. A file
// already parsed (by absolute path) is not parsed again.
func ParseFiles(entrypoints []string, importPaths []string) (*Result, error) {
	return ParseFilesVerbose(entrypoints, importPaths, nil)
}

// ParseFilesVerbose behaves exactly like ParseFiles, but calls logf (if
// non-nil) once for each file as it begins parsing and once for each
// import as it resolves, matching protofmt's --verbose tracing. A nil
// logf is equivalent to calling ParseFiles directly.
func ParseFilesVerbose(entrypoints []string, importPaths []string, logf func(format string, args ...any)) (*Result, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	res := &Result{Files: map[string]*ast.File{}}
	visiting := map[string]bool{}

	for _, ep := range entrypoints {
		abs, err := filepath.Abs(ep)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", ep, err)
		}
		if err := parseFileInto(res, visiting, abs, importPaths, 0, logf); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func parseFileInto(res *Result, visiting map[string]bool, absPath string, importPaths []string, depth int, logf func(format string, args ...any)) error {
	if _, done := res.Files[absPath]; done {
		return nil
	}
	if visiting[absPath] {
		return fmt.Errorf("import cycle detected at %s", absPath)
	}
	if depth > MaxImportDepth {
		return fmt.Errorf("import chain exceeds maximum depth of %d, at %s", MaxImportDepth, absPath)
	}

	logf("parsing %s", absPath)

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", absPath, err)
	}

	f, err := ParseSource(string(data), absPath)
	if err != nil {
		return err
	}

	visiting[absPath] = true
	defer delete(visiting, absPath)

	dir := filepath.Dir(absPath)
	for _, im := range f.Imports {
		resolved, err := resolveImport(im.Path, dir, importPaths)
		if err != nil {
			return protoerr.AtSpanf(im.Span, "import %q not found", im.Path).WithWrapped(err)
		}
		logf("resolved import %q to %s", im.Path, resolved)
		if err := parseFileInto(res, visiting, resolved, importPaths, depth+1, logf); err != nil {
			return err
		}
	}
	res.Files[absPath] = f
	return nil
}

// resolveImport finds the absolute path an import path refers to: each
// directory in importPaths is tried in order, then fromDir (the
// importing file's own directory), matching protoc's own search order.
func resolveImport(importPath, fromDir string, importPaths []string) (string, error) {
	candidates := make([]string, 0, len(importPaths)+1)
	candidates = append(candidates, importPaths...)
	candidates = append(candidates, fromDir)

	for _, dir := range candidates {
		candidate := filepath.Join(dir, importPath)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", err
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("not found in any import path or alongside importing file")
}
