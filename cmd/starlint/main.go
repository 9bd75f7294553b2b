// starlint - STAR/CIF checker and formatter
//
// Usage:
//
//	starlint check [--cif] [--strict] [file]   Report grammar errors and warnings
//	starlint fmt [--cif] [--indent=N] [file]   Re-write the file in canonical layout
//	starlint pairs [--cif] [file]              Print every tag/value pair
//	starlint version                           Print version info
//
// If no file is given, reads from stdin.
//
// check exits with status 2 on a fatal (lexical) error, 1 if any errors
// were reported and 0 otherwise.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shapestone/shape-star/pkg/star"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	// Parse flags and file argument
	grammar := star.STAR
	strict := false
	indent := star.DefaultWriterOptions().Indent
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case arg == "--cif":
			grammar = star.CIF
		case arg == "--strict":
			strict = true
		case strings.HasPrefix(arg, "--indent="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "--indent="))
			if err != nil {
				fatal("bad --indent: %v", err)
			}
			indent = n
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	// Only check and pairs read a stream; fmt maps the file itself
	input := func() (io.Reader, string) {
		r, name, err := openInput(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		return r, name
	}

	switch cmd {
	case "check":
		r, name := input()
		os.Exit(cmdCheck(r, name, grammar, strict))
	case "fmt":
		cmdFmt(fileArg, grammar, indent)
	case "pairs":
		r, _ := input()
		cmdPairs(r, grammar)
	case "version", "-v", "--version":
		fmt.Printf("starlint %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `starlint - STAR/CIF checker and formatter

Usage:
  starlint check [options] [file]    Report grammar errors and warnings
  starlint fmt [options] [file]      Re-write the file in canonical layout
  starlint pairs [options] [file]    Print every tag/value pair
  starlint version                   Print version info

Options:
  --cif          Use the flat CIF grammar (default: NMR-STAR)
  --strict       Count warnings as errors (check only)
  --indent=N     Spaces per nesting level (fmt only, default: 3)

If no file is given, reads from stdin.

Exit status of check: 2 on a fatal error, 1 if errors were reported, 0 otherwise.

Examples:
  starlint check bmr15000_3.str
  starlint fmt --cif < 1abc.cif > 1abc.tidy.cif
`)
}

// cmdCheck runs the grammar parser and prints diagnostics as file:line: level: message.
func cmdCheck(r io.Reader, name string, grammar star.Grammar, strict bool) int {
	report := func(level string, line int, msg string) {
		fmt.Fprintf(os.Stderr, "%s:%d: %s: %s\n", name, line, level, msg)
	}

	var strictErrors int
	errs := star.ErrorFuncs{
		Fatal: func(line, col int, msg string) {
			report("fatal", line, msg)
		},
		Err: func(line, col int, msg string) bool {
			report("error", line, msg)
			return false
		},
		Warn: func(line, col int, msg string) bool {
			report("warning", line, msg)
			if strict {
				strictErrors++
			}
			return false
		},
	}

	stats, err := star.Events(r, grammar, star.NopContentHandler{}, errs)
	if err != nil {
		fatal("%v", err)
	}

	switch {
	case stats.Fatal:
		return 2
	case stats.Errors+strictErrors > 0:
		return 1
	}
	fmt.Fprintf(os.Stderr, "%s: ok (%d saveframes, %d loops, %d warnings)\n",
		name, stats.Saveframes, stats.Loops, stats.Warnings)
	return 0
}

// openInput opens path for reading, or returns stdin when path is empty.
func openInput(path string) (io.Reader, string, error) {
	if path == "" {
		return os.Stdin, "<stdin>", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

// cmdFmt: parse -> canonical layout on stdout
func cmdFmt(path string, grammar star.Grammar, indent int) {
	out, err := format(path, os.Stdin, grammar, indent)
	if err != nil {
		fatal("%v", err)
	}
	os.Stdout.Write(out)
}

// format re-renders a document. A named file is memory-mapped;
// otherwise stdin is streamed.
func format(path string, stdin io.Reader, grammar star.Grammar, indent int) ([]byte, error) {
	ropts := star.DefaultReaderOptions()
	ropts.Grammar = grammar

	var doc *star.Document
	var err error
	if path != "" {
		doc, err = star.ParseFile(path, ropts)
	} else {
		doc, err = star.ParseReaderWithOptions(stdin, ropts)
	}
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	wopts := star.DefaultWriterOptions()
	wopts.Grammar = grammar
	wopts.Indent = indent
	out, err := star.RenderWithOptions(doc, wopts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return out, nil
}

// cmdPairs prints one tab-separated line per value.
func cmdPairs(r io.Reader, grammar star.Grammar) {
	opts := star.DefaultReaderOptions()
	opts.Grammar = grammar
	scanner := star.NewScannerWithOptions(r, opts)
	for scanner.Scan() {
		p := scanner.Pair()
		fmt.Printf("%d\t%s\t%s\t%s\n", p.Line, p.Saveframe, p.Tag, strconv.Quote(p.Value))
	}
	if err := scanner.Err(); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "starlint: "+format+"\n", args...)
	os.Exit(1)
}
