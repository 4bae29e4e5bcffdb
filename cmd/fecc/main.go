/*
Fecc drives the lex/parse/IR-emission pipeline over a grammar and lexer
definition of the caller's choosing.

It reads a plain-text grammar file and a TOML lexer pattern file, builds a
parser for the requested family, and then either analyzes a single source
file (or stdin) once or drops into an interactive readline session where
each line is analyzed independently.

Usage:

	fecc -g FILE -l FILE [flags] [source]

The flags are:

	-v, --version
		Give the current version of fecc and then exit.

	-g, --grammar FILE
		Plain-text grammar rules, in the "NT -> a b | c" form read by
		package grammar's Parse.

	-l, --lex FILE
		TOML lexer pattern file (see config.go for its shape).

	-p, --parser {lalr1,slr1,clr1,ll1}
		Parser family to generate. Defaults to lalr1.

	-i, --interactive
		Start a readline-backed REPL instead of analyzing a single source.

	-t, --trace
		Print the parser's step-by-step trace to stderr as it runs.
		The ll1 family traces its predict/match steps; the LR families
		trace their shift/reduce steps.

	--snapshot FILE
		After the parser is successfully built, write a grammar+parser-type
		snapshot to FILE and exit without analyzing anything.

	--from-snapshot FILE
		Load a previously-saved snapshot instead of -g/-p. -l is still
		required, since lexer patterns are not part of a snapshot.

If no source file is given and -i is not set, source is read from stdin.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/dekarrin/ictiobus"
	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/version"
	"github.com/dekarrin/ictiobus/types"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue building the lexer or parser.
	ExitInitError

	// ExitAnalysisError indicates an unsuccessful program execution due to a
	// lexical or syntax error encountered while analyzing source input.
	ExitAnalysisError
)

var (
	returnCode int = ExitSuccess

	flagVersion  = pflag.BoolP("version", "v", false, "Gives the version info")
	grammarFile  = pflag.StringP("grammar", "g", "", "Plain-text grammar rules file")
	lexFile      = pflag.StringP("lex", "l", "", "TOML lexer pattern file")
	parserFamily = pflag.StringP("parser", "p", "lalr1", "Parser family: lalr1, slr1, clr1, or ll1")
	interactive  = pflag.BoolP("interactive", "i", false, "Start an interactive readline session")
	trace        = pflag.BoolP("trace", "t", false, "Print the parser's step trace to stderr")
	snapshotOut  = pflag.String("snapshot", "", "Write a grammar+parser snapshot to this file and exit")
	snapshotIn   = pflag.String("from-snapshot", "", "Load the parser from a previously saved snapshot")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *lexFile == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -l/--lex is required")
		returnCode = ExitInitError
		return
	}

	lx, err := loadLexerFile(*lexFile, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	p, err := buildParser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if *snapshotOut != "" {
		returnCode = doSnapshot()
		return
	}

	if *trace {
		if traced, ok := p.(interface{ RegisterTraceListener(func(string)) }); ok {
			traced.RegisterTraceListener(func(s string) {
				fmt.Fprintln(os.Stderr, s)
			})
		}
	}

	fe := ictiobus.NewQuadFrontend(lx, p)

	if *interactive {
		returnCode = runRepl(fe)
		return
	}

	returnCode = runOnce(fe)
}

// buildParser builds a Parser either from --from-snapshot or from
// -g/--grammar and -p/--parser.
func buildParser() (ictiobus.Parser, error) {
	if *snapshotIn != "" {
		f, err := os.Open(*snapshotIn)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", *snapshotIn, err)
		}
		defer f.Close()
		return ictiobus.NewParserFromSnapshot(f)
	}

	if *grammarFile == "" {
		return nil, fmt.Errorf("-g/--grammar is required unless --from-snapshot is given")
	}

	data, err := os.ReadFile(*grammarFile)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", *grammarFile, err)
	}

	g, err := grammar.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%q: %w", *grammarFile, err)
	}

	return newParserFamily(g, *parserFamily)
}

func newParserFamily(g grammar.Grammar, family string) (ictiobus.Parser, error) {
	switch strings.ToLower(family) {
	case "lalr1", "lalr(1)":
		return ictiobus.NewLALR1Parser(g)
	case "slr1", "slr(1)":
		return ictiobus.NewSLRParser(g)
	case "clr1", "clr(1)":
		return ictiobus.NewCLRParser(g)
	case "ll1", "ll(1)":
		return ictiobus.NewLL1Parser(g)
	default:
		return nil, fmt.Errorf("unknown parser family %q", family)
	}
}

func parserTypeFor(family string) (types.ParserType, error) {
	switch strings.ToLower(family) {
	case "lalr1", "lalr(1)":
		return types.ParserLALR1, nil
	case "slr1", "slr(1)":
		return types.ParserSLR1, nil
	case "clr1", "clr(1)":
		return types.ParserCLR1, nil
	case "ll1", "ll(1)":
		return types.ParserLL1, nil
	default:
		return "", fmt.Errorf("unknown parser family %q", family)
	}
}

func doSnapshot() int {
	data, err := os.ReadFile(*grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %q: %s\n", *grammarFile, err.Error())
		return ExitInitError
	}
	g, err := grammar.Parse(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %q: %s\n", *grammarFile, err.Error())
		return ExitInitError
	}
	pt, err := parserTypeFor(*parserFamily)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitInitError
	}

	out, err := os.Create(*snapshotOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %q: %s\n", *snapshotOut, err.Error())
		return ExitInitError
	}
	defer out.Close()

	if err := ictiobus.SaveGrammarSnapshot(out, pt, g); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing snapshot: %s\n", err.Error())
		return ExitInitError
	}

	return ExitSuccess
}

func runOnce(fe *ictiobus.QuadFrontend) int {
	var src []byte
	var err error

	if pflag.NArg() > 0 {
		src, err = os.ReadFile(pflag.Arg(0))
	} else {
		src, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitInitError
	}

	res, err := fe.AnalyzeString(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitAnalysisError
	}

	fmt.Println(res.Quads.String())
	return ExitSuccess
}

func runRepl(fe *ictiobus.QuadFrontend) int {
	rl, err := readline.NewEx(&readline.Config{Prompt: "fecc> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create readline: %s\n", err.Error())
		return ExitInitError
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return ExitSuccess
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		res, err := fe.AnalyzeString(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			continue
		}
		fmt.Printf("run %s:\n%s\n", res.RunID, res.Quads.String())
	}
}
