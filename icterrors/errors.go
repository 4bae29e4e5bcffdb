// Package icterrors holds the error taxonomy shared by every stage of the
// front-end pipeline: regex parsing, NFA/DFA construction, lexing, grammar
// loading, LR table construction, and parsing. Each error kind wraps a plain
// message with the positional context needed to report it to an end user,
// and all of them support errors.Is/errors.As via Unwrap.
package icterrors

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/types"
)

// RegexError is a malformed-pattern error surfaced while compiling a single
// lexical rule's regex (unbalanced group, bad escape, dangling operator,
// empty alternative). It aborts that rule only; the lexer build continues
// with the remaining rules.
type RegexError struct {
	Pattern string
	Pos     int
	Msg     string
	cause   error
}

func NewRegexError(pattern string, pos int, msg string) *RegexError {
	return &RegexError{Pattern: pattern, Pos: pos, Msg: msg}
}

func NewRegexErrorWrap(pattern string, pos int, msg string, cause error) *RegexError {
	return &RegexError{Pattern: pattern, Pos: pos, Msg: msg, cause: cause}
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("regex error in %q at position %d: %s", e.Pattern, e.Pos, e.Msg)
}

func (e *RegexError) FullMessage() string {
	return e.Error()
}

func (e *RegexError) Unwrap() error {
	return e.cause
}

// LexError records a position in source text from which the lexer's DFA had
// no valid transition at all; it is recovered from by skipping one character
// and continuing, so it is informational rather than fatal.
type LexError struct {
	Line      int
	Col       int
	BadChar   rune
	SourceLn  string
	Suggested string
}

func NewLexError(line, col int, bad rune, sourceLine string) *LexError {
	return &LexError{Line: line, Col: col, BadChar: bad, SourceLn: sourceLine}
}

func (e *LexError) Error() string {
	msg := fmt.Sprintf("%d:%d: unrecognized character %q", e.Line, e.Col, e.BadChar)
	if e.Suggested != "" {
		msg += fmt.Sprintf(" (expected %s)", e.Suggested)
	}
	return msg
}

func (e *LexError) FullMessage() string {
	if e.SourceLn == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s\n%s\n%s^", e.Error(), e.SourceLn, pad(e.Col-1))
}

func (e *LexError) Unwrap() error { return nil }

func pad(n int) string {
	if n < 0 {
		n = 0
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// GrammarError reports a malformed LR item string passed to
// grammar.ParseLR0Item or grammar.ParseLR1Item. grammar.Parse does not return
// it: malformed grammar text is reported there as a plain error, and a symbol
// that heads no rule is taken as a terminal rather than rejected.
type GrammarError struct {
	Line int
	Msg  string
}

func NewGrammarError(line int, msg string) *GrammarError {
	return &GrammarError{Line: line, Msg: msg}
}

func (e *GrammarError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("grammar error on line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("grammar error: %s", e.Msg)
}

func (e *GrammarError) FullMessage() string { return e.Error() }
func (e *GrammarError) Unwrap() error       { return nil }

// LRConflictKind distinguishes the two kinds of ACTION-table conflict.
type LRConflictKind int

const (
	ConflictShiftReduce LRConflictKind = iota
	ConflictReduceReduce
)

func (k LRConflictKind) String() string {
	if k == ConflictShiftReduce {
		return "shift-reduce"
	}
	return "reduce-reduce"
}

// LRConflict describes an ACTION-table cell that received more than one
// candidate entry during table construction. The table constructors in parse
// do not return it: they report a conflict as a plain error and produce no
// table, except that an SLR(1) table built with ambiguity allowed keeps the
// shift entry on a shift-reduce conflict and lists the conflict as a warning
// string. Reduce-reduce conflicts are never resolved.
type LRConflict struct {
	State    int
	Symbol   string
	Kind     LRConflictKind
	Existing string
	New      string
}

func NewLRConflict(state int, symbol string, kind LRConflictKind, existing, newEntry string) *LRConflict {
	return &LRConflict{State: state, Symbol: symbol, Kind: kind, Existing: existing, New: newEntry}
}

func (e *LRConflict) Error() string {
	return fmt.Sprintf("%s conflict in state %d on %q: %s vs %s", e.Kind, e.State, e.Symbol, e.Existing, e.New)
}

func (e *LRConflict) FullMessage() string { return e.Error() }
func (e *LRConflict) Unwrap() error       { return nil }

// SyntaxError is a parse-time error: the LR driver found no valid ACTION
// entry for the current state/lookahead pair. It carries the offending
// token so it can be reported with full source-position context and is the
// error surfaced by panic-mode recovery when recovery itself fails.
type SyntaxError struct {
	msg      string
	tok      types.Token
	Expected []string
}

// NewSyntaxErrorFromToken builds a SyntaxError describing msg and attributing
// it to the position of tok.
func NewSyntaxErrorFromToken(msg string, tok types.Token) *SyntaxError {
	return &SyntaxError{msg: msg, tok: tok}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.tok.Line(), e.tok.LinePos(), e.msg)
}

// FullMessage returns the error along with the offending source line,
// annotated with a caret under the token's starting column, in the style of
// a compiler diagnostic.
func (e *SyntaxError) FullMessage() string {
	line := e.tok.FullLine()
	if line == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s\n%s\n%s^", e.Error(), line, pad(e.tok.LinePos()-1))
}

func (e *SyntaxError) Unwrap() error { return nil }

// Token returns the token the error was attributed to.
func (e *SyntaxError) Token() types.Token { return e.tok }

// Internal is a fatal error indicating a violated invariant of the core
// pipeline itself (not a malformed user input). Callers should treat its
// presence as a bug in the pipeline, not a recoverable condition.
type Internal struct {
	Invariant string
	Detail    string
}

func NewInternal(invariant, detail string) *Internal {
	return &Internal{Invariant: invariant, Detail: detail}
}

func (e *Internal) Error() string {
	return fmt.Sprintf("internal invariant violated: %s: %s", e.Invariant, e.Detail)
}

func (e *Internal) FullMessage() string { return e.Error() }
func (e *Internal) Unwrap() error       { return nil }

// Diagnostics collects every error recovered during one pipeline run (e.g.
// lex errors skipped over, or syntax errors survived by panic-mode parser
// recovery) so a caller gets the full list rather than only the first.
type Diagnostics struct {
	Errs []error
}

func (d *Diagnostics) Add(err error) {
	d.Errs = append(d.Errs, err)
}

func (d *Diagnostics) Empty() bool {
	return len(d.Errs) == 0
}

func (d *Diagnostics) Error() string {
	var sb strings.Builder
	for i, err := range d.Errs {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap allows errors.Is/As to reach any individual recovered error.
func (d *Diagnostics) Unwrap() []error {
	return d.Errs
}
