// Package lex implements the lexer generator's scanning front end: patterns
// are registered per named state, compiled down to a minimized DFA (see
// compile.go, and the automaton/regex packages underneath it), and then
// driven rune-by-rune over an io.Reader by either a lazy stream or an
// eager, fully-materialized one.
package lex

import (
	"fmt"
	"io"

	"github.com/dekarrin/ictiobus/regex"
	"github.com/dekarrin/ictiobus/types"
)

// Lexer is a template for a scanner: it holds registered token classes and
// patterns-per-state, and produces a fresh types.TokenStream for each input
// via Lex.
type Lexer interface {
	// Lex returns a token stream over input. If the Lexer was constructed
	// lazily (see NewLexer), tokens are produced on demand and lexical
	// errors surface as types.TokenError productions from the stream
	// itself; otherwise the whole input is scanned up front and any
	// lexical error is returned here instead.
	Lex(input io.Reader) (types.TokenStream, error)

	// RegisterClass makes cl usable as the target of a LexAs/LexAndSwapState
	// action for patterns registered against forState (the empty string
	// names the default start state).
	RegisterClass(cl types.TokenClass, forState string)

	// AddPattern registers pat (a regular expression in this module's C1
	// dialect; see package regex) against forState, to fire action when it
	// produces the longest match. priority breaks ties against other
	// patterns in the same state that match an equally long lexeme: the
	// highest priority wins, and if priorities are also tied, whichever
	// pattern was registered first wins.
	AddPattern(pat string, action Action, forState string, priority int) error

	// SetStartingState sets the state that Lex begins scanning in.
	SetStartingState(s string)

	// StartingState returns the state that Lex begins scanning in.
	StartingState() string
}

type lexerTemplate struct {
	// lazy selects which kind of stream Lex produces: true for an
	// on-demand lazyLex, false for a fully pre-scanned immediateTokenStream.
	lazy bool

	patterns   map[string][]patAct
	StartState string

	// classes by ID by state
	classes map[string]map[string]types.TokenClass
}

// NewLexer creates a new, empty Lexer. If lazy is true, streams produced by
// Lex scan on demand and report lexical errors as error-class tokens from
// the stream; if false, Lex scans the entire input immediately and returns
// the first lexical error (if any) instead of a stream.
func NewLexer(lazy bool) Lexer {
	return &lexerTemplate{
		lazy:       lazy,
		patterns:   map[string][]patAct{},
		StartState: "",
		classes:    map[string]map[string]types.TokenClass{},
	}
}

// RegisterClass adds the given token class to the lexer. This will mark that
// token class as a lexable token class, and make it available for use in the
// Action of an AddPattern.
//
// If the given token class's ID() returns a string matching one already
// added, the provided one will replace the existing one.
func (lx *lexerTemplate) RegisterClass(cl types.TokenClass, forState string) {
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]types.TokenClass{}
	}

	stateClasses[cl.ID()] = cl
	lx.classes[forState] = stateClasses
}

func (lx *lexerTemplate) AddPattern(pat string, action Action, forState string, priority int) error {
	statePatterns, ok := lx.patterns[forState]
	if !ok {
		statePatterns = make([]patAct, 0)
	}
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]types.TokenClass{}
	}

	if _, err := regex.ToNFA(pat); err != nil {
		return fmt.Errorf("cannot parse pattern: %w", err)
	}

	if action.Type == ActionScan || action.Type == ActionScanAndState {
		// check class exists
		id := action.ClassID
		_, ok := stateClasses[id]
		if !ok {
			return fmt.Errorf("%q is not a defined token class on this lexer; add it with RegisterClass first", id)
		}
	}
	if action.Type == ActionState || action.Type == ActionScanAndState {
		if action.State == "" {
			return fmt.Errorf("action includes state shift but does not define state to shift to (cannot shift to empty state)")
		}
	}

	record := patAct{
		src:      pat,
		act:      action,
		priority: priority,
	}
	statePatterns = append(statePatterns, record)

	lx.patterns[forState] = statePatterns
	// not modifying lx.classes so no need to set it again
	return nil
}

// SetStartingState sets the state that Lex begins scanning in.
func (lx *lexerTemplate) SetStartingState(s string) {
	lx.StartState = s
}

// StartingState returns the state that Lex begins scanning in.
func (lx *lexerTemplate) StartingState() string {
	return lx.StartState
}

func (lx *lexerTemplate) Lex(input io.Reader) (types.TokenStream, error) {
	lazyCore, err := lx.newLazyLex(input)
	if err != nil {
		return nil, err
	}

	if lx.lazy {
		return lazyCore, nil
	}

	return drainToImmediate(lazyCore)
}
