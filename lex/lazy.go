package lex

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dekarrin/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/types"
)

// lazyLex drives a per-state minimized DFA (see compile.go) over a runeReader
// one token at a time. Every rune it has seen stays buffered, which is what
// lets matchLongest back a DFA simulation up to the last point it was in an
// accepting state, and lets position reporting look ahead to the end of the
// current line without losing the caller's place in the stream.
type lazyLex struct {
	reader *runeReader
	state  string

	// done is set once the reader has produced io.EOF or an unrecoverable
	// I/O error; every subsequent call to Next returns the same token.
	done bool

	// panicMode is entered whenever no pattern matches at the current
	// position; Next will discard one rune at a time until a match is found.
	panicMode bool

	dfas            map[string]automaton.DFA[string]
	patternsByState map[string][]patAct
	classes         map[string]map[string]types.TokenClass
}

// newLazyLex compiles every registered state's patterns into a DFA and
// returns a fresh lazyLex positioned at the start of input.
func (lx *lexerTemplate) newLazyLex(input io.Reader) (*lazyLex, error) {
	active := &lazyLex{
		reader:          newRuneReader(input),
		state:           lx.StartState,
		dfas:            make(map[string]automaton.DFA[string]),
		patternsByState: make(map[string][]patAct),
		classes:         make(map[string]map[string]types.TokenClass),
	}

	for st, pats := range lx.patterns {
		dfa, err := compileStatePatterns(pats)
		if err != nil {
			return nil, fmt.Errorf("compiling patterns for state %q: %w", st, err)
		}
		active.dfas[st] = dfa

		patsCopy := make([]patAct, len(pats))
		copy(patsCopy, pats)
		active.patternsByState[st] = patsCopy
	}

	for st, stateClasses := range lx.classes {
		classesCopy := make(map[string]types.TokenClass, len(stateClasses))
		for id, cl := range stateClasses {
			classesCopy[id] = cl
		}
		active.classes[st] = classesCopy
	}

	return active, nil
}

// Next returns the next token in the stream and advances the stream by one
// token. If at the end of the stream, this will return a token whose Class()
// is types.TokenEndOfText. If an error in lexing occurs, it will return a
// token whose Class() is types.TokenError and whose lexeme is a message
// explaining the error.
func (lx *lazyLex) Next() types.Token {
	if lx.done {
		return lx.makeEOTToken()
	}

	for {
		dfa, ok := lx.dfas[lx.state]
		if !ok {
			lx.done = true
			return lx.makeErrorTokenf("no patterns registered for state %q", lx.state)
		}
		pats := lx.patternsByState[lx.state]
		stateClasses := lx.classes[lx.state]

		if lx.panicMode {
			if _, err := lx.reader.ReadRune(); err != nil {
				return lx.tokenForIOError(err)
			}

			start := lx.reader.Cur()
			lexeme, winnerIdx, err := lx.matchLongest(dfa)
			if err != nil {
				return lx.tokenForIOError(err)
			}
			if winnerIdx < 0 {
				// still nothing recognized; discard another rune next pass
				continue
			}

			lx.panicMode = false
			tok, again := lx.applyAction(pats[winnerIdx].act, stateClasses, lexeme, start)
			if !again {
				return tok
			}
			continue
		}

		start := lx.reader.Cur()
		lexeme, winnerIdx, err := lx.matchLongest(dfa)
		if err != nil {
			return lx.tokenForIOError(err)
		}
		if winnerIdx < 0 {
			// no input left at all is the end of the stream, not a lex error
			if _, err := lx.reader.ReadRune(); err != nil {
				return lx.tokenForIOError(err)
			}
			lx.reader.SeekTo(start)
			lx.panicMode = true
			return lx.makeErrorTokenAt("unknown input", start)
		}

		tok, again := lx.applyAction(pats[winnerIdx].act, stateClasses, lexeme, start)
		if !again {
			return tok
		}
	}
}

// matchLongest simulates dfa starting at the reader's current position,
// following transitions for as long as one exists and remembering the
// longest prefix at which the DFA was in an accepting state. It leaves the
// reader positioned just past that prefix (or at the original position, if
// no prefix of the remaining input was ever accepted).
func (lx *lazyLex) matchLongest(dfa automaton.DFA[string]) (lexeme string, winnerIdx int, err error) {
	start := lx.reader.Cur()
	state := dfa.Start
	lastAcceptPos := -1
	lastWinner := -1

	if dfa.IsAccepting(state) {
		lastAcceptPos = start
		lastWinner = winnerFromTag(dfa.GetValue(state))
	}

	pos := start
	for {
		lx.reader.SeekTo(pos)
		ch, rerr := lx.reader.ReadRune()
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			return "", -1, rerr
		}

		next := dfa.Next(state, string(ch))
		if next == "" {
			break
		}
		state = next
		pos = lx.reader.Cur()
		if dfa.IsAccepting(state) {
			lastAcceptPos = pos
			lastWinner = winnerFromTag(dfa.GetValue(state))
		}
	}

	if lastAcceptPos < 0 {
		lx.reader.SeekTo(start)
		return "", -1, nil
	}

	lexeme = lx.reader.Slice(start, lastAcceptPos)
	lx.reader.SeekTo(lastAcceptPos)
	return lexeme, lastWinner, nil
}

func winnerFromTag(tag string) int {
	if tag == "" {
		return -1
	}
	idx, err := strconv.Atoi(tag)
	if err != nil {
		return -1
	}
	return idx
}

// applyAction carries out action for a lexeme that started at buffer
// position pos, returning the token to emit (if any) and whether Next should
// keep lexing instead of returning it.
func (lx *lazyLex) applyAction(action Action, stateClasses map[string]types.TokenClass, lexeme string, pos int) (types.Token, bool) {
	switch action.Type {
	case ActionScan:
		return lx.makeTokenAt(stateClasses[action.ClassID], lexeme, pos), false
	case ActionState:
		lx.state = action.State
		return nil, true
	case ActionScanAndState:
		tok := lx.makeTokenAt(stateClasses[action.ClassID], lexeme, pos)
		lx.state = action.State
		return tok, false
	default: // ActionNone
		return nil, true
	}
}

// Peek returns the next token in the stream without advancing the stream.
func (lx *lazyLex) Peek() types.Token {
	lx.reader.Mark("peek")
	oldState := lx.state
	oldDone := lx.done
	oldPanic := lx.panicMode

	tok := lx.Next()

	lx.reader.Restore("peek")
	lx.state = oldState
	lx.done = oldDone
	lx.panicMode = oldPanic

	return tok
}

// HasNext returns whether the stream has any additional tokens.
func (lx *lazyLex) HasNext() bool {
	return !lx.done
}

func (lx *lazyLex) makeTokenAt(class types.TokenClass, lexeme string, pos int) types.Token {
	line, col, fullLine := lx.reader.PositionInfo(pos)
	return lexerToken{class: class, lexed: lexeme, linePos: col, lineNum: line, line: fullLine}
}

func (lx *lazyLex) makeEOTToken() types.Token {
	return lx.makeTokenAt(types.TokenEndOfText, "", lx.reader.Cur())
}

func (lx *lazyLex) makeErrorTokenf(formatMsg string, args ...any) types.Token {
	return lx.makeErrorTokenAt(fmt.Sprintf(formatMsg, args...), lx.reader.Cur())
}

func (lx *lazyLex) makeErrorTokenAt(msg string, pos int) types.Token {
	return lx.makeTokenAt(types.TokenError, msg, pos)
}

// tokenForIOError takes an error returned from an I/O operation, marks lx as
// done, and returns a token appropriate for it: types.TokenEndOfText for
// io.EOF, types.TokenError for anything else.
func (lx *lazyLex) tokenForIOError(err error) types.Token {
	lx.done = true

	if err == io.EOF {
		lx.panicMode = false
		return lx.makeEOTToken()
	}
	return lx.makeErrorTokenf("I/O error: %s", err.Error())
}
