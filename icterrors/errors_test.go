package icterrors

import (
	"errors"
	"testing"

	"github.com/dekarrin/ictiobus/types"
	"github.com/stretchr/testify/assert"
)

type stubToken struct {
	class    types.TokenClass
	lexeme   string
	line     int
	linePos  int
	fullLine string
}

func (tok stubToken) Class() types.TokenClass { return tok.class }
func (tok stubToken) Lexeme() string          { return tok.lexeme }
func (tok stubToken) Line() int               { return tok.line }
func (tok stubToken) LinePos() int            { return tok.linePos }
func (tok stubToken) FullLine() string        { return tok.fullLine }
func (tok stubToken) String() string          { return tok.lexeme }

func Test_RegexError(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("unbalanced group")
	err := NewRegexErrorWrap(`(a`, 2, "missing )", cause)

	assert.Contains(err.Error(), `"(a"`)
	assert.Contains(err.Error(), "missing )")
	assert.Equal(err.Error(), err.FullMessage())
	assert.ErrorIs(err, cause)
}

func Test_LexError_FullMessage(t *testing.T) {
	assert := assert.New(t)

	err := NewLexError(3, 5, '@', "x := @1")
	assert.Equal(`3:5: unrecognized character '@'`, err.Error())
	assert.Equal("3:5: unrecognized character '@'\nx := @1\n    ^", err.FullMessage())
}

func Test_LexError_noSourceLine(t *testing.T) {
	assert := assert.New(t)

	err := NewLexError(1, 1, '@', "")
	assert.Equal(err.Error(), err.FullMessage())
}

func Test_GrammarError_withAndWithoutLine(t *testing.T) {
	assert := assert.New(t)

	withLine := NewGrammarError(4, "undeclared symbol")
	assert.Equal("grammar error on line 4: undeclared symbol", withLine.Error())

	noLine := NewGrammarError(0, "no rules")
	assert.Equal("grammar error: no rules", noLine.Error())
}

func Test_LRConflict(t *testing.T) {
	assert := assert.New(t)

	sr := NewLRConflict(3, "a", ConflictShiftReduce, "s4", "rA->b")
	assert.Equal(`shift-reduce conflict in state 3 on "a": s4 vs rA->b`, sr.Error())

	rr := NewLRConflict(5, "b", ConflictReduceReduce, "rA->c", "rB->d")
	assert.Equal(`reduce-reduce conflict in state 5 on "b": rA->c vs rB->d`, rr.Error())
}

func Test_SyntaxError_fromToken(t *testing.T) {
	assert := assert.New(t)

	tok := stubToken{
		class:    types.MakeDefaultClass("id"),
		lexeme:   "foo",
		line:     2,
		linePos:  7,
		fullLine: "x := foo bar",
	}
	err := NewSyntaxErrorFromToken("unexpected identifier", tok)

	assert.Equal("2:7: unexpected identifier", err.Error())
	assert.Equal(tok, err.Token())
	assert.Equal("2:7: unexpected identifier\nx := foo bar\n      ^", err.FullMessage())
}

func Test_Internal(t *testing.T) {
	assert := assert.New(t)

	err := NewInternal("productionID lookup", "no matching production for reduce")
	assert.Equal("internal invariant violated: productionID lookup: no matching production for reduce", err.Error())
}

func Test_Diagnostics_collectsAndJoins(t *testing.T) {
	assert := assert.New(t)

	var d Diagnostics
	assert.True(d.Empty())

	d.Add(NewGrammarError(1, "bad"))
	d.Add(NewInternal("x", "y"))
	assert.False(d.Empty())
	assert.Len(d.Errs, 2)

	assert.Equal("grammar error on line 1: bad\ninternal invariant violated: x: y", d.Error())
}

func Test_Diagnostics_unwrapReachesIndividualErrors(t *testing.T) {
	assert := assert.New(t)

	target := NewInternal("inv", "detail")
	var d Diagnostics
	d.Add(NewGrammarError(1, "bad"))
	d.Add(target)

	var asInternal *Internal
	assert.ErrorAs(error(&d), &asInternal)
	assert.Same(target, asInternal)
}
