package ir

import (
	"testing"

	"github.com/dekarrin/ictiobus/types"
	"github.com/stretchr/testify/assert"
)

// fakeToken is a minimal types.Token for building ASTs by hand in tests.
type fakeToken struct {
	class  types.TokenClass
	lexeme string
}

func (t fakeToken) Class() types.TokenClass { return t.class }
func (t fakeToken) Lexeme() string          { return t.lexeme }
func (t fakeToken) LinePos() int            { return 1 }
func (t fakeToken) Line() int               { return 1 }
func (t fakeToken) FullLine() string        { return "" }
func (t fakeToken) String() string          { return t.lexeme }

func leaf(kind, lexeme string) *types.ParseTree {
	return &types.ParseTree{
		Terminal:     true,
		Value:        kind,
		Source:       fakeToken{class: types.MakeDefaultClass(kind), lexeme: lexeme},
		ProductionID: -1,
	}
}

func node(value string, prodID int, children ...*types.ParseTree) *types.ParseTree {
	return &types.ParseTree{Value: value, ProductionID: prodID, Children: children}
}

// buildAssign builds the AST for "x := (a + 3) * b" per the walkthrough in
// §4.11's worked example.
func buildAssign() types.ParseTree {
	innerExpr := node("Expr", 0,
		leaf("id", "a"),
		leaf("op", "+"),
		leaf("number", "3"),
	)
	grouped := node("Expr", 0, leaf("lparen", "("), innerExpr, leaf("rparen", ")"))
	product := node("Expr", 0, grouped, leaf("op", "*"), leaf("id", "b"))
	stmt := node("Stmt", 0, leaf("id", "x"), leaf("assign", ":="), product)
	return *stmt
}

func Test_Emit_assignment(t *testing.T) {
	assert := assert.New(t)

	tree := buildAssign()
	prog, err := Emit(tree)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(Program{
		{Op: "+", Arg1: "a", Arg2: "3", Result: "t1"},
		{Op: "*", Arg1: "t1", Arg2: "b", Result: "t2"},
		{Op: "assign", Arg1: "t2", Result: "x"},
	}, prog)
}

func Test_Emit_ifElse(t *testing.T) {
	assert := assert.New(t)

	cond := node("Expr", 0, leaf("id", "a"), leaf("op", "<"), leaf("id", "b"))
	thenStmt := node("Stmt", 0, leaf("id", "x"), leaf("assign", ":="), leaf("number", "1"))
	elseStmt := node("Stmt", 0, leaf("id", "x"), leaf("assign", ":="), leaf("number", "0"))
	ifStmt := node("Stmt", 0,
		leaf("if", "if"), cond, leaf("then", "then"), thenStmt, leaf("else", "else"), elseStmt,
	)

	prog, err := Emit(*ifStmt)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(Program{
		{Op: "<", Arg1: "a", Arg2: "b", Result: "t1"},
		{Op: "if-goto-false", Arg1: "t1", Result: "L1"},
		{Op: "assign", Arg1: "1", Result: "x"},
		{Op: "goto", Result: "L2"},
		{Op: "label", Result: "L1"},
		{Op: "assign", Arg1: "0", Result: "x"},
		{Op: "label", Result: "L2"},
	}, prog)
}

func Test_Emit_while(t *testing.T) {
	assert := assert.New(t)

	cond := node("Expr", 0, leaf("id", "i"), leaf("op", "<"), leaf("number", "10"))
	body := node("Stmt", 0, leaf("id", "i"), leaf("assign", ":="), leaf("id", "i"))
	whileStmt := node("Stmt", 0, leaf("while", "while"), cond, leaf("do", "do"), body)

	prog, err := Emit(*whileStmt)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(Program{
		{Op: "label", Result: "L1"},
		{Op: "<", Arg1: "i", Arg2: "10", Result: "t1"},
		{Op: "if-goto-false", Arg1: "t1", Result: "L2"},
		{Op: "assign", Arg1: "i", Result: "i"},
		{Op: "goto", Result: "L1"},
		{Op: "label", Result: "L2"},
	}, prog)
}

func Test_Emit_walksStatementLists(t *testing.T) {
	assert := assert.New(t)

	s1 := node("Stmt", 0, leaf("id", "x"), leaf("assign", ":="), leaf("number", "1"))
	s2 := node("Stmt", 0, leaf("id", "y"), leaf("assign", ":="), leaf("number", "2"))
	list := node("StmtList", -1, s1, node("StmtList", -1, s2))

	prog, err := Emit(*list)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(Program{
		{Op: "assign", Arg1: "1", Result: "x"},
		{Op: "assign", Arg1: "2", Result: "y"},
	}, prog)
}

func Test_Emit_unrecognizedShape(t *testing.T) {
	bad := node("Stmt", 0, leaf("id", "x"))
	_, err := Emit(*bad)
	assert.Error(t, err)
}
