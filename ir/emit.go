package ir

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/types"
)

// Emit walks tree depth-first looking for "Stmt" nodes, wherever they occur
// (a grammar may wrap statements in a list, block, or program nonterminal of
// its own naming), and returns every quadruple emitted for them in
// traversal order. The temp and label counters are private to this call and
// always start fresh.
func Emit(tree types.ParseTree) (Program, error) {
	e := &emitter{}
	if err := e.walk(&tree); err != nil {
		return nil, err
	}
	return e.quads, nil
}

type emitter struct {
	quads    Program
	tempNum  int
	labelNum int
}

func (e *emitter) newTemp() string {
	e.tempNum++
	return fmt.Sprintf("t%d", e.tempNum)
}

func (e *emitter) newLabel() string {
	e.labelNum++
	return fmt.Sprintf("L%d", e.labelNum)
}

func (e *emitter) emit(op, arg1, arg2, result string) {
	e.quads = append(e.quads, Quadruple{Op: op, Arg1: arg1, Arg2: arg2, Result: result})
}

// walk recurses through container nodes (statement lists, blocks, whatever
// a particular grammar calls its glue nonterminals) until it finds a "Stmt"
// node, which it hands off to emitStmt rather than recursing further into —
// emitStmt is responsible for the entirety of its own subtree.
func (e *emitter) walk(node *types.ParseTree) error {
	if node == nil {
		return nil
	}
	if !node.Terminal && node.Value == "Stmt" {
		return e.emitStmt(node)
	}
	for _, c := range node.Children {
		if err := e.walk(c); err != nil {
			return err
		}
	}
	return nil
}

// emitStmt implements the Stmt schemas of §4.11: assignment, if/else, and
// while. A Stmt with a single non-terminal child is a degenerate chain (the
// AST builder's collapse pass should normally have already removed these)
// and is passed through.
func (e *emitter) emitStmt(node *types.ParseTree) error {
	switch {
	case len(node.Children) == 1 && !node.Children[0].Terminal:
		return e.emitStmt(node.Children[0])

	case isAssignStmt(node):
		a, err := e.emitExpr(node.Children[2])
		if err != nil {
			return err
		}
		e.emit("assign", a, "", node.Children[0].Source.Lexeme())
		return nil

	case isIfStmt(node):
		return e.emitIf(node)

	case isWhileStmt(node):
		return e.emitWhile(node)

	default:
		return fmt.Errorf("ir: unrecognized Stmt shape with %d children", len(node.Children))
	}
}

// emitIf implements: evaluate Expr to address a; allocate labels L_else,
// L_end; emit (if-goto-false, a, _, L_else); emit body; emit (goto, _, _,
// L_end); emit (label, _, _, L_else); emit else-body (or nothing); emit
// (label, _, _, L_end).
func (e *emitter) emitIf(node *types.ParseTree) error {
	cond, err := e.emitExpr(node.Children[1])
	if err != nil {
		return err
	}

	lElse := e.newLabel()
	lEnd := e.newLabel()

	e.emit("if-goto-false", cond, "", lElse)
	if err := e.emitStmt(node.Children[3]); err != nil {
		return err
	}
	e.emit("goto", "", "", lEnd)
	e.emit("label", "", "", lElse)
	if len(node.Children) > 4 {
		if err := e.emitStmt(node.Children[5]); err != nil {
			return err
		}
	}
	e.emit("label", "", "", lEnd)
	return nil
}

// emitWhile implements: labels L_start, L_end; emit L_start; evaluate; emit
// (if-goto-false, a, _, L_end); emit body; emit (goto, _, _, L_start); emit
// L_end.
func (e *emitter) emitWhile(node *types.ParseTree) error {
	lStart := e.newLabel()
	lEnd := e.newLabel()

	e.emit("label", "", "", lStart)
	cond, err := e.emitExpr(node.Children[1])
	if err != nil {
		return err
	}
	e.emit("if-goto-false", cond, "", lEnd)
	if err := e.emitStmt(node.Children[3]); err != nil {
		return err
	}
	e.emit("goto", "", "", lStart)
	e.emit("label", "", "", lEnd)
	return nil
}

// emitExpr implements the Expr schemas of §4.11 and returns the address
// holding the expression's value: a fresh temp for a binary operation, or
// the literal/identifier lexeme for a leaf. Structural shape alone decides
// which schema applies, so this works regardless of how a particular
// grammar names its terminal token kinds:
//
//   - a terminal is always its own address (identifier name, or a number/
//     string/char literal);
//   - a single non-terminal child is a degenerate chain and is passed
//     through;
//   - three children bracketed by two terminals with a non-terminal Expr in
//     the middle is a parenthesized group;
//   - three children with a terminal in the middle is a binary operation,
//     using that terminal's own lexeme as the quadruple's op.
func (e *emitter) emitExpr(node *types.ParseTree) (string, error) {
	if node.Terminal {
		return node.Source.Lexeme(), nil
	}

	switch {
	case len(node.Children) == 1:
		return e.emitExpr(node.Children[0])

	case len(node.Children) == 3 && !node.Children[1].Terminal && node.Children[0].Terminal && node.Children[2].Terminal:
		return e.emitExpr(node.Children[1])

	case len(node.Children) == 3 && node.Children[1].Terminal:
		a1, err := e.emitExpr(node.Children[0])
		if err != nil {
			return "", err
		}
		a2, err := e.emitExpr(node.Children[2])
		if err != nil {
			return "", err
		}
		t := e.newTemp()
		e.emit(node.Children[1].Source.Lexeme(), a1, a2, t)
		return t, nil

	default:
		return "", fmt.Errorf("ir: unrecognized Expr shape with %d children", len(node.Children))
	}
}

func isAssignStmt(node *types.ParseTree) bool {
	return len(node.Children) == 3 &&
		node.Children[0].Terminal &&
		node.Children[1].Terminal &&
		strings.Contains(node.Children[1].Source.Lexeme(), ":=")
}

func isIfStmt(node *types.ParseTree) bool {
	return len(node.Children) >= 4 &&
		node.Children[0].Terminal &&
		strings.EqualFold(node.Children[0].Source.Lexeme(), "if") &&
		node.Children[2].Terminal &&
		strings.EqualFold(node.Children[2].Source.Lexeme(), "then") &&
		!node.Children[3].Terminal
}

func isWhileStmt(node *types.ParseTree) bool {
	return len(node.Children) == 4 &&
		node.Children[0].Terminal &&
		strings.EqualFold(node.Children[0].Source.Lexeme(), "while") &&
		node.Children[2].Terminal &&
		strings.EqualFold(node.Children[2].Source.Lexeme(), "do") &&
		!node.Children[3].Terminal
}
