// Package ir emits three-address code (quadruples) from an AST produced by
// the parse package, for the fixed statement/expression schema described by
// the front end's grammar convention: Expr/Stmt nonterminals, with if/then/
// else/while/do and an assignment operator as literal keyword terminals.
package ir

import (
	"strconv"

	"github.com/dekarrin/rosed"
)

// Quadruple is a single three-address instruction: op applied to up to two
// operands, with an optional result slot. Arg1/Arg2/Result are the empty
// string when a slot is unused by op (printed as "_").
type Quadruple struct {
	Op     string
	Arg1   string
	Arg2   string
	Result string
}

// Program is a linear, emission-ordered list of quadruples. It is never
// reordered once produced.
type Program []Quadruple

// String renders the program as an aligned table, one row per quadruple: its
// index, then op and its three slots.
func (p Program) String() string {
	data := [][]string{{"#", "op", "arg1", "arg2", "result"}}

	for i, q := range p {
		data = append(data, []string{
			strconv.Itoa(i),
			q.Op,
			blank(q.Arg1),
			blank(q.Arg2),
			blank(q.Result),
		})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func blank(s string) string {
	if s == "" {
		return "_"
	}
	return s
}
