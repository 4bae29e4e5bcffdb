package parse

import (
	"testing"

	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/types"
	"github.com/stretchr/testify/assert"
)

// Test_LRParse_panicModeRecovery feeds a single unexpected token into the
// middle of an otherwise-valid "purple dragon 4.55" program and checks that
// the parser survives it: it records a diagnostic for the bad token, resyncs
// on the next token in FOLLOW(C), and still returns a complete tree for the
// rest of the input.
func Test_LRParse_panicModeRecovery(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse(`
		S -> C C ;
		C -> c C | d ;
	`)

	table, err := constructLALR1ParseTable(g)
	if !assert.NoError(err) {
		return
	}

	lr := &lrParser{table: table, parseType: types.ParserLALR1, gram: g}

	stream := mockTokens("c", "e", "d", types.TokenEndOfText.ID())
	tree, err := lr.Parse(stream)

	if !assert.Error(err) {
		return
	}
	var diags *icterrors.Diagnostics
	if !assert.ErrorAs(err, &diags) {
		return
	}
	assert.Len(diags.Errs, 1)

	assert.Equal("S", tree.Value)
	if !assert.Len(tree.Children, 2) {
		return
	}
	for _, c := range tree.Children {
		assert.Equal("C", c.Value)
	}
}

// Test_LRParse_badLeadingToken checks that an unexpected token right at the
// start of input still surfaces as a returned error rather than a panic,
// regardless of whether panic-mode recovery manages to resync.
func Test_LRParse_badLeadingToken(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse(`
		S -> c
	`)

	table, err := constructLALR1ParseTable(g)
	if !assert.NoError(err) {
		return
	}

	lr := &lrParser{table: table, parseType: types.ParserLALR1, gram: g}

	stream := mockTokens("e", types.TokenEndOfText.ID())
	_, err = lr.Parse(stream)
	assert.Error(err)
}
