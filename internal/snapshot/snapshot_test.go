package snapshot

import (
	"bytes"
	"testing"

	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/types"
	"github.com/stretchr/testify/assert"
)

func testGrammar() grammar.Grammar {
	return grammar.MustParse(`
		S -> C C
		C -> c C | d
	`)
}

func Test_WriteRead_roundTrip(t *testing.T) {
	assert := assert.New(t)

	g := testGrammar()
	snap := Of("run-1", types.ParserLALR1, g)

	var buf bytes.Buffer
	if !assert.NoError(Write(&buf, snap)) {
		return
	}

	got, err := Read(&buf)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(snap, got)
}

func Test_Snapshot_Grammar_reparses(t *testing.T) {
	assert := assert.New(t)

	g := testGrammar()
	snap := Of("run-1", types.ParserSLR1, g)

	got, err := snap.Grammar()
	if !assert.NoError(err) {
		return
	}

	assert.Equal(g.String(), got.String())
}

func Test_Snapshot_Parser_rebuildsLALR1(t *testing.T) {
	assert := assert.New(t)

	g := testGrammar()
	snap := Of("run-1", types.ParserLALR1, g)

	p, err := snap.Parser()
	if !assert.NoError(err) {
		return
	}
	assert.NotNil(p)
}

func Test_Snapshot_Parser_unknownType(t *testing.T) {
	assert := assert.New(t)

	snap := Snapshot{ParserType: "not-a-real-type", GrammarText: testGrammar().String()}
	_, err := snap.Parser()
	assert.Error(err)
}
