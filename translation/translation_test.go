package translation

import (
	"strconv"
	"testing"

	"github.com/dekarrin/ictiobus/lex"
	"github.com/dekarrin/ictiobus/types"
	"github.com/stretchr/testify/assert"
)

func termNode(symbol, lexeme string) *types.ParseTree {
	class := types.MakeDefaultClass(symbol)
	tok := lex.NewToken(class, lexeme, 1, 1, lexeme)
	return &types.ParseTree{Terminal: true, Value: symbol, Source: tok, ProductionID: -1}
}

func echoSetter(symbol string, name NodeAttrName, args []NodeAttrValue) NodeAttrValue {
	return args[0]
}

// Test_Evaluate_synthesizedAndInherited builds a two-level tree where a
// synthesized attribute on a left child feeds an inherited attribute on its
// right sibling, which itself feeds back into a synthesized attribute on the
// root — exercising the fixed-point sweep's need for more than one pass
// before every attribute instance becomes available.
func Test_Evaluate_synthesizedAndInherited(t *testing.T) {
	assert := assert.New(t)

	tree := types.ParseTree{
		Value: "Root",
		Children: []*types.ParseTree{
			termNode("numA", "10"),
			termNode("numB", "5"),
		},
	}

	sdd := NewSDD()

	// numA.val = int(numA.$text)
	err := sdd.BindSynthesizedAttribute("numA", nil, "val", func(symbol string, name NodeAttrName, args []NodeAttrValue) NodeAttrValue {
		n, _ := strconv.Atoi(args[0].(string))
		return n
	}, "", []AttrRef{{Relation: NodeRelation{Type: RelHead}, Name: "$text"}})
	if !assert.NoError(err) {
		return
	}

	// numB.ctx (inherited) = numA.val
	err = sdd.BindInheritedAttribute("Root", []string{"numA", "numB"}, "ctx", echoSetter,
		[]AttrRef{{Relation: NodeRelation{Type: RelSymbol, Index: 0}, Name: "val"}},
		NodeRelation{Type: RelSymbol, Index: 1},
	)
	if !assert.NoError(err) {
		return
	}

	// numB.result = numB.ctx + int(numB.$text)
	err = sdd.BindSynthesizedAttribute("numB", nil, "result", func(symbol string, name NodeAttrName, args []NodeAttrValue) NodeAttrValue {
		ctx := args[0].(int)
		n, _ := strconv.Atoi(args[1].(string))
		return ctx + n
	}, "", []AttrRef{
		{Relation: NodeRelation{Type: RelHead}, Name: "ctx"},
		{Relation: NodeRelation{Type: RelHead}, Name: "$text"},
	})
	if !assert.NoError(err) {
		return
	}

	// Root.val (synthesized) = numB.result
	err = sdd.BindSynthesizedAttribute("Root", []string{"numA", "numB"}, "val", echoSetter, "",
		[]AttrRef{{Relation: NodeRelation{Type: RelSymbol, Index: 1}, Name: "result"}})
	if !assert.NoError(err) {
		return
	}

	vals, err := sdd.Evaluate(tree, "val")
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(vals, 1) {
		return
	}
	assert.Equal(15, vals[0])
}

func Test_BindingsFor_filtersByDest(t *testing.T) {
	assert := assert.New(t)

	sdd := NewSDD()

	valDest := AttrRef{Relation: NodeRelation{Type: RelHead}, Name: "val"}
	ctxDest := AttrRef{Relation: NodeRelation{Type: RelSymbol, Index: 1}, Name: "ctx"}

	err := sdd.BindSynthesizedAttribute("Root", []string{"numA", "numB"}, "val", echoSetter, "",
		[]AttrRef{{Relation: NodeRelation{Type: RelSymbol, Index: 0}, Name: "val"}})
	if !assert.NoError(err) {
		return
	}
	err = sdd.BindInheritedAttribute("Root", []string{"numA", "numB"}, "ctx", echoSetter,
		[]AttrRef{{Relation: NodeRelation{Type: RelSymbol, Index: 0}, Name: "val"}},
		NodeRelation{Type: RelSymbol, Index: 1},
	)
	if !assert.NoError(err) {
		return
	}

	onlyVal := sdd.BindingsFor("Root", []string{"numA", "numB"}, valDest)
	if !assert.Len(onlyVal, 1) {
		return
	}
	assert.True(onlyVal[0].Synthesized)

	onlyCtx := sdd.BindingsFor("Root", []string{"numA", "numB"}, ctxDest)
	if !assert.Len(onlyCtx, 1) {
		return
	}
	assert.False(onlyCtx[0].Synthesized)
}

// Test_Evaluate_cycleIsReported checks that an SDD whose bindings can never
// reach a fixed point is reported as an error identifying the attribute
// involved, rather than Evaluate looping until its pass budget runs out and
// returning a confusing "never bound" message.
func Test_Evaluate_cycleIsReported(t *testing.T) {
	assert := assert.New(t)

	tree := types.ParseTree{Value: "Cyc"}

	sdd := NewSDD()
	err := sdd.BindSynthesizedAttribute("Cyc", nil, "a", echoSetter, "",
		[]AttrRef{{Relation: NodeRelation{Type: RelHead}, Name: "b"}})
	if !assert.NoError(err) {
		return
	}
	err = sdd.BindSynthesizedAttribute("Cyc", nil, "b", echoSetter, "",
		[]AttrRef{{Relation: NodeRelation{Type: RelHead}, Name: "a"}})
	if !assert.NoError(err) {
		return
	}

	_, err = sdd.Evaluate(tree, "a")
	if !assert.Error(err) {
		return
	}
	assert.Contains(err.Error(), "cycle")
}
