package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse_singleLineRule(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(`S -> a S | b`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("S", g.StartSymbol())
	assert.Contains(g.NonTerminals(), "S")
	assert.True(g.IsTerminal("a"))
	assert.True(g.IsTerminal("b"))

	rule := g.Rule("S")
	assert.ElementsMatch([]Production{{"a", "S"}, {"b"}}, rule.Productions)
}

func Test_Parse_continuationLines(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(`
		S -> a S
		   | b
	`)
	if !assert.NoError(err) {
		return
	}

	rule := g.Rule("S")
	assert.ElementsMatch([]Production{{"a", "S"}, {"b"}}, rule.Productions)
}

func Test_Parse_semicolonClosedRule(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(`S -> a S | b;`)
	if !assert.NoError(err) {
		return
	}

	rule := g.Rule("S")
	assert.ElementsMatch([]Production{{"a", "S"}, {"b"}}, rule.Productions)
}

func Test_Parse_comments(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(`
		# a comment line
		S -> a S | b # trailing comment
	`)
	if !assert.NoError(err) {
		return
	}

	rule := g.Rule("S")
	assert.ElementsMatch([]Production{{"a", "S"}, {"b"}}, rule.Productions)
}

func Test_Parse_unicodeArrow(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(`S → a S | b`)
	if !assert.NoError(err) {
		return
	}

	rule := g.Rule("S")
	assert.ElementsMatch([]Production{{"a", "S"}, {"b"}}, rule.Productions)
}

func Test_Parse_epsilon(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(`
		S -> a S | ε
	`)
	if !assert.NoError(err) {
		return
	}

	rule := g.Rule("S")
	assert.ElementsMatch([]Production{{"a", "S"}, {Epsilon[0]}}, rule.Productions)
}

func Test_Parse_firstHeadIsStartSymbol(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(`
		E -> T
		T -> id
	`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("E", g.StartSymbol())
}

func Test_Parse_undeclaredHeadAsTerminal(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(`S -> a S | b`)
	if !assert.NoError(err) {
		return
	}

	assert.NotContains(g.NonTerminals(), "a")
	assert.True(g.IsTerminal("a"))
}

func Test_Parse_continuationWithoutPrecedingHead_error(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(`| b`)
	assert.Error(err)
}

func Test_Parse_malformedRule_error(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(`S a S`)
	assert.Error(err)
}

func Test_Parse_emptyNonTerminal_error(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(` -> a S`)
	assert.Error(err)
}

func Test_MustParse_panicsOnError(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() {
		MustParse(`| b`)
	})
}

func Test_MustParse_returnsGrammar(t *testing.T) {
	assert := assert.New(t)

	assert.NotPanics(func() {
		g := MustParse(`S -> a S | b`)
		assert.Equal("S", g.StartSymbol())
	})
}
