package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// sameLabel is a distinguish func that never splits accepting states apart.
func sameLabel(string) string { return "" }

func Test_Minimize_collapsesEquivalentStates(t *testing.T) {
	assert := assert.New(t)

	// a 6-state DFA over {0,1} in which D and F have literally identical
	// transitions (both non-accepting, both going 0->E, 1->F) and so are
	// guaranteed to merge; every other state pair is distinguishable.
	var dfa DFA[string]
	for _, s := range []string{"A", "B", "C", "D", "E", "F"} {
		dfa.AddState(s, s == "C")
	}
	dfa.Start = "A"
	dfa.AddTransition("A", "0", "B")
	dfa.AddTransition("A", "1", "C")
	dfa.AddTransition("B", "0", "A")
	dfa.AddTransition("B", "1", "D")
	dfa.AddTransition("C", "0", "E")
	dfa.AddTransition("C", "1", "F")
	dfa.AddTransition("D", "0", "E")
	dfa.AddTransition("D", "1", "F")
	dfa.AddTransition("E", "0", "A")
	dfa.AddTransition("E", "1", "C")
	dfa.AddTransition("F", "0", "E")
	dfa.AddTransition("F", "1", "F")

	min := Minimize(dfa, sameLabel)
	min.NumberStates()

	assert.Equal(5, min.States().Len())
	assert.True(min.Validate() == nil)
}

func Test_Minimize_trimsUnreachableStates(t *testing.T) {
	assert := assert.New(t)

	var dfa DFA[string]
	dfa.AddState("A", false)
	dfa.AddState("B", true)
	dfa.AddState("unreachable", true)
	dfa.Start = "A"
	dfa.AddTransition("A", "x", "B")
	dfa.AddTransition("unreachable", "x", "B")

	min := Minimize(dfa, sameLabel)

	assert.Equal(2, min.States().Len())
}

func Test_Minimize_distinguishKeepsTaggedStatesSeparate(t *testing.T) {
	assert := assert.New(t)

	// two accepting states with identical outgoing behavior (none) would
	// normally merge; tagging them with different winner tags (as
	// lex/compile.go does for competing lexer rules) must keep them apart.
	var dfa DFA[string]
	dfa.AddState("start", false)
	dfa.AddState("acceptA", true)
	dfa.AddState("acceptB", true)
	dfa.Start = "start"
	dfa.SetValue("acceptA", "ruleA")
	dfa.SetValue("acceptB", "ruleB")
	dfa.AddTransition("start", "a", "acceptA")
	dfa.AddTransition("start", "b", "acceptB")

	min := Minimize(dfa, func(s string) string {
		return dfa.GetValue(s)
	})

	assert.Equal(3, min.States().Len())
}
