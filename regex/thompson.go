// Package regex implements the C1/C2 front end of the lexer generator: a
// shunting-yard postfix parser for a small, teaching-sized regex dialect,
// followed by the McNaughton-Yamada-Thompson construction (purple dragon
// book algorithm 3.23) turning that postfix form into an automaton.NFA[string].
package regex

import (
	"fmt"

	"github.com/dekarrin/ictiobus/automaton"
)

// ToNFA converts the given regular expression into an NFA accepting exactly
// the strings the expression matches.
//
// This is an implementation of algorithm 3.23, "The McNaughton-Yamada-Thompson
// algorithm to convert a regular expression to an NFA," from the purple
// dragon book, fed by a shunting-yard postfix parse of the pattern (C1).
func ToNFA(pattern string) (automaton.NFA[string], error) {
	postfix, err := parseToPostfix(pattern)
	if err != nil {
		return automaton.NFA[string]{}, fmt.Errorf("regex %q: %w", pattern, err)
	}

	nfa, err := evalPostfix(postfix)
	if err != nil {
		return automaton.NFA[string]{}, fmt.Errorf("regex %q: %w", pattern, err)
	}

	nfa.NumberStates()
	return nfa, nil
}

// evalPostfix walks a postfix token stream with a stack of NFA fragments,
// combining them per the Thompson construction rule matching each operator.
func evalPostfix(postfix []token) (automaton.NFA[string], error) {
	var stack []automaton.NFA[string]

	pop := func() automaton.NFA[string] {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, t := range postfix {
		switch t.kind {
		case tokLiteral:
			stack = append(stack, createSingleSymbolFA(t.symbols[0]))
		case tokClass:
			stack = append(stack, createCharClassFA(t.symbols))
		case tokStar:
			if len(stack) < 1 {
				return automaton.NFA[string]{}, fmt.Errorf("malformed pattern: * with no operand")
			}
			stack = append(stack, createKleeneStarFA(pop()))
		case tokPlus:
			if len(stack) < 1 {
				return automaton.NFA[string]{}, fmt.Errorf("malformed pattern: + with no operand")
			}
			stack = append(stack, createPlusFA(pop()))
		case tokOptional:
			if len(stack) < 1 {
				return automaton.NFA[string]{}, fmt.Errorf("malformed pattern: ? with no operand")
			}
			stack = append(stack, createOptionalFA(pop()))
		case tokConcat:
			if len(stack) < 2 {
				return automaton.NFA[string]{}, fmt.Errorf("malformed pattern: concatenation with missing operand")
			}
			right := pop()
			left := pop()
			stack = append(stack, createJuxtapositionFA(left, right))
		case tokUnion:
			if len(stack) < 2 {
				return automaton.NFA[string]{}, fmt.Errorf("malformed pattern: | with missing operand")
			}
			right := pop()
			left := pop()
			stack = append(stack, createAlternationFA(left, right))
		default:
			return automaton.NFA[string]{}, fmt.Errorf("unrecognized postfix token kind %d", t.kind)
		}
	}

	if len(stack) != 1 {
		return automaton.NFA[string]{}, fmt.Errorf("malformed pattern: left %d unreduced fragment(s)", len(stack))
	}

	return stack[0], nil
}

// for any subexpression r in sigma, or epsilon.
func createSingleSymbolFA(symbol string) automaton.NFA[string] {
	var nfa automaton.NFA[string]

	nfa.AddState("A", false)
	nfa.AddState("B", true)
	nfa.AddTransition("A", symbol, "B")
	nfa.Start = "A"

	return nfa
}

// for a character class or any-of-these-symbols atom (bracket expressions,
// escape classes, and `.`): one state transitioning to acceptance on any of
// the given symbols.
func createCharClassFA(symbols []string) automaton.NFA[string] {
	var nfa automaton.NFA[string]

	nfa.AddState("A", false)
	nfa.AddState("B", true)
	nfa.Start = "A"

	for _, sym := range symbols {
		nfa.AddTransition("A", sym, "B")
	}

	return nfa
}

// for any expression st.
func createJuxtapositionFA(left, right automaton.NFA[string]) automaton.NFA[string] {
	leftAccept := getSingleAcceptState(left)

	joined, err := left.Join(right, [][3]string{{leftAccept, "", right.Start}}, nil, nil, []string{"1:" + leftAccept})
	if err != nil {
		panic(err.Error())
	}

	return joined
}

func createPlusFA(expr automaton.NFA[string]) automaton.NFA[string] {
	return createJuxtapositionFA(expr.Copy(), createKleeneStarFA(expr.Copy()))
}

func createOptionalFA(expr automaton.NFA[string]) automaton.NFA[string] {
	return createAlternationFA(expr, createEpsilonFA())
}

func createEpsilonFA() automaton.NFA[string] {
	var nfa automaton.NFA[string]

	nfa.AddState("A", false)
	nfa.AddState("B", true)
	nfa.AddTransition("A", "", "B")
	nfa.Start = "A"

	return nfa
}

func createKleeneStarFA(expr automaton.NFA[string]) automaton.NFA[string] {
	exprAccept := getSingleAcceptState(expr)

	// add an epsilon transition from the end of expr back to its start, on
	// a copy so the caller's fragment is untouched.
	expr = expr.Copy()
	expr.AddTransition(exprAccept, "", expr.Start)

	var nfa automaton.NFA[string]
	nfa.AddState("A", false)
	nfa.AddState("B", true)
	nfa.AddTransition("A", "", "B") // zero occurrences
	nfa.Start = "A"

	joined, err := nfa.Join(expr, [][3]string{{nfa.Start, "", expr.Start}}, [][3]string{{exprAccept, "", "B"}}, nil, []string{"2:" + exprAccept})
	if err != nil {
		panic(err.Error())
	}

	return joined
}

// for any expression s|t, but s and t need to already have been turned to NFAs.
func createAlternationFA(left, right automaton.NFA[string]) automaton.NFA[string] {
	// we know that the only accepting state in the input automatons is their
	// final state, so can just grab them and verify now
	leftAccept := getSingleAcceptState(left)
	rightAccept := getSingleAcceptState(right)

	var nfa automaton.NFA[string]
	nfa.AddState("A", false)
	nfa.AddState("B", true)
	nfa.Start = "A"

	// join with left side
	joined, err := nfa.Join(left, [][3]string{{nfa.Start, "", left.Start}}, [][3]string{{leftAccept, "", "B"}}, nil, []string{"2:" + leftAccept})
	if err != nil {
		panic(err.Error())
	}

	// join with right side; the accepting state's current name must be
	// re-derived since the first Join renamed it.
	curAccept := getSingleAcceptState(joined)
	joined, err = joined.Join(right, [][3]string{{joined.Start, "", right.Start}}, [][3]string{{rightAccept, "", curAccept}}, nil, []string{"2:" + rightAccept})
	if err != nil {
		panic(err.Error())
	}

	return joined
}

// panics if there is not exactly one accepting state in provided nfa
func getSingleAcceptState(nfa automaton.NFA[string]) string {
	allAcceptStates := nfa.AcceptingStates()
	if allAcceptStates.Len() != 1 {
		panic("NFA has multiple acceptance states")
	}

	// we just verified there's exactly one element in set and can now do this:
	var accept string
	for k := range allAcceptStates {
		accept = k
	}

	return accept
}
