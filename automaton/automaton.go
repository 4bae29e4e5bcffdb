// Package automaton implements finite automata used both as the regular
// lexer's matching engine and as the viable-prefix recognizer that backs LR
// parser table construction. The same NFA[E]/DFA[E] machinery is generic
// over the value stored at each state: a lexer NFA's accepting states carry
// the index of the pattern they recognize, while the states of a
// viable-prefix automaton carry grammar.LR0Item or sets of grammar.LR1Item.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/ictiobus/internal/util"
)

// FATransition is a single edge in a finite automaton, labeled with the
// input symbol that causes it to be taken (the empty string denotes an
// ε-transition) and the name of the state it leads to.
type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	inp := t.input
	if inp == "" {
		inp = "ε"
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

func mustParseFATransition(s string) FATransition {
	t, err := parseFATransition(s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

func parseFATransition(s string) (FATransition, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, " ", 2)

	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	if len(left) < 3 {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left len < 3: %q", left)
	}

	if left[0] != '=' {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left[0] != '=': %q", left)
	}
	if left[1] != '(' {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left[1] != '(': %q", left)
	}
	left = left[2:]
	// also chop off the ending arrow
	if len(left) < 4 {
		return FATransition{}, fmt.Errorf("not a valid left: len(chopped) < 4: %q", left)
	}
	if left[len(left)-1] != '>' {
		return FATransition{}, fmt.Errorf("not a valid left: chopped[-1] != '>': %q", left)
	}
	if left[len(left)-2] != '=' {
		return FATransition{}, fmt.Errorf("not a valid left: chopped[-2] != '=': %q", left)
	}
	if left[len(left)-3] != ')' {
		return FATransition{}, fmt.Errorf("not a valid left: chopped[-3] != ')': %q", left)
	}
	input := left[:len(left)-3]
	if input == "ε" {
		input = ""
	}

	// next is EASY af
	next := right
	if next == "" {
		return FATransition{}, fmt.Errorf("not a valid FATransition: bad next: %q", s)
	}

	return FATransition{
		input: input,
		next:  next,
	}, nil
}

// DFAState is a single state of a DFA[E]. ordering records the sequence in
// which the state was added to its automaton, independent of its name; it
// survives a NumberStates rename so that state creation order can still be
// recovered afterward.
type DFAState[E any] struct {
	ordering    uint64
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
}

func (ns DFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		moves.WriteString(ns.transitions[input].String())
		if i+1 < len(inputs) {
			moves.WriteRune(',')
			moves.WriteRune(' ')
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}

// Copy returns a duplicate of this state with its own transitions map.
func (ns DFAState[E]) Copy() DFAState[E] {
	copiedTransitions := make(map[string]FATransition, len(ns.transitions))
	for k, v := range ns.transitions {
		copiedTransitions[k] = v
	}

	return DFAState[E]{
		ordering:    ns.ordering,
		name:        ns.name,
		value:       ns.value,
		transitions: copiedTransitions,
		accepting:   ns.accepting,
	}
}

// NFAState is a single state of an NFA[E]. Unlike DFAState, each input
// symbol (including ε, the empty string) may lead to more than one
// transition.
type NFAState[E any] struct {
	ordering    uint64
	name        string
	value       E
	transitions map[string][]FATransition
	accepting   bool
}

func (ns NFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		var tStrings []string

		for _, t := range ns.transitions[input] {
			tStrings = append(tStrings, t.String())
		}

		sort.Strings(tStrings)

		for tIdx, t := range tStrings {
			moves.WriteString(t)
			if tIdx+1 < len(tStrings) || i+1 < len(inputs) {
				moves.WriteRune(',')
				moves.WriteRune(' ')
			}
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}

// Copy returns a duplicate of this state with its own transitions map.
func (ns NFAState[E]) Copy() NFAState[E] {
	copiedTransitions := make(map[string][]FATransition, len(ns.transitions))
	for k, v := range ns.transitions {
		cp := make([]FATransition, len(v))
		copy(cp, v)
		copiedTransitions[k] = cp
	}

	return NFAState[E]{
		ordering:    ns.ordering,
		name:        ns.name,
		value:       ns.value,
		transitions: copiedTransitions,
		accepting:   ns.accepting,
	}
}
