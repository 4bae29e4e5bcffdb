package lex

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/util"
	"github.com/dekarrin/ictiobus/regex"
)

// patAct pairs a registered pattern's source text and desired action with
// the priority used to break longest-match ties against other patterns
// registered for the same state.
type patAct struct {
	src      string
	act      Action
	priority int
}

// compileStatePatterns builds the single minimized DFA that recognizes every
// pattern registered for one lexer state at once. Each pattern becomes its
// own Thompson-construction fragment (C1/C2, via the regex package); the
// fragments are joined into one NFA via epsilon transitions from a shared
// start, converted to a DFA by subset construction (algorithm 3.20), and
// then minimized (algorithm 3.39). The value stored at each DFA state is the
// index (as a string) of the pattern that should fire if the scanner halts
// there, chosen by highest declared priority and then earliest registration;
// it is "" for non-accepting states.
func compileStatePatterns(pats []patAct) (automaton.DFA[string], error) {
	if len(pats) == 0 {
		return automaton.DFA[string]{}, fmt.Errorf("no patterns registered for this state")
	}

	var combined automaton.NFA[string]
	combined.AddState("START", false)
	combined.Start = "START"

	for i, p := range pats {
		frag, err := regex.ToNFA(p.src)
		if err != nil {
			return automaton.DFA[string]{}, fmt.Errorf("pattern %d (%q): %w", i, p.src, err)
		}

		acceptStates := frag.AcceptingStates().Elements()
		if len(acceptStates) != 1 {
			return automaton.DFA[string]{}, fmt.Errorf("pattern %d (%q): expected exactly one accepting state, got %d", i, p.src, len(acceptStates))
		}
		frag.SetValue(acceptStates[0], strconv.Itoa(i))

		joined, err := combined.Join(frag, [][3]string{{combined.Start, "", frag.Start}}, nil, nil, nil)
		if err != nil {
			return automaton.DFA[string]{}, fmt.Errorf("joining pattern %d (%q): %w", i, p.src, err)
		}
		combined = joined
	}

	subsetDFA := combined.ToDFA()

	winnerTag := automaton.TransformDFA(subsetDFA, func(old util.SVSet[string]) string {
		best := -1
		for _, tag := range old {
			if tag == "" {
				continue
			}
			idx, err := strconv.Atoi(tag)
			if err != nil {
				continue
			}
			if best == -1 || higherPriority(pats, idx, best) {
				best = idx
			}
		}
		if best == -1 {
			return ""
		}
		return strconv.Itoa(best)
	})

	minimized := automaton.Minimize(winnerTag, winnerTag.GetValue)
	minimized.NumberStates()

	return minimized, nil
}

// higherPriority reports whether pattern a should win over pattern b when
// both match the same longest lexeme: highest declared priority first, then
// earliest registration.
func higherPriority(pats []patAct, a, b int) bool {
	if pats[a].priority != pats[b].priority {
		return pats[a].priority > pats[b].priority
	}
	return a < b
}
