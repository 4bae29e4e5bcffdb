package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/ictiobus/internal/util"
)

// Minimize collapses equivalent states of dfa into single states, producing
// the smallest DFA accepting the same language, via the classic partition
// refinement algorithm (purple dragon book algorithm 3.39, "minimizing the
// number of states of a DFA").
//
// distinguish further splits states that the pure transition-equivalence
// check would otherwise consider mergeable; it is consulted only for
// accepting states, and two accepting states are only ever placed in the
// same partition if distinguish returns the same label for both. This
// matters for a lexer's DFA: two rules can have identical residual
// languages from some point on and still need to remain distinguishable
// states so the scanner knows which rule's action fired. Pass a function
// that returns the same constant for every state if no such distinction is
// needed.
func Minimize[E any](dfa DFA[E], distinguish func(state string) string) DFA[E] {
	dfa = trimUnreachable(dfa)

	symbols := util.NewStringSet()
	for _, sName := range dfa.States().Elements() {
		st := dfa.states[sName]
		for sym := range st.transitions {
			symbols.Add(sym)
		}
	}
	alphabet := symbols.Elements()
	sort.Strings(alphabet)

	groups, groupOf := initialPartition(dfa, distinguish)
	groups, groupOf = refinePartition(dfa, alphabet, groups, groupOf)

	return buildFromPartition(dfa, alphabet, groups, groupOf)
}

// trimUnreachable keeps only states reachable from the start state; feeding
// an unreachable state into partition refinement can cause the algorithm to
// decide equivalences it shouldn't, since such a state has no bearing on
// the language the DFA accepts.
func trimUnreachable[E any](dfa DFA[E]) DFA[E] {
	if _, ok := dfa.states[dfa.Start]; !ok {
		return dfa
	}

	reached := util.NewStringSet()
	queue := util.Stack[string]{}
	queue.Push(dfa.Start)
	reached.Add(dfa.Start)

	for queue.Len() > 0 {
		cur := queue.Pop()
		st := dfa.states[cur]
		for _, t := range st.transitions {
			if !reached.Has(t.next) {
				reached.Add(t.next)
				queue.Push(t.next)
			}
		}
	}

	if reached.Len() == dfa.States().Len() {
		return dfa
	}

	trimmed := DFA[E]{Start: dfa.Start}
	for _, sName := range reached.Elements() {
		st := dfa.states[sName]
		trimmed.AddState(sName, st.accepting)
		trimmed.SetValue(sName, st.value)
	}
	for _, sName := range reached.Elements() {
		st := dfa.states[sName]
		for sym, t := range st.transitions {
			trimmed.AddTransition(sName, sym, t.next)
		}
	}

	return trimmed
}

func initialPartition[E any](dfa DFA[E], distinguish func(state string) string) ([][]string, map[string]int) {
	groupOf := map[string]int{}
	labelGroups := map[string]int{}
	var groups [][]string

	allStates := dfa.States().Elements()
	sort.Strings(allStates)

	for _, s := range allStates {
		label := "reject"
		if dfa.IsAccepting(s) {
			d := ""
			if distinguish != nil {
				d = distinguish(s)
			}
			label = "accept:" + d
		}

		gi, ok := labelGroups[label]
		if !ok {
			gi = len(groups)
			labelGroups[label] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], s)
		groupOf[s] = gi
	}

	return groups, groupOf
}

func refinePartition[E any](dfa DFA[E], alphabet []string, groups [][]string, groupOf map[string]int) ([][]string, map[string]int) {
	changed := true
	for changed {
		changed = false
		var newGroups [][]string
		newGroupOf := map[string]int{}

		for _, members := range groups {
			sigToBucket := map[string]int{}
			var buckets [][]string

			for _, s := range members {
				var sig strings.Builder
				for _, sym := range alphabet {
					next := dfa.Next(s, sym)
					if next == "" {
						sig.WriteString("-|")
						continue
					}
					fmt.Fprintf(&sig, "%d|", groupOf[next])
				}

				bi, ok := sigToBucket[sig.String()]
				if !ok {
					bi = len(buckets)
					sigToBucket[sig.String()] = bi
					buckets = append(buckets, nil)
				}
				buckets[bi] = append(buckets[bi], s)
			}

			if len(buckets) > 1 {
				changed = true
			}
			for _, b := range buckets {
				gi := len(newGroups)
				newGroups = append(newGroups, b)
				for _, s := range b {
					newGroupOf[s] = gi
				}
			}
		}

		groups = newGroups
		groupOf = newGroupOf
	}

	return groups, groupOf
}

func buildFromPartition[E any](dfa DFA[E], alphabet []string, groups [][]string, groupOf map[string]int) DFA[E] {
	groupName := func(members []string) string {
		cp := append([]string(nil), members...)
		sort.Strings(cp)
		return strings.Join(cp, ",")
	}

	nameFor := make([]string, len(groups))
	for gi, members := range groups {
		nameFor[gi] = groupName(members)
	}

	min := DFA[E]{}
	for gi, members := range groups {
		rep := members[0]
		min.AddState(nameFor[gi], dfa.IsAccepting(rep))
		min.SetValue(nameFor[gi], dfa.GetValue(rep))

		if members[0] == dfa.Start || containsStr(members, dfa.Start) {
			min.Start = nameFor[gi]
		}
	}

	for gi, members := range groups {
		rep := members[0]
		for _, sym := range alphabet {
			next := dfa.Next(rep, sym)
			if next == "" {
				continue
			}
			min.AddTransition(nameFor[gi], sym, nameFor[groupOf[next]])
		}
	}

	return min
}

func containsStr(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
