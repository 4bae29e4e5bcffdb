package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/internal/util"
	"github.com/dekarrin/ictiobus/types"
)

// Production is a single alternative for a non-terminal; a sequence of
// grammar symbols (terminal IDs and non-terminal names) that the
// non-terminal can expand to.
type Production []string

// Epsilon is the production consisting of a single empty-string symbol. It
// marks an alternative that derives no symbols at all.
var Epsilon = Production{""}

// Copy returns a duplicate of p that shares no backing array with it.
func (p Production) Copy() Production {
	c := make(Production, len(p))
	copy(c, p)
	return c
}

// Equal returns whether p and o contain the same symbols in the same order.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		otherSlice, ok2 := o.([]string)
		if !ok2 {
			return false
		}
		other = Production(otherSlice)
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String shows p in the "A B C" form used throughout rule text, or "ε" if p
// is the epsilon production.
func (p Production) String() string {
	if len(p) == 1 && p[0] == Epsilon[0] {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Rule is a single non-terminal and all of the alternatives it may expand to.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a duplicate of r that shares no backing storage with it.
func (r Rule) Copy() Rule {
	newR := Rule{NonTerminal: r.NonTerminal}
	newR.Productions = make([]Production, len(r.Productions))
	for i := range r.Productions {
		newR.Productions[i] = r.Productions[i].Copy()
	}
	return newR
}

// Equal returns whether r and other have the same non-terminal and the same
// productions in the same order.
func (r Rule) Equal(other Rule) bool {
	if r.NonTerminal != other.NonTerminal {
		return false
	}
	if len(r.Productions) != len(other.Productions) {
		return false
	}
	for i := range r.Productions {
		if !r.Productions[i].Equal(other.Productions[i]) {
			return false
		}
	}
	return true
}

func (r Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i := range r.Productions {
		alts[i] = r.Productions[i].String()
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// Grammar is a context-free grammar: a set of terminals (backed by the
// TokenClass that produces them) and a set of rules giving the productions
// of each non-terminal. The zero value is an empty grammar ready to have
// terms and rules added to it.
type Grammar struct {
	rules     []Rule
	ruleIdx   map[string]int
	terminals map[string]types.TokenClass
	termOrder []string
	start     string
}

// AddTerm registers a terminal symbol with the grammar under the given ID,
// associating it with the TokenClass that lexing produces for it.
func (g *Grammar) AddTerm(id string, class types.TokenClass) {
	if g.terminals == nil {
		g.terminals = map[string]types.TokenClass{}
	}
	if _, exists := g.terminals[id]; !exists {
		g.termOrder = append(g.termOrder, id)
	}
	g.terminals[id] = class
}

// Term retrieves the TokenClass registered for the given terminal ID.
func (g Grammar) Term(id string) types.TokenClass {
	return g.terminals[id]
}

// Terminals returns the IDs of all terminals in the grammar, in the order
// they were added.
func (g Grammar) Terminals() []string {
	terms := make([]string, len(g.termOrder))
	copy(terms, g.termOrder)
	return terms
}

// IsTerminal returns whether sym names a terminal registered with the
// grammar. It does not consider epsilon or the end-of-input marker "$" to be
// terminals.
func (g Grammar) IsTerminal(sym string) bool {
	_, ok := g.terminals[sym]
	return ok
}

// AddRule adds production as an alternative of nonTerminal, creating the
// rule if this is the first alternative seen for it. The first non-terminal
// ever added becomes the grammar's start symbol unless Grammar was built
// with one already set.
func (g *Grammar) AddRule(nonTerminal string, production Production) {
	if g.start == "" {
		g.start = nonTerminal
	}
	g.setRuleProductions(nonTerminal, append(g.Rule(nonTerminal).Productions, production))
}

// setRuleProductions overwrites (or creates) the rule for name with exactly
// the given productions.
func (g *Grammar) setRuleProductions(name string, prods []Production) {
	if g.ruleIdx == nil {
		g.ruleIdx = map[string]int{}
	}
	idx, ok := g.ruleIdx[name]
	if !ok {
		g.rules = append(g.rules, Rule{NonTerminal: name})
		idx = len(g.rules) - 1
		g.ruleIdx[name] = idx
		if g.start == "" {
			g.start = name
		}
	}
	g.rules[idx].Productions = prods
}

// Rule returns the rule for the given non-terminal name. If no rule is
// defined under that name, a Rule with no productions is returned.
func (g Grammar) Rule(name string) Rule {
	idx, ok := g.ruleIdx[name]
	if !ok {
		return Rule{NonTerminal: name}
	}
	return g.rules[idx]
}

// NonTerminals returns the names of all non-terminals in the grammar, in the
// order their rules were first created.
func (g Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i := range g.rules {
		names[i] = g.rules[i].NonTerminal
	}
	return names
}

// StartSymbol returns the name of the grammar's start non-terminal.
func (g Grammar) StartSymbol() string {
	return g.start
}

// Copy returns a duplicate of g that shares no rule storage with it. The
// terminal set is shared, as it is never mutated once built.
func (g Grammar) Copy() Grammar {
	newG := Grammar{start: g.start, terminals: g.terminals, termOrder: g.termOrder}

	newG.rules = make([]Rule, len(g.rules))
	for i := range g.rules {
		newG.rules[i] = g.rules[i].Copy()
	}
	if g.ruleIdx != nil {
		newG.ruleIdx = make(map[string]int, len(g.ruleIdx))
		for k, v := range g.ruleIdx {
			newG.ruleIdx[k] = v
		}
	}

	return newG
}

// Validate checks that the grammar has at least one rule, at least one
// terminal, and that every symbol used in a production is either a defined
// terminal or a defined non-terminal.
func (g Grammar) Validate() error {
	if len(g.rules) == 0 {
		return fmt.Errorf("grammar has no rules")
	}
	if len(g.terminals) == 0 {
		return fmt.Errorf("grammar has no terminals")
	}

	for _, r := range g.rules {
		for _, p := range r.Productions {
			for _, sym := range p {
				if sym == Epsilon[0] {
					continue
				}
				if g.IsTerminal(sym) {
					continue
				}
				if _, ok := g.ruleIdx[sym]; ok {
					continue
				}
				return fmt.Errorf("symbol %q used in production of %q is neither a defined terminal nor a defined non-terminal", sym, r.NonTerminal)
			}
		}
	}

	return nil
}

// GenerateUniqueNonTerminal returns a non-terminal name derived from base
// that does not already exist in g, by repeatedly appending "-P" until a
// free name is found.
func GenerateUniqueNonTerminal(base string, g Grammar) string {
	candidate := base + "-P"
	for {
		if _, exists := g.ruleIdx[candidate]; !exists {
			return candidate
		}
		candidate += "-P"
	}
}

// Augmented returns a copy of g with a new start symbol S' added, defined by
// the single production S' -> S where S is g's original start symbol. This
// is the first step of canonical-LR(0)/LR(1) table construction.
func (g Grammar) Augmented() Grammar {
	oldStart := g.StartSymbol()
	newStart := GenerateUniqueNonTerminal(oldStart, g)

	aug := Grammar{terminals: g.terminals, termOrder: g.termOrder, start: newStart}
	aug.AddRule(newStart, Production{oldStart})
	for _, r := range g.rules {
		for _, p := range r.Productions {
			aug.AddRule(r.NonTerminal, p)
		}
	}

	return aug
}

// LR0Items returns every LR(0) item derivable from g's rules: one item per
// dot position in every production of every rule. An epsilon production
// contributes exactly one item, with the dot immediately after the arrow.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item

	for _, r := range g.rules {
		for _, p := range r.Productions {
			if len(p) == 1 && p[0] == Epsilon[0] {
				items = append(items, LR0Item{NonTerminal: r.NonTerminal})
				continue
			}

			for dot := 0; dot <= len(p); dot++ {
				left := make([]string, dot)
				copy(left, p[:dot])
				right := make([]string, len(p)-dot)
				copy(right, p[dot:])
				items = append(items, LR0Item{NonTerminal: r.NonTerminal, Left: left, Right: right})
			}
		}
	}

	return items
}

// LR1_CLOSURE computes the closure of the given set of LR(1) items: for
// every item [A -> α.Xβ, a] in the set where X is a non-terminal, the
// closure adds [X -> .γ, b] for every production X -> γ and every terminal b
// in FIRST(βa).
func (g Grammar) LR1_CLOSURE(I util.SVSet[LR1Item]) util.SVSet[LR1Item] {
	closure := util.NewSVSet(I)
	first := g.firstSets()

	updated := true
	for updated {
		updated = false

		for _, key := range util.OrderedKeys(closure) {
			item := closure.Get(key)

			if len(item.Right) == 0 {
				continue
			}

			X := item.Right[0]
			if X == Epsilon[0] || g.IsTerminal(X) {
				continue
			}

			beta := item.Right[1:]
			lookFor := make([]string, len(beta)+1)
			copy(lookFor, beta)
			lookFor[len(beta)] = item.Lookahead
			followFirsts := g.firstOfSequence(first, lookFor)

			for _, gamma := range g.Rule(X).Productions {
				var right []string
				if !(len(gamma) == 1 && gamma[0] == Epsilon[0]) {
					right = []string(gamma)
				}

				for _, b := range followFirsts.Elements() {
					if b == Epsilon[0] {
						continue
					}

					newItem := LR1Item{
						LR0Item:   LR0Item{NonTerminal: X, Right: right},
						Lookahead: b,
					}
					itemKey := newItem.String()
					if !closure.Has(itemKey) {
						closure.Set(itemKey, newItem)
						updated = true
					}
				}
			}
		}
	}

	return closure
}

// firstSets computes FIRST(X) for every terminal, non-terminal, and epsilon
// in the grammar, as a fixed-point over the productions.
func (g Grammar) firstSets() map[string]util.StringSet {
	first := map[string]util.StringSet{}
	first[Epsilon[0]] = util.NewStringSet(map[string]bool{Epsilon[0]: true})

	for _, t := range g.termOrder {
		first[t] = util.NewStringSet(map[string]bool{t: true})
	}
	for _, nt := range g.NonTerminals() {
		if _, ok := first[nt]; !ok {
			first[nt] = util.NewStringSet()
		}
	}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			for _, p := range r.Productions {
				seqFirst := g.firstOfSequence(first, []string(p))
				for _, s := range seqFirst.Elements() {
					if !first[r.NonTerminal].Has(s) {
						first[r.NonTerminal].Add(s)
						changed = true
					}
				}
			}
		}
	}

	return first
}

// firstOfSequence computes FIRST of a string of grammar symbols using the
// FIRST sets already computed for individual symbols.
func (g Grammar) firstOfSequence(first map[string]util.StringSet, seq []string) util.StringSet {
	result := util.NewStringSet()

	if len(seq) == 1 && seq[0] == Epsilon[0] {
		result.Add(Epsilon[0])
		return result
	}

	allNullable := true
	for _, sym := range seq {
		symFirst, ok := first[sym]
		if !ok {
			// unregistered symbol; treat as if it were its own terminal
			result.Add(sym)
			allNullable = false
			break
		}

		for _, s := range symFirst.Elements() {
			if s != Epsilon[0] {
				result.Add(s)
			}
		}

		if !symFirst.Has(Epsilon[0]) {
			allNullable = false
			break
		}
	}

	if allNullable {
		result.Add(Epsilon[0])
	}

	return result
}

// FIRST returns the FIRST set of sym: the set of terminals (and possibly
// epsilon) that can begin a string derived from sym.
func (g Grammar) FIRST(sym string) util.ISet[string] {
	if sym == Epsilon[0] {
		return util.NewStringSet(map[string]bool{Epsilon[0]: true})
	}

	first := g.firstSets()
	if set, ok := first[sym]; ok {
		return set
	}

	return util.NewStringSet(map[string]bool{sym: true})
}

// FOLLOW returns the FOLLOW set of sym: the set of terminals (and possibly
// the end marker "$") that can immediately follow an occurrence of sym in
// some derivation. FOLLOW is defined here for both non-terminals and
// terminals; it is the set of symbols that directly follow sym wherever it
// appears on the right-hand side of a production.
func (g Grammar) FOLLOW(sym string) util.ISet[string] {
	follow := g.followSets()
	if set, ok := follow[sym]; ok {
		return set
	}
	return util.NewStringSet()
}

func (g Grammar) followSets() map[string]util.StringSet {
	first := g.firstSets()
	follow := map[string]util.StringSet{}

	for _, t := range g.termOrder {
		follow[t] = util.NewStringSet()
	}
	for _, nt := range g.NonTerminals() {
		if _, ok := follow[nt]; !ok {
			follow[nt] = util.NewStringSet()
		}
	}

	if g.start != "" {
		if _, ok := follow[g.start]; ok {
			follow[g.start].Add("$")
		}
	}

	changed := true
	for changed {
		changed = false

		for _, r := range g.rules {
			for _, p := range r.Productions {
				symbols := []string(p)
				if len(symbols) == 1 && symbols[0] == Epsilon[0] {
					continue
				}

				for i, sym := range symbols {
					symFollow, ok := follow[sym]
					if !ok {
						continue
					}

					rest := symbols[i+1:]
					restFirst := g.firstOfSequence(first, rest)

					for _, s := range restFirst.Elements() {
						if s == Epsilon[0] {
							continue
						}
						if !symFollow.Has(s) {
							symFollow.Add(s)
							changed = true
						}
					}

					if restFirst.Has(Epsilon[0]) {
						for _, s := range follow[r.NonTerminal].Elements() {
							if !symFollow.Has(s) {
								symFollow.Add(s)
								changed = true
							}
						}
					}
				}
			}
		}
	}

	return follow
}

// reachableFrom returns the set of non-terminals reachable from start by
// following symbols appearing in productions.
func (g Grammar) reachableFrom(start string) map[string]bool {
	reachable := map[string]bool{}

	var visit func(string)
	visit = func(name string) {
		if reachable[name] {
			return
		}
		reachable[name] = true

		for _, p := range g.Rule(name).Productions {
			for _, sym := range p {
				if sym == Epsilon[0] || g.IsTerminal(sym) {
					continue
				}
				if _, ok := g.ruleIdx[sym]; ok {
					visit(sym)
				}
			}
		}
	}

	if start != "" {
		visit(start)
	}

	return reachable
}

// filteredByReachability returns a copy of g containing only the rules
// reachable from g's start symbol, in their original relative order.
func (g Grammar) filteredByReachability() Grammar {
	reachable := g.reachableFrom(g.start)

	result := Grammar{start: g.start, terminals: g.terminals, termOrder: g.termOrder}
	for _, r := range g.rules {
		if !reachable[r.NonTerminal] {
			continue
		}
		for _, p := range r.Productions {
			result.AddRule(r.NonTerminal, p)
		}
	}

	return result
}

// nullableNonTerminals returns the set of non-terminals that can derive the
// empty string.
func (g Grammar) nullableNonTerminals() map[string]bool {
	nullable := map[string]bool{}

	for _, r := range g.rules {
		for _, p := range r.Productions {
			if len(p) == 1 && p[0] == Epsilon[0] {
				nullable[r.NonTerminal] = true
			}
		}
	}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			if nullable[r.NonTerminal] {
				continue
			}

			for _, p := range r.Productions {
				allNullable := len(p) > 0
				for _, sym := range p {
					if sym == Epsilon[0] {
						continue
					}
					if g.IsTerminal(sym) || !nullable[sym] {
						allNullable = false
						break
					}
				}
				if allNullable {
					nullable[r.NonTerminal] = true
					changed = true
					break
				}
			}
		}
	}

	return nullable
}

// RemoveEpsilons returns a grammar equivalent to g (up to whether it accepts
// the empty string) but with no epsilon productions. For every production
// containing nullable symbols, every combination of keeping and dropping
// those symbols is added, except the combination that empties the
// production entirely. This is Algorithm 4.19 from the purple dragon book.
func (g Grammar) RemoveEpsilons() Grammar {
	nullable := g.nullableNonTerminals()

	result := Grammar{start: g.start, terminals: g.terminals, termOrder: g.termOrder}

	for _, r := range g.rules {
		seen := map[string]bool{}

		for _, p := range r.Productions {
			if len(p) == 1 && p[0] == Epsilon[0] {
				continue
			}

			var nullableIdx []int
			for i, sym := range p {
				if nullable[sym] {
					nullableIdx = append(nullableIdx, i)
				}
			}

			n := len(nullableIdx)
			for mask := 0; mask < (1 << n); mask++ {
				drop := map[int]bool{}
				for bit := 0; bit < n; bit++ {
					if mask&(1<<bit) != 0 {
						drop[nullableIdx[bit]] = true
					}
				}

				var newProd []string
				for i, sym := range p {
					if drop[i] {
						continue
					}
					newProd = append(newProd, sym)
				}
				if len(newProd) == 0 {
					continue
				}

				key := strings.Join(newProd, " ")
				if seen[key] {
					continue
				}
				seen[key] = true

				result.AddRule(r.NonTerminal, Production(newProd))
			}
		}
	}

	return result
}

// resolveUnitProductions returns the fully-expanded (non-unit) productions
// of nonTerminal, substituting any single-nonterminal alternative with the
// resolved productions of its target. visited guards against cycles along
// the current expansion chain.
func (g Grammar) resolveUnitProductions(nonTerminal string, visited map[string]bool) []Production {
	if visited[nonTerminal] {
		return nil
	}
	visited[nonTerminal] = true
	defer delete(visited, nonTerminal)

	var result []Production
	for _, p := range g.Rule(nonTerminal).Productions {
		if len(p) == 1 && p[0] != Epsilon[0] && !g.IsTerminal(p[0]) {
			result = append(result, g.resolveUnitProductions(p[0], visited)...)
		} else {
			result = append(result, p)
		}
	}

	return result
}

// RemoveUnitProductions returns a grammar equivalent to g with no unit
// productions (alternatives consisting of exactly one non-terminal).
// Non-terminals left unreferenced by the result are dropped.
func (g Grammar) RemoveUnitProductions() Grammar {
	expanded := map[string][]Production{}
	for _, r := range g.rules {
		expanded[r.NonTerminal] = g.resolveUnitProductions(r.NonTerminal, map[string]bool{})
	}

	working := Grammar{start: g.start, terminals: g.terminals, termOrder: g.termOrder}
	for _, r := range g.rules {
		working.setRuleProductions(r.NonTerminal, expanded[r.NonTerminal])
	}

	return working.filteredByReachability()
}

// eliminateImmediateLeftRecursion rewrites productions of nonTerminal to
// remove any alternative that immediately left-recurses (begins with
// nonTerminal itself). If no non-recursive alternative exists, the
// recursive ones are rewritten in place as right recursion through
// nonTerminal and no fresh symbol is introduced. Otherwise a fresh
// non-terminal is introduced (via extra) to carry the recursive tail.
func eliminateImmediateLeftRecursion(existing Grammar, nonTerminal string, productions []Production) (result []Production, extraName string, extraProds []Production) {
	var alphas, betas []Production
	for _, p := range productions {
		if len(p) > 0 && p[0] == nonTerminal {
			alphas = append(alphas, Production(append([]string{}, p[1:]...)))
		} else {
			betas = append(betas, p)
		}
	}

	if len(alphas) == 0 {
		return productions, "", nil
	}

	if len(betas) == 0 {
		var newProds []Production
		for _, alpha := range alphas {
			sym := append(append([]string{}, []string(alpha)...), nonTerminal)
			newProds = append(newProds, Production(sym))
		}
		newProds = append(newProds, Epsilon)
		return newProds, "", nil
	}

	fresh := GenerateUniqueNonTerminal(nonTerminal, existing)

	var baseProds []Production
	for _, beta := range betas {
		if len(beta) == 1 && beta[0] == Epsilon[0] {
			baseProds = append(baseProds, Production{fresh})
		} else {
			sym := append(append([]string{}, []string(beta)...), fresh)
			baseProds = append(baseProds, Production(sym))
		}
	}

	var freshProds []Production
	for _, alpha := range alphas {
		sym := append(append([]string{}, []string(alpha)...), fresh)
		freshProds = append(freshProds, Production(sym))
	}
	freshProds = append(freshProds, Epsilon)

	return baseProds, fresh, freshProds
}

// substituteLeading replaces every production in prods that begins with
// otherName with otherName's current productions (in g), followed by the
// remainder of the original production.
func substituteLeading(g Grammar, otherName string, prods []Production) []Production {
	otherProds := g.Rule(otherName).Productions

	var result []Production
	for _, p := range prods {
		if len(p) > 0 && p[0] == otherName {
			rest := p[1:]
			for _, op := range otherProds {
				var newP []string
				if !(len(op) == 1 && op[0] == Epsilon[0]) {
					newP = append(newP, []string(op)...)
				}
				newP = append(newP, rest...)
				if len(newP) == 0 {
					newP = []string{Epsilon[0]}
				}
				result = append(result, Production(newP))
			}
		} else {
			result = append(result, p)
		}
	}

	return result
}

// RemoveLeftRecursion returns a grammar equivalent to g with no left
// recursion, direct or indirect. Epsilon productions are removed first, as
// the standard construction (Algorithm 4.20 from the purple dragon book)
// requires a grammar with no epsilon productions and no cycles to
// terminate cleanly. Non-terminals are processed in the reverse of their
// declaration order, which is the order needed so that, by the time a
// non-terminal is processed, every non-terminal it can indirectly recurse
// through has already had its own left recursion eliminated. Non-terminals
// left unreferenced by the result are dropped.
func (g Grammar) RemoveLeftRecursion() Grammar {
	noEps := g.RemoveEpsilons()

	order := make([]string, len(noEps.rules))
	for i, r := range noEps.rules {
		order[len(noEps.rules)-1-i] = r.NonTerminal
	}

	working := noEps.Copy()

	for idx, ntName := range order {
		prods := working.Rule(ntName).Productions

		for _, earlier := range order[:idx] {
			prods = substituteLeading(working, earlier, prods)
		}

		newProds, freshName, freshProds := eliminateImmediateLeftRecursion(working, ntName, prods)
		working.setRuleProductions(ntName, newProds)
		if freshName != "" {
			working.setRuleProductions(freshName, freshProds)
		}
	}

	return working.filteredByReachability()
}

// commonPrefixLen returns the length of the longest common prefix shared by
// every production in prods at the given indices.
func commonPrefixLen(prods []Production, idxs []int) int {
	first := []string(prods[idxs[0]])
	maxLen := len(first)

	for _, i := range idxs[1:] {
		p := []string(prods[i])
		l := 0
		for l < maxLen && l < len(p) && p[l] == first[l] {
			l++
		}
		if l < maxLen {
			maxLen = l
		}
	}

	return maxLen
}

// leftFactorOnce performs a single left-factoring pass over the productions
// of a non-terminal, grouping alternatives by shared leading symbols and
// factoring out the longest common prefix of the first group (in order of
// first appearance) that has two or more alternatives. Other groups are left
// as they are for a later pass.
func leftFactorOnce(existing Grammar, ntName string, prods []Production) (result []Production, freshName string, freshProds []Production, changed bool) {
	groups := map[string][]int{}
	var order []string
	for i, p := range prods {
		if len(p) == 0 {
			continue
		}
		key := p[0]
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	handled := map[int]bool{}

	for _, key := range order {
		idxs := groups[key]
		if len(idxs) < 2 {
			continue
		}

		prefixLen := commonPrefixLen(prods, idxs)
		if prefixLen == 0 {
			continue
		}

		prefix := append([]string{}, []string(prods[idxs[0]])[:prefixLen]...)
		fresh := GenerateUniqueNonTerminal(ntName, existing)

		var groupFreshProds []Production
		for _, i := range idxs {
			suffix := []string(prods[i])[prefixLen:]
			if len(suffix) == 0 {
				groupFreshProds = append(groupFreshProds, Epsilon)
			} else {
				groupFreshProds = append(groupFreshProds, Production(append([]string{}, suffix...)))
			}
			handled[i] = true
		}

		result = append(result, Production(append(prefix, fresh)))
		freshName = fresh
		freshProds = groupFreshProds
		changed = true

		// only factor one group per pass; subsequent groups (and any
		// further factoring the fresh rule itself needs) are handled by
		// the caller's fixed-point loop.
		break
	}

	for i, p := range prods {
		if handled[i] {
			continue
		}
		result = append(result, p)
	}

	return result, freshName, freshProds, changed
}

// LeftFactor returns a grammar equivalent to g where no non-terminal has two
// alternatives sharing a common prefix, which would otherwise force a
// predictive parser to look further ahead than one symbol to choose between
// them. This is Algorithm 4.21 from the purple dragon book.
func (g Grammar) LeftFactor() Grammar {
	working := g.Copy()

	changed := true
	for changed {
		changed = false

		for _, ntName := range working.NonTerminals() {
			newProds, freshName, freshProds, didChange := leftFactorOnce(working, ntName, working.Rule(ntName).Productions)
			if !didChange {
				continue
			}

			working.setRuleProductions(ntName, newProds)
			working.setRuleProductions(freshName, freshProds)
			changed = true
		}
	}

	return working.filteredByReachability()
}

func (g Grammar) String() string {
	var sb strings.Builder
	for i := range g.rules {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(g.rules[i].String())
	}
	return sb.String()
}

// mustParseRule parses a rule in the form "A -> b c | d", where "ε" denotes
// the epsilon production. Alternatives may be split across lines as long as
// each continuation line's "|" comes before the next alternative. It panics
// if s cannot be parsed.
func mustParseRule(s string) Rule {
	r, err := parseRuleOrErr(s)
	if err != nil {
		panic(err.Error())
	}
	return r
}
