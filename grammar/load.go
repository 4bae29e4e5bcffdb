package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/types"
)

// Parse loads a grammar from text of the form "LHS -> rhs1 | rhs2 | ... |
// rhsN", one head per line. "->" may also be written as the unicode arrow
// "→". Lines may be continued by starting the next line with "|" instead of
// repeating the head; a rule may also be closed with a trailing ";", which
// lets an entire rule sit on a single line. Comments run from "#" to the end
// of a line and blank lines are ignored.
//
// The first head encountered becomes the grammar's start symbol. Every
// non-terminal is exactly the set of heads that appear; every other symbol
// appearing on some rhs is registered as a terminal with a default
// TokenClass (see types.MakeDefaultClass), so that the returned Grammar's
// IsTerminal is usable immediately. Callers that need the real lexer
// TokenClass for a terminal can re-register it with AddTerm afterward.
func Parse(text string) (Grammar, error) {
	chunks, err := splitRules(text)
	if err != nil {
		return Grammar{}, err
	}

	rules := make([]Rule, 0, len(chunks))
	for _, chunk := range chunks {
		r, err := parseRuleOrErr(chunk)
		if err != nil {
			return Grammar{}, err
		}
		rules = append(rules, r)
	}

	nonTerms := map[string]bool{}
	for _, r := range rules {
		nonTerms[r.NonTerminal] = true
	}

	var g Grammar
	for _, r := range rules {
		for _, p := range r.Productions {
			g.AddRule(r.NonTerminal, p)
		}
	}

	for _, r := range rules {
		for _, p := range r.Productions {
			for _, sym := range p {
				if sym == Epsilon[0] || nonTerms[sym] {
					continue
				}
				if !g.IsTerminal(sym) {
					g.AddTerm(sym, types.MakeDefaultClass(sym))
				}
			}
		}
	}

	return g, nil
}

// MustParse is identical to Parse but panics if text cannot be parsed. It
// exists for call sites building a Grammar from a literal known good at
// compile time, such as tests.
func MustParse(text string) Grammar {
	g, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// splitRules breaks grammar text into one string per rule, each already
// stripped of comments and normalized to use "->". A line containing an
// arrow starts a new rule; a line without one is a continuation (by
// convention starting with "|") of whichever rule most recently started.
func splitRules(text string) ([]string, error) {
	var chunks []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if idx := strings.IndexRune(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, ";")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		line = strings.ReplaceAll(line, "→", "->")

		if strings.Contains(line, "->") {
			flush()
			cur.WriteString(line)
		} else {
			if cur.Len() == 0 {
				return nil, fmt.Errorf("grammar text: alternative %q has no preceding rule head", line)
			}
			cur.WriteString(" ")
			cur.WriteString(line)
		}
	}
	flush()

	return chunks, nil
}

// parseRuleOrErr is mustParseRule's non-panicking core; see mustParseRule
// for the grammar of a single rule string.
func parseRuleOrErr(s string) (Rule, error) {
	arrowIdx := strings.Index(s, "->")
	if arrowIdx < 0 {
		return Rule{}, fmt.Errorf("not a rule of form 'NONTERM -> ALTS': %q", s)
	}

	nonTerm := strings.TrimSpace(s[:arrowIdx])
	if nonTerm == "" {
		return Rule{}, fmt.Errorf("empty non-terminal name in rule: %q", s)
	}

	r := Rule{NonTerminal: nonTerm}
	for _, alt := range strings.Split(s[arrowIdx+2:], "|") {
		fields := strings.Fields(alt)
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 && strings.ToLower(fields[0]) == "ε" {
			r.Productions = append(r.Productions, Production{Epsilon[0]})
			continue
		}
		r.Productions = append(r.Productions, Production(fields))
	}

	return r, nil
}
