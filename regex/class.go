package regex

import (
	"fmt"
	"sort"
)

// expandEscapeClass returns the literal symbols matched by a backslash escape
// code such as \d, \w, or \s, or the single control character named by \n or
// \t. The second return value is false for any other c (in which case the
// escape is a literal escaped character, not a class).
func expandEscapeClass(c rune) ([]string, bool) {
	switch c {
	case 'n':
		return []string{"\n"}, true
	case 't':
		return []string{"\t"}, true
	case 'd':
		return runeRange('0', '9'), true
	case 'w':
		syms := runeRange('A', 'Z')
		syms = append(syms, runeRange('a', 'z')...)
		syms = append(syms, runeRange('0', '9')...)
		syms = append(syms, "_")
		return syms, true
	case 's':
		return []string{" ", "\t", "\n", "\r", "\f", "\v"}, true
	default:
		return nil, false
	}
}

// runeRange expands an inclusive code point range into a slice of
// single-rune strings, in ascending order.
func runeRange(low, high rune) []string {
	if high < low {
		low, high = high, low
	}
	syms := make([]string, 0, high-low+1)
	for r := low; r <= high; r++ {
		syms = append(syms, string(r))
	}
	return syms
}

// parseBracketBody parses the body of a `[...]` bracket expression (the part
// between the brackets); a leading `^` is consumed and reported via negate. pos is advanced past the body but leaves the caller to consume
// the closing `]`.
func parseBracketBody(runes []rune, pos int) (members []string, negate bool, newPos int, err error) {
	if pos < len(runes) && runes[pos] == '^' {
		negate = true
		pos++
	}

	seen := map[string]bool{}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			members = append(members, s)
		}
	}

	first := true
	for pos < len(runes) {
		if runes[pos] == ']' && !first {
			return members, negate, pos, nil
		}
		first = false

		c := runes[pos]
		if c == '\\' && pos+1 < len(runes) {
			esc := runes[pos+1]
			if cls, ok := expandEscapeClass(esc); ok {
				for _, s := range cls {
					add(s)
				}
			} else {
				add(string(esc))
			}
			pos += 2
			continue
		}

		// range? c '-' c2, where c2 isn't the closing bracket
		if pos+2 < len(runes) && runes[pos+1] == '-' && runes[pos+2] != ']' {
			low, high := c, runes[pos+2]
			for _, s := range runeRange(low, high) {
				add(s)
			}
			pos += 3
			continue
		}

		add(string(c))
		pos++
	}

	return nil, false, pos, fmt.Errorf("unterminated bracket expression")
}

// resolveNegation computes the symbols matched by a negated class, given the
// working alphabet observed elsewhere in the pattern.
func resolveNegation(alphabet []string, excluded []string) []string {
	excludeSet := map[string]bool{}
	for _, s := range excluded {
		excludeSet[s] = true
	}

	var result []string
	for _, s := range alphabet {
		if !excludeSet[s] {
			result = append(result, s)
		}
	}
	sort.Strings(result)
	return result
}

// scanAlphabet collects every literal symbol a pattern could directly
// reference: bare literal characters, escape-class expansions, and the
// positive members of (non-negated) bracket expressions. This becomes the
// "working alphabet" that a `[^...]` negation is resolved against, per the
// pinned semantics for finite, predictable negated classes.
func scanAlphabet(pattern string) []string {
	runes := []rune(pattern)
	seen := map[string]bool{}
	var alphabet []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			alphabet = append(alphabet, s)
		}
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '|', '*', '+', '?', '(', ')', '.':
			continue
		case '\\':
			if i+1 < len(runes) {
				esc := runes[i+1]
				if cls, ok := expandEscapeClass(esc); ok {
					for _, s := range cls {
						add(s)
					}
				} else {
					add(string(esc))
				}
				i++
			}
		case '[':
			members, negate, newPos, err := parseBracketBody(runes, i+1)
			if err == nil {
				if !negate {
					for _, m := range members {
						add(m)
					}
				}
				i = newPos // points at ']', loop's i++ skips it
			}
		default:
			add(string(c))
		}
	}

	return alphabet
}
