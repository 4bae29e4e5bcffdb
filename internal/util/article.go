package util

import "strings"

// ArticleFor returns "a" or "an" as appropriate for the given word, based on
// whether the word starts with a vowel sound. If plural is true, returns
// "some" instead, for use in messages that refer to a collection.
func ArticleFor(word string, plural bool) string {
	if plural {
		return "some"
	}
	if word == "" {
		return "a"
	}

	switch strings.ToLower(word)[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	default:
		return "a"
	}
}
