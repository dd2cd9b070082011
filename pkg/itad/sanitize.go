package itad

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IsThereAnyDeal identifies games by a "plain": lower-case, no articles, no
// punctuation, digits spelled as (naive) roman numerals.
var numerals = map[rune]string{
	'1': "i",
	'2': "ii",
	'3': "iii",
	'4': "iv",
	'5': "v",
	'6': "vi",
	'7': "vii",
	'8': "viii",
	'9': "ix",
}

// 'z' is missing from the upstream character set; plains are matched
// against it as is.
const allowed = "abcdefghijklmnopqrstuvwxy0123456789"

// Sanitize turns a store title into the plain used by the ITAD API.
// Non-Latin titles are not handled: ITAD encodes them in an undocumented way.
func Sanitize(title string) string {
	text := RemoveArticles(cases.Lower(language.Und).String(title))

	var b strings.Builder
	for _, r := range text {
		if !strings.ContainsRune(allowed, r) {
			continue
		}
		if roman, ok := numerals[r]; ok {
			b.WriteString(roman)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RemoveArticles drops every whitespace-separated word equal to "the".
// Words that merely contain it ("theft") are kept.
func RemoveArticles(text string) string {
	words := strings.Fields(text)
	remaining := make([]string, 0, len(words))
	for _, w := range words {
		if w != "the" {
			remaining = append(remaining, w)
		}
	}
	return strings.Join(remaining, " ")
}
