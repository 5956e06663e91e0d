// Package similarity builds the TF-IDF vector space over the catalog and the
// dense pairwise cosine-similarity matrix used for ranking.
package similarity

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {}, "can": {}, "she": {},
	"her": {}, "his": {}, "him": {}, "them": {}, "into": {},
}

// Tokenize lower-cases text, splits on non-alphanumeric boundaries, and
// drops stop-words and single-character fragments. The catalog text is
// normalized here once, at indexing time, so query-side and corpus-side
// features always agree.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < 2 {
			continue
		}
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
