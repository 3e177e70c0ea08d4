package text

import (
	"cmp"
	"slices"
	"strings"
)

// DefaultTopN is the number of terms shown in a word cloud.
const DefaultTopN = 5

// Term is a token with its occurrence count. Tokens are unique within a
// ranked list.
type Term struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// stripped holds the punctuation removed before splitting. Apostrophes are
// kept so contractions match the stop-word list.
const stripped = ".,/#!$%^&*;:{}=_`~()"

var stripper = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(stripped))
	for _, r := range stripped {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}()

// Tokenize lowercases s, removes punctuation and splits it on whitespace.
// Runs of whitespace never produce empty tokens.
func Tokenize(s string) []string {
	return strings.Fields(stripper.Replace(strings.ToLower(s)))
}

// Frequencies counts the non-stop-word tokens of s in order of first
// appearance.
func Frequencies(s string) []Term {
	var terms []Term
	index := make(map[string]int)
	for _, tok := range Tokenize(s) {
		if IsStopWord(tok) {
			continue
		}
		if i, ok := index[tok]; ok {
			terms[i].Count++
			continue
		}
		index[tok] = len(terms)
		terms = append(terms, Term{Token: tok, Count: 1})
	}
	return terms
}

// Rank returns a copy of terms sorted by descending count and truncated to
// n entries. Equal counts keep their input order. n <= 0 keeps everything.
func Rank(terms []Term, n int) []Term {
	out := slices.Clone(terms)
	slices.SortStableFunc(out, func(a, b Term) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Extract is Frequencies followed by Rank.
func Extract(s string, n int) []Term {
	return Rank(Frequencies(s), n)
}
