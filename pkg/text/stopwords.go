package text

var stopWords = func() map[string]struct{} {
	words := []string{
		"the", "and", "a", "an", "in", "on", "at", "for", "with", "about", "as", "by", "to", "of",
		"from", "that", "which", "who", "whom", "this", "these", "those", "it", "its", "they",
		"their", "them", "we", "our", "ours", "you", "your", "yours", "he", "him", "his", "she",
		"her", "hers", "us", "theirs", "i", "me", "my", "myself", "yourself", "yourselves",
		"was", "were", "is", "am", "are", "be", "been", "being", "have", "has", "had", "having",
		"do", "does", "did", "doing", "if", "each", "how", "what", "without", "through", "over",
		"under", "above", "below", "between", "among", "during", "before", "after", "until",
		"while", "off", "out", "into", "against", "amongst", "throughout", "despite", "towards",
		"upon",
		"isn't", "aren't", "wasn't", "weren't", "haven't", "hasn't", "hadn't", "doesn't",
		"didn't", "don't", "won't", "wouldn't", "can't", "couldn't", "shouldn't", "mustn't",
		"needn't", "daren't",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// IsStopWord reports whether the lowercase token w is filtered out of
// frequency counts.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// StopWordCount returns the size of the stop-word list.
func StopWordCount() int { return len(stopWords) }
