// Package text extracts ranked word frequencies from free-form input.
//
// Extraction lowercases the input, strips a fixed punctuation set, splits on
// whitespace and drops English stop words. Terms keep the order in which
// they first appear; [Rank] then sorts them by descending count with a
// stable sort, so ties stay in first-appearance order.
//
//	terms := text.Extract("the cat sat on the mat the cat ran", 5)
//	// [{cat 2} {sat 1} {mat 1} {ran 1}]
//
// The stop-word list is an immutable package-level table and is safe for
// concurrent use.
package text
