package analysis

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// maxTrends caps the number of detected themes per document.
	maxTrends = 10

	// minMentions is the occurrence floor below which a term is noise.
	minMentions = 3

	// minTermLength filters short function words the stopword list misses.
	minTermLength = 4
)

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "against": {}, "also": {},
	"because": {}, "been": {}, "before": {}, "being": {}, "between": {},
	"both": {}, "cannot": {}, "could": {}, "does": {}, "doing": {},
	"down": {}, "during": {}, "each": {}, "even": {}, "every": {},
	"from": {}, "further": {}, "have": {}, "having": {}, "here": {},
	"into": {}, "itself": {}, "just": {}, "more": {},
	"most": {}, "much": {}, "must": {}, "only": {}, "other": {},
	"over": {}, "same": {}, "shall": {}, "should": {}, "some": {},
	"such": {}, "than": {}, "that": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "through": {}, "thus": {}, "under": {}, "upon": {},
	"very": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"within": {}, "without": {}, "would": {}, "your": {},
}

// DetectTrends finds the most frequently recurring content words in text
// and reports them as themes. Results are ordered by mention count, then
// alphabetically for determinism.
func DetectTrends(text, thinker string) []Trend {
	counts := make(map[string]int)

	for _, token := range tokenize(text) {
		if len(token) < minTermLength {
			continue
		}
		if _, ok := stopwords[token]; ok {
			continue
		}
		counts[token]++
	}

	terms := make([]string, 0, len(counts))
	for term, n := range counts {
		if n >= minMentions {
			terms = append(terms, term)
		}
	}

	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > maxTrends {
		terms = terms[:maxTrends]
	}

	trends := make([]Trend, 0, len(terms))
	for _, term := range terms {
		trends = append(trends, Trend{
			Thinker:  strings.ToLower(thinker),
			Theme:    term,
			Mentions: counts[term],
		})
	}

	return trends
}

// tokenize lowercases text and splits it on non-letter runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
