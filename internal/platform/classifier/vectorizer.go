package classifier

import (
	"math"
	"sort"
)

// vectorizer turns text into L2-normalised TF-IDF rows over a fixed
// vocabulary.
type vectorizer struct {
	maxN  int
	index map[string]int
	terms []string
	idf   []float64
}

// fitVectorizer builds the vocabulary from docs, keeping at most maxFeatures
// terms ranked by corpus frequency (ties in lexical order), and computes the
// smoothed inverse document frequencies.
func fitVectorizer(docs []string, maxN, maxFeatures int) *vectorizer {
	freq := make(map[string]int)
	df := make(map[string]int)
	analyzed := make([][]string, len(docs))
	for i, doc := range docs {
		terms := analyze(doc, maxN)
		analyzed[i] = terms
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			freq[t]++
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	ranked := make([]string, 0, len(freq))
	for t := range freq {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if freq[ranked[i]] != freq[ranked[j]] {
			return freq[ranked[i]] > freq[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if maxFeatures > 0 && len(ranked) > maxFeatures {
		ranked = ranked[:maxFeatures]
	}
	sort.Strings(ranked)

	n := float64(len(docs))
	idf := make([]float64, len(ranked))
	for i, t := range ranked {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return newVectorizer(ranked, idf, maxN)
}

func newVectorizer(terms []string, idf []float64, maxN int) *vectorizer {
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &vectorizer{maxN: maxN, index: index, terms: terms, idf: idf}
}

// transform returns the dense TF-IDF row of text. Unknown terms are ignored;
// text with no known terms yields an all-zero row.
func (v *vectorizer) transform(text string) []float64 {
	row := make([]float64, len(v.terms))
	for _, t := range analyze(text, v.maxN) {
		if i, ok := v.index[t]; ok {
			row[i]++
		}
	}
	var norm float64
	for i := range row {
		row[i] *= v.idf[i]
		norm += row[i] * row[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range row {
			row[i] /= norm
		}
	}
	return row
}
