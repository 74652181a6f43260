package classifier

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// #region feature
// feature is one non-zero entry of a sparse TF-IDF row.
type feature struct {
	index int
	value float64
}

// #endregion feature

// #region vectorizer
// Vectorizer maps raw text to L2-normalized TF-IDF vectors over a vocabulary
// fixed at fit time. Unknown tokens are dropped, so any string is valid input.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// fitVectorizer builds the vocabulary and smoothed idf weights from docs.
func fitVectorizer(docs []string) *Vectorizer {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenize(d) {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	terms := make([]string, 0, len(df))
	for tok := range df {
		terms = append(terms, tok)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &Vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	for i, tok := range terms {
		v.vocabulary[tok] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}
	return v
}

// Size returns the vocabulary size (the feature dimension).
func (v *Vectorizer) Size() int {
	return len(v.idf)
}

// Vocabulary returns the fitted terms in feature-index order.
func (v *Vectorizer) Vocabulary() []string {
	terms := make([]string, len(v.idf))
	for tok, i := range v.vocabulary {
		terms[i] = tok
	}
	return terms
}

// transform returns the sparse TF-IDF row for text, sorted by feature index.
func (v *Vectorizer) transform(text string) []feature {
	counts := make(map[int]float64)
	for _, tok := range tokenize(text) {
		if i, ok := v.vocabulary[tok]; ok {
			counts[i]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	row := make([]feature, 0, len(counts))
	var sumSq float64
	for i, c := range counts {
		w := c * v.idf[i]
		row = append(row, feature{index: i, value: w})
		sumSq += w * w
	}
	norm := math.Sqrt(sumSq)
	for i := range row {
		row[i].value /= norm
	}
	sort.Slice(row, func(a, b int) bool { return row[a].index < row[b].index })
	return row
}

// #endregion vectorizer

// #region tokenize
// tokenize lowercases text and splits it into runs of letters, digits and
// underscores, keeping runs of two or more runes.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	tokens := words[:0]
	for _, w := range words {
		if len([]rune(w)) >= 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// #endregion tokenize
