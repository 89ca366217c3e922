package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Frequency ranks sentences by normalized token frequency and keeps the best
// ones in their original order. It bounds the closure-notes digest that goes
// into the LLM prompt.
type Frequency struct {
	wordRe     *regexp.Regexp
	sentenceRe *regexp.Regexp
	stopwords  map[string]struct{}
}

// NewFrequency creates a frequency-based extractive summarizer.
func NewFrequency() *Frequency {
	return &Frequency{
		wordRe:     regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentenceRe: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:  stopwords(),
	}
}

// Summarize returns at most maxSentences sentences of the input, picked by
// token-frequency score and re-joined in source order.
func (f *Frequency) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := f.sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}
	if len(sentences) <= maxSentences {
		for i := range sentences {
			sentences[i] = strings.TrimSpace(sentences[i])
		}
		return strings.Join(sentences, " "), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range f.tokens(sent) {
			if _, skip := f.stopwords[tok]; skip {
				continue
			}
			freq[tok]++
		}
	}
	maxFreq := 0.0
	for _, v := range freq {
		if v > maxFreq {
			maxFreq = v
		}
	}
	if maxFreq > 0 {
		for k := range freq {
			freq[k] /= maxFreq
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, sent := range sentences {
		toks := f.tokens(sent)
		total := 0.0
		for _, tok := range toks {
			total += freq[tok]
		}
		// dampen long sentences so raw length does not dominate
		if n := float64(len(toks)); n > 0 {
			total /= math.Sqrt(n)
		}
		scores[i] = ranked{i, total}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	keep := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		keep[i] = scores[i].idx
	}
	sort.Ints(keep)
	out := make([]string, 0, len(keep))
	for _, idx := range keep {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (f *Frequency) tokens(text string) []string {
	return f.wordRe.FindAllString(strings.ToLower(text), -1)
}

func stopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to",
		"of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were",
		"be", "been", "being", "it", "this", "that", "these", "those", "from",
		"up", "down", "over", "under", "again", "than", "so", "such", "into",
		"about", "between", "through", "during", "before", "after", "out", "off",
		"own", "same", "too", "very", "can", "will", "just", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
