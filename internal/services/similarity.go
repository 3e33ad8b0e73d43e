package services

import (
	"math"
	"strings"
	"unicode"
)

// englishStopWords is the fixed stop-word list applied during
// preprocessing. Matches the standard English list used by common NLP
// toolkits.
var englishStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`i me my myself we our ours ourselves you
		your yours yourself yourselves he him his himself she her hers herself
		it its itself they them their theirs themselves what which who whom
		this that these those am is are was were be been being have has had
		having do does did doing a an the and but if or because as until while
		of at by for with about against between into through during before
		after above below to from up down in out on off over under again
		further then once here there when where why how all any both each few
		more most other some such no nor not only own same so than too very s
		t can will just don should now d ll m o re ve y ain aren couldn didn
		doesn hadn hasn haven isn ma mightn mustn needn shan shouldn wasn
		weren won wouldn`) {
		englishStopWords[w] = struct{}{}
	}
}

// PreprocessText lowercases, strips punctuation, tokenizes on whitespace,
// removes stop words and rejoins with single spaces. Applied identically to
// both sides of every comparison.
func PreprocessText(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

// SimilarityScorer computes the TF-IDF cosine similarity between a
// transcript and a job description. The vector space is built over exactly
// those two documents.
type SimilarityScorer interface {
	Similarity(transcript, jobDescription string) float64
}

type similarityScorer struct{}

func NewSimilarityScorer() SimilarityScorer {
	return &similarityScorer{}
}

// Similarity implements SimilarityScorer. Smoothed IDF with the two
// preprocessed documents as the corpus; the result is the off-diagonal of
// the 2x2 cosine similarity matrix, in [0,1].
func (s *similarityScorer) Similarity(transcript, jobDescription string) float64 {
	docs := []map[string]float64{
		termFrequencies(PreprocessText(jobDescription)),
		termFrequencies(PreprocessText(transcript)),
	}

	vocab := map[string]struct{}{}
	for _, doc := range docs {
		for term := range doc {
			vocab[term] = struct{}{}
		}
	}

	// idf(t) = ln((1+n)/(1+df)) + 1, n = 2 documents.
	idf := make(map[string]float64, len(vocab))
	for term := range vocab {
		df := 0
		for _, doc := range docs {
			if _, ok := doc[term]; ok {
				df++
			}
		}
		idf[term] = math.Log(3.0/float64(1+df)) + 1
	}

	vectors := make([]map[string]float64, len(docs))
	for i, doc := range docs {
		vec := make(map[string]float64, len(doc))
		for term, tf := range doc {
			vec[term] = tf * idf[term]
		}
		vectors[i] = vec
	}

	return cosine(vectors[0], vectors[1])
}

func termFrequencies(doc string) map[string]float64 {
	counts := map[string]float64{}
	for _, tok := range strings.Fields(doc) {
		counts[tok]++
	}
	return counts
}

func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, va := range a {
		if vb, ok := b[term]; ok {
			dot += va * vb
		}
		normA += va * va
	}
	for _, vb := range b {
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
