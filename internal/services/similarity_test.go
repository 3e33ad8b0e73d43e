package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessText(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and strips punctuation",
			input:    "Senior Backend-Engineer, Go!",
			expected: "senior backendengineer go",
		},
		{
			name:     "removes stop words",
			input:    "the candidate is a strong engineer and not a manager",
			expected: "candidate strong engineer manager",
		},
		{
			name:     "collapses whitespace",
			input:    "  go \n  engineer  ",
			expected: "go engineer",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PreprocessText(tc.input))
		})
	}
}

func TestSimilarityIdenticalTexts(t *testing.T) {
	scorer := NewSimilarityScorer()

	text := "design scalable backend services in go with postgres"
	score := scorer.Similarity(text, text)

	require.InDelta(t, 1.0, score, 1e-9)
}

func TestSimilarityIdenticalAfterPreprocessing(t *testing.T) {
	scorer := NewSimilarityScorer()

	// Casing, punctuation and stop words differ, tokens do not.
	score := scorer.Similarity(
		"I design the scalable Backend services!",
		"design scalable backend services",
	)

	require.InDelta(t, 1.0, score, 1e-9)
}

func TestSimilarityDisjointVocabularies(t *testing.T) {
	scorer := NewSimilarityScorer()

	score := scorer.Similarity(
		"astronomy telescopes galaxies nebulae",
		"plumbing pipes faucets drains",
	)

	require.InDelta(t, 0.0, score, 1e-9)
}

func TestSimilarityWithinRange(t *testing.T) {
	scorer := NewSimilarityScorer()

	cases := [][2]string{
		{"golang backend developer", "backend developer with golang experience"},
		{"machine learning engineer", "frontend react developer"},
		{"a", "b"},
		{"", "backend engineer"},
	}

	for _, tc := range cases {
		score := scorer.Similarity(tc[0], tc[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0+1e-9)
	}
}

func TestSimilarityPartialOverlapBetweenBounds(t *testing.T) {
	scorer := NewSimilarityScorer()

	score := scorer.Similarity(
		"backend engineer go postgres",
		"backend engineer java kafka",
	)

	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}
