package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGemini struct {
	responses  []string
	err        error
	prompts    []string
	maxTokens  []int32
	embeddings map[string][]float32
	embedErr   error
}

func (s *stubGemini) GenerateText(_ context.Context, prompt string, _ float32, maxOutputTokens int32) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.maxTokens = append(s.maxTokens, maxOutputTokens)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", fmt.Errorf("no stubbed response")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *stubGemini) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	if vec, ok := s.embeddings[text]; ok {
		return vec, nil
	}
	return nil, fmt.Errorf("no stubbed embedding for %q", text)
}

func TestQuestionGeneratorProducesTwoOrderedQuestions(t *testing.T) {
	stub := &stubGemini{responses: []string{
		"  How would you shard a Postgres table?  ",
		"\nTell me about a conflict you resolved.\n",
	}}
	gen := NewQuestionGenerator(stub)

	questions, err := gen.Generate(context.Background(), "Senior backend engineer")
	require.NoError(t, err)

	require.Len(t, questions, 2)
	assert.Equal(t, "How would you shard a Postgres table?", questions[0])
	assert.Equal(t, "Tell me about a conflict you resolved.", questions[1])

	// Technical first, then non-technical; the category lives only in the
	// prompt text.
	require.Len(t, stub.prompts, 2)
	assert.Equal(t, "Generate one technical question for: Senior backend engineer", stub.prompts[0])
	assert.Equal(t, "Generate one non-technical question for: Senior backend engineer", stub.prompts[1])
}

func TestQuestionGeneratorFlattensMultilineResponses(t *testing.T) {
	stub := &stubGemini{responses: []string{
		"What is sharding?\nWalk me through an example.",
		"Describe   a conflict\n\nyou resolved.",
	}}
	gen := NewQuestionGenerator(stub)

	questions, err := gen.Generate(context.Background(), "any role")
	require.NoError(t, err)

	require.Len(t, questions, 2)
	assert.Equal(t, "What is sharding? Walk me through an example.", questions[0])
	assert.Equal(t, "Describe a conflict you resolved.", questions[1])

	// The stored newline-joined form must split back into exactly the two
	// generated entries.
	joined := strings.Join(questions, "\n")
	assert.Len(t, strings.Split(joined, "\n"), 2)
}

func TestQuestionGeneratorCapsOutputTokens(t *testing.T) {
	stub := &stubGemini{responses: []string{"q1", "q2"}}
	gen := NewQuestionGenerator(stub)

	_, err := gen.Generate(context.Background(), "any role")
	require.NoError(t, err)

	require.Len(t, stub.maxTokens, 2)
	assert.Equal(t, int32(50), stub.maxTokens[0])
	assert.Equal(t, int32(50), stub.maxTokens[1])
}

func TestQuestionGeneratorPropagatesModelError(t *testing.T) {
	stub := &stubGemini{err: fmt.Errorf("model unavailable")}
	gen := NewQuestionGenerator(stub)

	_, err := gen.Generate(context.Background(), "any role")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "technical question")
}

func TestQuestionGeneratorRejectsEmptyQuestion(t *testing.T) {
	stub := &stubGemini{responses: []string{"   ", "q2"}}
	gen := NewQuestionGenerator(stub)

	_, err := gen.Generate(context.Background(), "any role")
	require.Error(t, err)
}
