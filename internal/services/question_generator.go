package services

import (
	"context"
	"fmt"
	"strings"
)

// questionCategories fixes both the number of generated questions and their
// order: technical first, then non-technical.
var questionCategories = []string{"technical", "non-technical"}

// questionMaxTokens caps each generated question.
const questionMaxTokens = 50

type QuestionGenerator interface {
	Generate(ctx context.Context, jobDescription string) ([]string, error)
}

type questionGenerator struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
}

func NewQuestionGenerator(geminiService GeminiService) QuestionGenerator {
	return &questionGenerator{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
	}
}

// Generate implements QuestionGenerator. Each category is submitted as its
// own generation call; the response is flattened to a single line.
func (q *questionGenerator) Generate(ctx context.Context, jobDescription string) ([]string, error) {
	questions := make([]string, 0, len(questionCategories))

	for _, category := range questionCategories {
		prompt := q.promptBuilder.BuildQuestionPrompt(category, jobDescription)

		text, err := q.geminiService.GenerateText(ctx, prompt, 0.7, questionMaxTokens)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s question: %w", category, err)
		}

		// The questions column stores the two entries newline-joined, so a
		// single question must never carry a newline itself.
		question := strings.Join(strings.Fields(text), " ")
		if question == "" {
			return nil, fmt.Errorf("empty %s question generated", category)
		}

		questions = append(questions, question)
	}

	return questions, nil
}
