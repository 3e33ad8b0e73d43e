package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionPrompt creates the prompt for one interview question. The
// category ("technical" / "non-technical") only lives inside the prompt; it
// is not carried as metadata on the generated question.
func (pb *PromptBuilder) BuildQuestionPrompt(category, jobDescription string) string {
	return fmt.Sprintf("Generate one %s question for: %s", category, jobDescription)
}
