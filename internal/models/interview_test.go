package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterviewQuestionList(t *testing.T) {
	interview := &Interview{
		Questions: strings.Join([]string{
			"How would you design a rate limiter?",
			"Describe a time you disagreed with a teammate.",
		}, QuestionSeparator),
	}

	questions := interview.QuestionList()
	assert.Len(t, questions, 2)
	assert.Equal(t, "How would you design a rate limiter?", questions[0])
	assert.Equal(t, "Describe a time you disagreed with a teammate.", questions[1])
}

func TestInterviewScored(t *testing.T) {
	interview := &Interview{}
	assert.False(t, interview.Scored())

	score := 0.44
	interview.Score = &score
	assert.True(t, interview.Scored())
}
