package services

import (
	"context"
	"fmt"
	"math"
)

// fitThreshold is the minimum semantic similarity between job description
// and resume for a candidate to be eligible. Not configurable.
const fitThreshold = 0.8

type FitAssessment struct {
	Fit   bool
	Score float64

	// ResumeEmbedding is kept so the candidate index can reuse it without
	// a second embedding call.
	ResumeEmbedding []float32
}

type ResumeMatcher interface {
	Assess(ctx context.Context, jobDescription, resumeText string) (*FitAssessment, error)
}

type resumeMatcher struct {
	geminiService GeminiService
}

func NewResumeMatcher(geminiService GeminiService) ResumeMatcher {
	return &resumeMatcher{geminiService: geminiService}
}

// Assess embeds both documents with the same pretrained model and compares
// them by cosine similarity. Embedding failures propagate to the caller.
func (m *resumeMatcher) Assess(ctx context.Context, jobDescription, resumeText string) (*FitAssessment, error) {
	jobVec, err := m.geminiService.GenerateEmbedding(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	resumeVec, err := m.geminiService.GenerateEmbedding(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed resume: %w", err)
	}

	score, err := cosineSimilarity32(jobVec, resumeVec)
	if err != nil {
		return nil, err
	}

	return &FitAssessment{
		Fit:             score >= fitThreshold,
		Score:           score,
		ResumeEmbedding: resumeVec,
	}, nil
}

func cosineSimilarity32(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude embedding")
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
