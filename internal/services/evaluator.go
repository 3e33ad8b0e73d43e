package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"prepstage/interview-api/internal/models"
	"prepstage/interview-api/internal/repositories"
)

const (
	confidenceWeight = 0.4
	nlpWeight        = 0.6

	// hireThreshold is inclusive: a final score of exactly 0.5 hires.
	hireThreshold = 0.5
)

// ErrInterviewNotFound lets callers map a missing interview to a 404 instead
// of a generic pipeline failure.
var ErrInterviewNotFound = errors.New("interview not found")

type EvaluationResult struct {
	Transcription   string
	ConfidenceScore float64
	NLPScore        float64
	FinalScore      float64
	Status          models.InterviewStatus
}

// EvaluatorService runs the full answer-scoring pipeline: emotion analysis,
// transcription, text similarity, weighted verdict, single-commit persist.
type EvaluatorService interface {
	Evaluate(ctx context.Context, interviewID uuid.UUID, encodedVideo string) (*EvaluationResult, error)
}

type evaluatorService struct {
	interviewRepo repositories.InterviewRepository
	emotionScorer EmotionScorer
	transcriber   Transcriber
	simScorer     SimilarityScorer
}

func NewEvaluatorService(
	interviewRepo repositories.InterviewRepository,
	emotionScorer EmotionScorer,
	transcriber Transcriber,
	simScorer SimilarityScorer,
) EvaluatorService {
	return &evaluatorService{
		interviewRepo: interviewRepo,
		emotionScorer: emotionScorer,
		transcriber:   transcriber,
		simScorer:     simScorer,
	}
}

// Evaluate implements EvaluatorService. Strictly sequential; nothing is
// persisted unless every stage before the final commit has run.
func (e *evaluatorService) Evaluate(ctx context.Context, interviewID uuid.UUID, encodedVideo string) (*EvaluationResult, error) {
	if encodedVideo == "" {
		return nil, fmt.Errorf("no video data received, please try again")
	}

	interview, err := e.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInterviewNotFound, interviewID)
	}

	if interview.Scored() {
		log.Printf("🔁 Interview %s already scored (%.4f); re-submission overwrites it\n", interviewID, *interview.Score)
	}

	log.Printf("🔄 Scoring answer for interview %s\n", interviewID)

	// Model instability never aborts the pipeline: a failed emotion scan
	// degrades to 0.0 and the run continues.
	confidenceScore, err := e.emotionScorer.Score(ctx, encodedVideo)
	if err != nil {
		log.Printf("⚠️  Emotion analysis degraded to 0.0: %v\n", err)
		confidenceScore = 0.0
	}
	log.Printf("🙂 Confidence score: %.4f\n", confidenceScore)

	transcription := e.transcriber.Transcribe(ctx, encodedVideo)
	log.Printf("🗣️ Transcription: %q\n", transcription)

	nlpScore := 0.0
	if transcription != "" {
		nlpScore = e.simScorer.Similarity(transcription, interview.JobDescription)
	}
	log.Printf("📝 NLP score: %.4f\n", nlpScore)

	finalScore := confidenceWeight*confidenceScore + nlpWeight*nlpScore

	status := models.StatusNotHired
	if finalScore >= hireThreshold {
		status = models.StatusHired
	}
	log.Printf("🏁 Final score: %.4f, status: %s\n", finalScore, status)

	// Single commit: transcription, score and status land together. A
	// re-submitted answer overwrites all three.
	if err := e.interviewRepo.SaveResult(interviewID, &repositories.InterviewResultData{
		Transcription: transcription,
		Score:         finalScore,
		Status:        status,
	}); err != nil {
		return nil, fmt.Errorf("failed to save results: %w", err)
	}

	return &EvaluationResult{
		Transcription:   transcription,
		ConfidenceScore: confidenceScore,
		NLPScore:        nlpScore,
		FinalScore:      finalScore,
		Status:          status,
	}, nil
}
