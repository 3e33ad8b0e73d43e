package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"prepstage/interview-api/internal/models"
	"prepstage/interview-api/internal/services"
)

type AnswerHandler struct {
	evaluator services.EvaluatorService
}

func NewAnswerHandler(evaluator services.EvaluatorService) *AnswerHandler {
	return &AnswerHandler{evaluator: evaluator}
}

// HandleRecordAnswer handles POST /record_answer/:interview_id. The whole
// scoring pipeline runs synchronously in this request.
func (h *AnswerHandler) HandleRecordAnswer(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("interview_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	videoData := c.FormValue("video_data")
	if videoData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No video data received. Please try again.",
		})
	}

	result, err := h.evaluator.Evaluate(c.Context(), interviewID, videoData)
	if errors.Is(err, services.ErrInterviewNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}
	if err != nil {
		// Whatever went wrong inside the pipeline stays in the logs; the
		// candidate only sees a generic message.
		log.Printf("❌ Answer evaluation failed for interview %s: %v\n", interviewID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Something went wrong while scoring your answer. Please try again.",
		})
	}

	return c.JSON(models.AnswerResponse{
		InterviewID:     interviewID.String(),
		Transcription:   result.Transcription,
		ConfidenceScore: result.ConfidenceScore,
		NLPScore:        result.NLPScore,
		FinalScore:      result.FinalScore,
		Status:          string(result.Status),
	})
}
