package handlers

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"prepstage/interview-api/internal/models"
	"prepstage/interview-api/internal/repositories"
	"prepstage/interview-api/internal/services"
)

const (
	recentInterviewLimit = 10
	similarLimit         = 5
	jobSnippetLength     = 120
)

type InterviewHandler struct {
	interviewRepo  repositories.InterviewRepository
	userRepo       repositories.UserRepository
	pdfParser      services.PDFParserService
	matcher        services.ResumeMatcher
	questionGen    services.QuestionGenerator
	candidateIndex services.CandidateIndex
	geminiService  services.GeminiService
	maxResumeSize  int64
}

func NewInterviewHandler(
	interviewRepo repositories.InterviewRepository,
	userRepo repositories.UserRepository,
	pdfParser services.PDFParserService,
	matcher services.ResumeMatcher,
	questionGen services.QuestionGenerator,
	candidateIndex services.CandidateIndex,
	geminiService services.GeminiService,
	maxResumeSize int64,
) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo:  interviewRepo,
		userRepo:       userRepo,
		pdfParser:      pdfParser,
		matcher:        matcher,
		questionGen:    questionGen,
		candidateIndex: candidateIndex,
		geminiService:  geminiService,
		maxResumeSize:  maxResumeSize,
	}
}

// HandleHome handles GET /home
func (h *InterviewHandler) HandleHome(c *fiber.Ctx) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "login required")
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	interviews, err := h.interviewRepo.FindRecentByUser(userID, recentInterviewLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list interviews",
		})
	}

	summaries := make([]models.InterviewSummary, 0, len(interviews))
	for _, interview := range interviews {
		summary := models.InterviewSummary{
			ID:             interview.ID.String(),
			JobDescription: interview.JobDescription,
			Score:          interview.Score,
		}
		if interview.Status != nil {
			status := string(*interview.Status)
			summary.Status = &status
		}
		summaries = append(summaries, summary)
	}

	return c.JSON(models.HomeResponse{
		Username:   user.Username,
		Interviews: summaries,
	})
}

// HandleScreen handles POST /home: resume/job fit check, question
// generation and interview creation in one step.
func (h *InterviewHandler) HandleScreen(c *fiber.Ctx) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "login required")
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	jobDescription := strings.TrimSpace(c.FormValue("job_description"))
	if jobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume PDF is required",
		})
	}

	if resumeFile.Size > h.maxResumeSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume too large. Max size: %d bytes", h.maxResumeSize),
		})
	}

	if ext := strings.ToLower(filepath.Ext(resumeFile.Filename)); ext != ".pdf" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("invalid file extension: %s", ext),
		})
	}

	src, err := resumeFile.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open uploaded resume",
		})
	}
	defer src.Close()

	resumeBytes, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read uploaded resume",
		})
	}

	resumeText, err := h.pdfParser.ExtractText(resumeBytes)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to parse resume: %v", err),
		})
	}
	resumeText = services.CleanText(resumeText)

	assessment, err := h.matcher.Assess(c.Context(), jobDescription, resumeText)
	if err != nil {
		log.Printf("❌ Resume fit check failed: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to screen resume",
		})
	}

	log.Printf("📊 Fit score for %s: %.4f\n", user.Username, assessment.Score)

	if !assessment.Fit {
		return c.JSON(fiber.Map{
			"message": "You are not eligible for this job.",
		})
	}

	questions, err := h.questionGen.Generate(c.Context(), jobDescription)
	if err != nil {
		log.Printf("❌ Question generation failed: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate interview questions",
		})
	}

	interview := &models.Interview{
		ID:             uuid.New(),
		UserID:         userID,
		JobDescription: jobDescription,
		Questions:      strings.Join(questions, models.QuestionSeparator),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.interviewRepo.Create(interview); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create interview",
		})
	}

	// Indexing is best effort; the interview exists either way.
	if err := h.candidateIndex.IndexCandidate(
		c.Context(),
		interview.ID,
		user.Username,
		snippet(jobDescription),
		assessment.Score,
		assessment.ResumeEmbedding,
	); err != nil {
		log.Printf("⚠️  Failed to index candidate: %v\n", err)
	}

	return c.Redirect(fmt.Sprintf("/questions/%s", interview.ID), fiber.StatusSeeOther)
}

// HandleQuestions handles GET /questions/:interview_id
func (h *InterviewHandler) HandleQuestions(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("interview_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	interview, err := h.interviewRepo.FindByID(interviewID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	return c.JSON(models.QuestionsResponse{
		InterviewID: interview.ID.String(),
		Questions:   interview.QuestionList(),
	})
}

// HandleSimilar handles GET /interviews/:interview_id/similar: past
// candidates whose resumes match this interview's job description.
func (h *InterviewHandler) HandleSimilar(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("interview_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	interview, err := h.interviewRepo.FindByID(interviewID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	embedding, err := h.geminiService.GenerateEmbedding(c.Context(), interview.JobDescription)
	if err != nil {
		log.Printf("❌ Failed to embed job description: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search candidates",
		})
	}

	matches, err := h.candidateIndex.FindSimilar(c.Context(), embedding, interviewID, similarLimit)
	if err != nil {
		log.Printf("❌ Candidate search failed: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search candidates",
		})
	}

	candidates := make([]models.SimilarCandidate, 0, len(matches))
	for _, match := range matches {
		candidates = append(candidates, models.SimilarCandidate{
			InterviewID: match.InterviewID,
			Username:    match.Username,
			JobSnippet:  match.JobSnippet,
			Score:       float64(match.Score),
		})
	}

	return c.JSON(fiber.Map{
		"interview_id": interview.ID.String(),
		"candidates":   candidates,
	})
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= jobSnippetLength {
		return text
	}
	return string(runes[:jobSnippetLength])
}
