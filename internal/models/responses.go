package models

type QuestionsResponse struct {
	InterviewID string   `json:"interview_id"`
	Questions   []string `json:"questions"`
}

type AnswerResponse struct {
	InterviewID     string  `json:"interview_id"`
	Transcription   string  `json:"transcription"`
	ConfidenceScore float64 `json:"confidence_score"`
	NLPScore        float64 `json:"nlp_score"`
	FinalScore      float64 `json:"final_score"`
	Status          string  `json:"status"`
}

type SimilarCandidate struct {
	InterviewID string  `json:"interview_id"`
	Username    string  `json:"username"`
	JobSnippet  string  `json:"job_snippet"`
	Score       float64 `json:"score"`
}

type HomeResponse struct {
	Username   string             `json:"username"`
	Interviews []InterviewSummary `json:"interviews"`
}

type InterviewSummary struct {
	ID             string   `json:"id"`
	JobDescription string   `json:"job_description"`
	Score          *float64 `json:"score,omitempty"`
	Status         *string  `json:"status,omitempty"`
}
