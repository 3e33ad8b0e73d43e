package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prepstage/interview-api/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	FindRecentByUser(userID uuid.UUID, limit int) ([]models.Interview, error)
	SaveResult(id uuid.UUID, result *InterviewResultData) error
}

// InterviewResultData carries the three fields written by the single
// scoring event. They are always committed together; a re-submission
// overwrites all of them.
type InterviewResultData struct {
	Transcription string
	Score         float64
	Status        models.InterviewStatus
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("id = ?", id).First(&interview).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview not found")
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) FindRecentByUser(userID uuid.UUID, limit int) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&interviews).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}

	return interviews, nil
}

func (r *interviewRepository) SaveResult(id uuid.UUID, data *InterviewResultData) error {
	result := r.db.Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transcription": data.Transcription,
			"score":         data.Score,
			"status":        data.Status,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("interview not found")
	}

	return nil
}
