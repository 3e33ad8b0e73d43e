package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	StatusHired    InterviewStatus = "Hired"
	StatusNotHired InterviewStatus = "Not Hired"

	// QuestionSeparator joins the generated questions into the single
	// text column and splits them back for the questions view.
	QuestionSeparator = "\n"
)

type Interview struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null" json:"user_id"`
	JobDescription string           `gorm:"type:text;not null" json:"job_description"`
	Questions      string           `gorm:"type:text;not null" json:"questions"`
	Transcription  *string          `gorm:"type:text" json:"transcription,omitempty"`
	Score          *float64         `gorm:"type:decimal(4,3)" json:"score,omitempty"`
	Status         *InterviewStatus `gorm:"type:text" json:"status,omitempty"`
	CreatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Interview) TableName() string {
	return "interviews"
}

// QuestionList splits the stored newline-joined questions back into the
// ordered list they were generated as.
func (i *Interview) QuestionList() []string {
	return strings.Split(i.Questions, QuestionSeparator)
}

// Scored reports whether the single scoring event already happened.
func (i *Interview) Scored() bool {
	return i.Score != nil
}
