package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	MultipleSelect QuestionType = "multiple_select"
	TextInput      QuestionType = "text_input"
	RatingScale    QuestionType = "rating_scale"
	YesNo          QuestionType = "yes_no"
	LikertScale    QuestionType = "likert_scale"
)

// AssessmentType describes an assessment instrument. Standard instruments
// (PHQ9, GAD7, PCL5) ship with the platform; custom ones are created by
// guides and admins.
type AssessmentType struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"uniqueIndex;not null;size:50" validate:"required,min=1,max=50"`
	Description    string `json:"description" gorm:"type:text"`
	TotalQuestions uint   `json:"total_questions"`
	MaxScore       uint   `json:"max_score"`
	IsStandard     bool   `json:"is_standard"`
	CreatedByID    *uint  `json:"created_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	CreatedBy *User                `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
	Questions []AssessmentQuestion `json:"questions,omitempty" gorm:"foreignKey:AssessmentTypeID"`
}

func (AssessmentType) TableName() string {
	return "assessment_types"
}

type AssessmentQuestion struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	AssessmentTypeID uint         `json:"assessment_type_id" gorm:"not null;index"`
	Text             string       `json:"text" gorm:"not null;size:500" validate:"required,min=1,max=500"`
	QuestionNumber   int          `json:"question_number"`
	QuestionType     QuestionType `json:"question_type" gorm:"size:20" validate:"omitempty,question_type"`
	IsRequired       bool         `json:"is_required"`

	// Bounds for rating_scale and numeric input questions.
	MinValue *int `json:"min_value"`
	MaxValue *int `json:"max_value"`

	// Optional endpoint labels for scale questions, e.g. {"0": "Not at all",
	// "3": "Nearly every day"}.
	ScaleLabels datatypes.JSON `json:"scale_labels" gorm:"type:jsonb"`

	// Relations
	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

type QuestionOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null;size:500" validate:"required,min=1,max=500"`
	Score      int    `json:"score" gorm:"not null"`
	Order      int    `json:"order"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}

// AssessmentResponse stores one answer. Which of the answer columns is
// populated depends on the question type: single choice uses
// selected_option_id, multi-select uses selected_option_ids, free text uses
// text_response and scales use numeric_response. response_value carries the
// scored value regardless of type.
type AssessmentResponse struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`
	UserID     uint `json:"user_id" gorm:"not null;index"`

	SelectedOptionID  *uint          `json:"selected_option_id"`
	SelectedOptionIDs datatypes.JSON `json:"selected_option_ids" gorm:"type:jsonb"`
	TextResponse      *string        `json:"text_response" gorm:"type:text"`
	NumericResponse   *int           `json:"numeric_response"`

	ResponseValue int       `json:"response_value"`
	ResponseTime  time.Time `json:"response_time" gorm:"autoCreateTime"`
}

func (AssessmentResponse) TableName() string {
	return "assessment_responses"
}
