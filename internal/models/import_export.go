package models

import "time"

type ImportValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ImportSummary struct {
	TotalRows        int                     `json:"total_rows"`
	ProcessedRows    int                     `json:"processed_rows"`
	SuccessCount     int                     `json:"success_count"`
	ErrorCount       int                     `json:"error_count"`
	CreatedQuestions []uint                  `json:"created_questions"`
	Errors           []ImportValidationError `json:"errors"`
	ProcessingTime   time.Duration           `json:"processing_time"`
}

type ExportRequest struct {
	AssessmentTypeID uint     `json:"assessment_type_id" validate:"required"`
	Format           string   `json:"format" validate:"omitempty,oneof=xlsx"`
	QuestionTypes    []string `json:"question_types"`
}
