package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

// ImportExportService moves assessment questions in and out as Excel
// workbooks. Guides use this to bulk-author custom instruments.
type ImportExportService interface {
	// ExportQuestions renders the questions of an assessment type as an xlsx
	// workbook.
	ExportQuestions(ctx context.Context, assessmentTypeID uint) ([]byte, error)

	// ImportQuestions parses an xlsx workbook and creates its valid rows as
	// questions. Invalid rows are reported in the summary, not imported.
	ImportQuestions(ctx context.Context, assessmentTypeID uint, reader io.Reader) (*models.ImportSummary, error)
}

const questionSheetName = "Questions"

var exportHeaders = []string{
	"Question Number", "Question Text", "Question Type", "Required",
	"Min Value", "Max Value", "Options",
}

type importExportService struct {
	repo      repositories.Repository
	validator *utils.Validator
	logger    *slog.Logger
}

func NewImportExportService(repo repositories.Repository, validator *utils.Validator, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

func (s *importExportService) ExportQuestions(ctx context.Context, assessmentTypeID uint) ([]byte, error) {
	assessmentType, err := s.repo.Assessment().GetTypeByID(ctx, assessmentTypeID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentTypeNotFound
		}
		return nil, fmt.Errorf("failed to get assessment type: %w", err)
	}

	questions, err := s.repo.Assessment().GetQuestionsByType(ctx, assessmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(questionSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(questionSheetName, cell, header)
	}

	for row, question := range questions {
		values := []any{
			question.QuestionNumber,
			question.Text,
			string(question.QuestionType),
			question.IsRequired,
			intOrEmpty(question.MinValue),
			intOrEmpty(question.MaxValue),
			encodeOptions(question.Options),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(questionSheetName, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Questions exported",
		"assessment_type", assessmentType.Name,
		"questions", len(questions))
	return buf.Bytes(), nil
}

func (s *importExportService) ImportQuestions(ctx context.Context, assessmentTypeID uint, reader io.Reader) (*models.ImportSummary, error) {
	start := time.Now()

	if _, err := s.repo.Assessment().GetTypeByID(ctx, assessmentTypeID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentTypeNotFound
		}
		return nil, fmt.Errorf("failed to get assessment type: %w", err)
	}

	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFileInvalid, err)
	}
	defer f.Close()

	sheet := questionSheetName
	if sheetIndex(f, sheet) < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFileInvalid, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: workbook has no data rows", ErrImportFileInvalid)
	}

	summary := &models.ImportSummary{TotalRows: len(rows) - 1}
	questions := make([]*models.AssessmentQuestion, 0, len(rows)-1)

	for i, row := range rows[1:] {
		rowNum := i + 2
		summary.ProcessedRows++

		question, rowErrors := s.parseQuestionRow(row, rowNum, assessmentTypeID)
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) > 0 {
		if err := s.repo.Assessment().CreateQuestionsBatch(ctx, questions); err != nil {
			return nil, fmt.Errorf("failed to save imported questions: %w", err)
		}
		for _, q := range questions {
			summary.CreatedQuestions = append(summary.CreatedQuestions, q.ID)
		}
		summary.SuccessCount = len(questions)
	}

	summary.ProcessingTime = time.Since(start)
	s.logger.Info("Question import finished",
		"assessment_type_id", assessmentTypeID,
		"imported", summary.SuccessCount,
		"failed", summary.ErrorCount)
	return summary, nil
}

func (s *importExportService) parseQuestionRow(row []string, rowNum int, assessmentTypeID uint) (*models.AssessmentQuestion, []models.ImportValidationError) {
	var rowErrors []models.ImportValidationError

	field := func(col int) string {
		if col < len(row) {
			return strings.TrimSpace(row[col])
		}
		return ""
	}

	question := &models.AssessmentQuestion{
		AssessmentTypeID: assessmentTypeID,
		Text:             field(1),
		QuestionType:     models.QuestionType(field(2)),
	}

	if number, err := strconv.Atoi(field(0)); err == nil {
		question.QuestionNumber = number
	} else {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Field: "question_number", Message: "must be an integer",
		})
	}

	if question.QuestionType == "" {
		question.QuestionType = models.MultipleChoice
	}

	if required := field(3); required != "" {
		b, err := strconv.ParseBool(required)
		if err != nil {
			rowErrors = append(rowErrors, models.ImportValidationError{
				Row: rowNum, Field: "required", Message: "must be true or false",
			})
		}
		question.IsRequired = b
	}

	for _, bound := range []struct {
		col  int
		name string
		dest **int
	}{
		{4, "min_value", &question.MinValue},
		{5, "max_value", &question.MaxValue},
	} {
		if raw := field(bound.col); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				rowErrors = append(rowErrors, models.ImportValidationError{
					Row: rowNum, Field: bound.name, Message: "must be an integer",
				})
				continue
			}
			*bound.dest = &v
		}
	}

	options, optionErrors := decodeOptions(field(6), rowNum)
	rowErrors = append(rowErrors, optionErrors...)
	question.Options = options

	if err := s.validator.ValidateStruct(question); err != nil {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Field: "question", Message: err.Error(),
		})
	}

	if requiresOptions(question.QuestionType) && len(options) == 0 {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Field: "options",
			Message: fmt.Sprintf("%s questions need at least one option", question.QuestionType),
		})
	}

	if len(rowErrors) > 0 {
		return nil, rowErrors
	}
	return question, nil
}

func requiresOptions(t models.QuestionType) bool {
	switch t {
	case models.MultipleChoice, models.MultipleSelect, models.LikertScale:
		return true
	}
	return false
}

// encodeOptions serializes options as "text:score" pairs joined with "; ".
func encodeOptions(options []models.QuestionOption) string {
	parts := make([]string, 0, len(options))
	for _, opt := range options {
		parts = append(parts, fmt.Sprintf("%s:%d", opt.Text, opt.Score))
	}
	return strings.Join(parts, "; ")
}

func decodeOptions(raw string, rowNum int) ([]models.QuestionOption, []models.ImportValidationError) {
	if raw == "" {
		return nil, nil
	}

	var options []models.QuestionOption
	var errs []models.ImportValidationError
	for i, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.LastIndex(part, ":")
		if idx <= 0 {
			errs = append(errs, models.ImportValidationError{
				Row: rowNum, Field: "options",
				Message: fmt.Sprintf("option %q must be in text:score form", part),
			})
			continue
		}

		score, err := strconv.Atoi(strings.TrimSpace(part[idx+1:]))
		if err != nil {
			errs = append(errs, models.ImportValidationError{
				Row: rowNum, Field: "options",
				Message: fmt.Sprintf("option %q has a non-numeric score", part),
			})
			continue
		}

		options = append(options, models.QuestionOption{
			Text:  strings.TrimSpace(part[:idx]),
			Score: score,
			Order: i,
		})
	}
	return options, errs
}

func intOrEmpty(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func sheetIndex(f *excelize.File, name string) int {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return -1
	}
	return idx
}
