package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{db: db}
}

func (a *AssessmentPostgreSQL) CreateType(ctx context.Context, assessmentType *models.AssessmentType) error {
	if err := a.db.WithContext(ctx).Create(assessmentType).Error; err != nil {
		return fmt.Errorf("failed to create assessment type: %w", err)
	}
	return nil
}

func (a *AssessmentPostgreSQL) GetTypeByID(ctx context.Context, id uint) (*models.AssessmentType, error) {
	var assessmentType models.AssessmentType
	err := a.db.WithContext(ctx).First(&assessmentType, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &assessmentType, nil
}

func (a *AssessmentPostgreSQL) GetTypeByName(ctx context.Context, name string) (*models.AssessmentType, error) {
	var assessmentType models.AssessmentType
	err := a.db.WithContext(ctx).Where("name = ?", name).First(&assessmentType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &assessmentType, nil
}

func (a *AssessmentPostgreSQL) ListTypes(ctx context.Context) ([]*models.AssessmentType, error) {
	var types []*models.AssessmentType
	if err := a.db.WithContext(ctx).Order("name ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list assessment types: %w", err)
	}
	return types, nil
}

func (a *AssessmentPostgreSQL) CreateQuestion(ctx context.Context, question *models.AssessmentQuestion) error {
	if err := a.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create assessment question: %w", err)
	}
	return nil
}

func (a *AssessmentPostgreSQL) CreateQuestionsBatch(ctx context.Context, questions []*models.AssessmentQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	// One transaction so a failed import leaves no partial question set.
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&questions).Error; err != nil {
			return fmt.Errorf("failed to batch create questions: %w", err)
		}
		return nil
	})
}

func (a *AssessmentPostgreSQL) GetQuestionsByType(ctx context.Context, assessmentTypeID uint) ([]*models.AssessmentQuestion, error) {
	var questions []*models.AssessmentQuestion
	err := a.db.WithContext(ctx).
		Where("assessment_type_id = ?", assessmentTypeID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"order\" ASC")
		}).
		Order("question_number ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment questions: %w", err)
	}
	return questions, nil
}

func (a *AssessmentPostgreSQL) CreateResponse(ctx context.Context, response *models.AssessmentResponse) error {
	if err := a.db.WithContext(ctx).Create(response).Error; err != nil {
		return fmt.Errorf("failed to create assessment response: %w", err)
	}
	return nil
}
