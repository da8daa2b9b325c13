package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
)

type ChatPostgreSQL struct {
	db *gorm.DB
}

func NewChatPostgreSQL(db *gorm.DB) repositories.ChatRepository {
	return &ChatPostgreSQL{db: db}
}

func (c *ChatPostgreSQL) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	if err := c.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (c *ChatPostgreSQL) GetRoomMessages(ctx context.Context, roomID uint, limit, offset int) ([]*models.ChatMessage, error) {
	query := c.db.WithContext(ctx).Where("room_id = ?", roomID)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var messages []*models.ChatMessage
	if err := query.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
