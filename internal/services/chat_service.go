package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eduMindSolutions/platform-service/internal/models"
	"github.com/eduMindSolutions/platform-service/internal/repositories"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

// ChatService persists room messages, including voice and video messages
// recorded in the browser.
type ChatService interface {
	SendMessage(ctx context.Context, req *SendMessageRequest) (*models.ChatMessage, error)
	GetRoomMessages(ctx context.Context, roomID uint, limit, offset int) ([]*models.ChatMessage, error)
}

type SendMessageRequest struct {
	RoomID   uint               `json:"room_id" validate:"required"`
	SenderID uint               `json:"sender_id" validate:"required"`
	Type     models.MessageType `json:"message_type" validate:"omitempty,oneof=text voice video image file system"`
	Content  string             `json:"content" validate:"required_without=MediaFile"`

	// Media messages carry a stored file reference instead of text. The
	// reference lands in the column matching the message type.
	MediaFile string `json:"media_file" validate:"omitempty,max=500"`
	MimeType  string `json:"mime_type" validate:"omitempty,max=100"`
	Duration  *uint  `json:"duration,omitempty"`
	FileSize  *uint  `json:"file_size,omitempty"`
}

type chatService struct {
	repo      repositories.Repository
	validator *utils.Validator
	logger    *slog.Logger
}

func NewChatService(repo repositories.Repository, validator *utils.Validator, logger *slog.Logger) ChatService {
	return &chatService{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

func (s *chatService) SendMessage(ctx context.Context, req *SendMessageRequest) (*models.ChatMessage, error) {
	if req.Type == "" {
		req.Type = models.MessageText
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, errors.Join(ErrValidationFailed, err)
	}

	message := &models.ChatMessage{
		RoomID:      req.RoomID,
		SenderID:    req.SenderID,
		MessageType: req.Type,
		Content:     req.Content,
		MimeType:    req.MimeType,
		Duration:    req.Duration,
		FileSize:    req.FileSize,
	}
	if req.MediaFile != "" {
		media := req.MediaFile
		switch req.Type {
		case models.MessageVoice:
			message.VoiceFile = &media
		case models.MessageVideo:
			message.VideoFile = &media
		case models.MessageImage:
			message.ImageFile = &media
		case models.MessageFile:
			message.AttachmentFile = &media
		default:
			return nil, fmt.Errorf("%w: message type %s cannot carry media", ErrValidationFailed, req.Type)
		}
	}

	if err := s.repo.Chat().CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.logger.Debug("Chat message stored",
		"room_id", message.RoomID,
		"message_type", message.MessageType)
	return message, nil
}

func (s *chatService) GetRoomMessages(ctx context.Context, roomID uint, limit, offset int) ([]*models.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	messages, err := s.repo.Chat().GetRoomMessages(ctx, roomID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get room messages: %w", err)
	}
	return messages, nil
}
