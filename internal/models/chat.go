package models

import "time"

type MessageType string

const (
	MessageText   MessageType = "text"
	MessageVoice  MessageType = "voice"
	MessageVideo  MessageType = "video"
	MessageImage  MessageType = "image"
	MessageFile   MessageType = "file"
	MessageSystem MessageType = "system"
)

// ChatMessage is the storage shape for peer-support chat. The media columns
// hold opaque storage references; uploading and serving the files is owned by
// the media pipeline, not this service.
type ChatMessage struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	RoomID   uint `json:"room_id" gorm:"not null;index"`
	SenderID uint `json:"sender_id" gorm:"not null;index"`

	MessageType MessageType `json:"message_type" gorm:"size:20" validate:"omitempty,oneof=text voice video image file system"`
	Content     string      `json:"content" gorm:"type:text"` // text messages only; blank for media

	// Per-type media references
	VoiceFile      *string `json:"voice_file" gorm:"size:500"`
	VideoFile      *string `json:"video_file" gorm:"size:500"`
	ImageFile      *string `json:"image_file" gorm:"size:500"`
	AttachmentFile *string `json:"attachment_file" gorm:"size:500"`

	Duration *uint  `json:"duration"`  // seconds, voice/video
	FileSize *uint  `json:"file_size"` // bytes
	MimeType string `json:"mime_type" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
