package models

import "time"

const (
	MessageTypeText  = "text"
	MessageTypeVoice = "voice"
)

// Message is a direct message between two users. Soft-deleted rows keep
// their content; masking happens at format time. For voice messages
// Content holds the uploaded file URL instead of inline text.
type Message struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SenderUsername   string    `json:"sender" gorm:"index;size:50"`
	ReceiverUsername string    `json:"receiver" gorm:"index;size:50"`
	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp" gorm:"autoCreateTime"`
	Edited           bool      `json:"edited" gorm:"default:false"`
	Deleted          bool      `json:"deleted" gorm:"default:false"`
	Reaction         string    `json:"reaction"`
	ReplyToID        *int64    `json:"reply_to_id" gorm:"index"`
	Type             string    `json:"type" gorm:"size:10;default:text"`
}
