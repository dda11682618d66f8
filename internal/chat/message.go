package chat

import (
	"time"

	"github.com/qobilovfirdavs02/ChatApp-server/internal/models"
)

// DeletedPlaceholder replaces the content of soft-deleted messages at
// format time. The stored content is never overwritten.
const DeletedPlaceholder = "This message was deleted"

// FormattedMessage is the wire and cache representation of a message,
// distinct from the stored entity.
type FormattedMessage struct {
	MsgID     int64   `json:"msg_id"`
	Sender    string  `json:"sender"`
	Content   string  `json:"content"`
	Timestamp string  `json:"timestamp"`
	Edited    bool    `json:"edited"`
	Deleted   bool    `json:"deleted"`
	Reaction  *string `json:"reaction"`
	ReplyToID *int64  `json:"reply_to_id"`
	Type      string  `json:"type"`
}

// Format converts a stored message to its wire shape, masking the
// content of soft-deleted messages.
func Format(m *models.Message) FormattedMessage {
	fm := FormattedMessage{
		MsgID:     m.ID,
		Sender:    m.SenderUsername,
		Content:   m.Content,
		Timestamp: m.Timestamp.Format(time.RFC3339),
		Edited:    m.Edited,
		Deleted:   m.Deleted,
		ReplyToID: m.ReplyToID,
		Type:      m.Type,
	}
	if fm.Type == "" {
		fm.Type = models.MessageTypeText
	}
	if m.Deleted {
		fm.Content = DeletedPlaceholder
	}
	if m.Reaction != "" {
		reaction := m.Reaction
		fm.Reaction = &reaction
	}
	return fm
}

// FormatAll formats a history slice, oldest first. The result is never
// nil so an empty history still encodes as [].
func FormatAll(msgs []models.Message) []FormattedMessage {
	out := make([]FormattedMessage, 0, len(msgs))
	for i := range msgs {
		out = append(out, Format(&msgs[i]))
	}
	return out
}
