package chat

import (
	"context"

	"github.com/qobilovfirdavs02/ChatApp-server/internal/models"
	"gorm.io/gorm"
)

// Store is the durable message store. Mutations address messages by id
// only; ownership policy is the session's concern.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UserExists checks that a username belongs to a registered account.
func (s *Store) UserExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// History returns all messages between the two users, either direction,
// ordered by creation time ascending.
func (s *Store) History(ctx context.Context, a, b string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.WithContext(ctx).
		Where("(sender_username = ? AND receiver_username = ?) OR (sender_username = ? AND receiver_username = ?)",
			a, b, b, a).
		Order("timestamp asc").
		Find(&msgs).Error
	return msgs, err
}

// Insert stores a new message and returns it with its assigned id and
// creation timestamp.
func (s *Store) Insert(ctx context.Context, sender, receiver, content string, replyTo *int64, msgType string) (*models.Message, error) {
	msg := models.Message{
		SenderUsername:   sender,
		ReceiverUsername: receiver,
		Content:          content,
		ReplyToID:        replyTo,
		Type:             msgType,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkEdited replaces the content and sets the edited flag.
func (s *Store) MarkEdited(ctx context.Context, id int64, content string) error {
	return s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"content": content, "edited": true}).Error
}

// MarkDeleted soft-deletes: the row and its content remain, masking
// happens at format time.
func (s *Store) MarkDeleted(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

// HardDelete removes the row permanently. References from replies are
// cleared, not cascaded.
func (s *Store) HardDelete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("reply_to_id = ?", id).
			Update("reply_to_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
}

// SetReaction overwrites the message's single reaction slot.
func (s *Store) SetReaction(ctx context.Context, id int64, reaction string) error {
	return s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Update("reaction", reaction).Error
}

// SenderOf returns the sender of a message, for ownership checks.
func (s *Store) SenderOf(ctx context.Context, id int64) (string, error) {
	var msg models.Message
	err := s.db.WithContext(ctx).
		Select("sender_username").
		First(&msg, id).Error
	if err != nil {
		return "", err
	}
	return msg.SenderUsername, nil
}
