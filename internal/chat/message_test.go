package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/qobilovfirdavs02/ChatApp-server/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatPlainMessage(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	fm := Format(&models.Message{
		ID:               7,
		SenderUsername:   "alice",
		ReceiverUsername: "bob",
		Content:          "hi",
		Timestamp:        ts,
		Type:             models.MessageTypeText,
	})

	assert.Equal(t, int64(7), fm.MsgID)
	assert.Equal(t, "alice", fm.Sender)
	assert.Equal(t, "hi", fm.Content)
	assert.Equal(t, "2025-03-14T09:26:53Z", fm.Timestamp)
	assert.False(t, fm.Edited)
	assert.False(t, fm.Deleted)
	assert.Nil(t, fm.Reaction)
	assert.Nil(t, fm.ReplyToID)
	assert.Equal(t, "text", fm.Type)
}

func TestFormatMasksDeletedContent(t *testing.T) {
	fm := Format(&models.Message{ID: 1, Content: "secret", Deleted: true})
	assert.Equal(t, DeletedPlaceholder, fm.Content)
	assert.True(t, fm.Deleted)
}

func TestFormatEmptyTypeDefaultsToText(t *testing.T) {
	fm := Format(&models.Message{ID: 1, Content: "hi"})
	assert.Equal(t, "text", fm.Type)
}

func TestFormatReactionAndReply(t *testing.T) {
	reply := int64(3)
	fm := Format(&models.Message{ID: 4, Content: "ok", Reaction: "👍", ReplyToID: &reply})
	if assert.NotNil(t, fm.Reaction) {
		assert.Equal(t, "👍", *fm.Reaction)
	}
	if assert.NotNil(t, fm.ReplyToID) {
		assert.Equal(t, int64(3), *fm.ReplyToID)
	}
}

func TestFormatAllNeverNil(t *testing.T) {
	out := FormatAll(nil)
	assert.NotNil(t, out)
	assert.Len(t, out, 0)

	raw, err := json.Marshal(out)
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
