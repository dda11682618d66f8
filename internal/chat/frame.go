package chat

import (
	"encoding/json"
	"fmt"
)

// Action is the closed set of things a client can ask for. Anything
// else falls through to an unknown-action error reply.
type Action string

const (
	ActionSend            Action = "send"
	ActionVoice           Action = "voice"
	ActionEdit            Action = "edit"
	ActionDelete          Action = "delete"
	ActionDeletePermanent Action = "delete_permanent"
	ActionReact           Action = "react"
	ActionFetch           Action = "fetch"
	ActionBulk            Action = "bulk" // outbound only
)

// Frame is one decoded inbound message. Which fields matter depends on
// the action; Validate enforces the per-action requirements.
type Frame struct {
	Action       Action `json:"action"`
	Content      string `json:"content"`
	MsgID        int64  `json:"msg_id"`
	Reaction     string `json:"reaction"`
	DeleteForAll bool   `json:"delete_for_all"`
	ReplyToID    *int64 `json:"reply_to_id"`
	FileURL      string `json:"file_url"`
}

// DecodeFrame parses an inbound frame. A frame without an action field
// is a plain send.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Action == "" {
		f.Action = ActionSend
	}
	return &f, nil
}

// Validate checks the action's required fields. A validation failure is
// a client input error: reported inline, never fatal.
func (f *Frame) Validate() error {
	switch f.Action {
	case ActionSend:
		if f.Content == "" {
			return fmt.Errorf("content is required")
		}
	case ActionVoice:
		if f.FileURL == "" {
			return fmt.Errorf("file_url is required")
		}
	case ActionEdit:
		if f.MsgID == 0 || f.Content == "" {
			return fmt.Errorf("msg_id and content are required")
		}
	case ActionDelete, ActionDeletePermanent:
		if f.MsgID == 0 {
			return fmt.Errorf("msg_id is required")
		}
	case ActionReact:
		if f.MsgID == 0 || f.Reaction == "" {
			return fmt.Errorf("msg_id and reaction are required")
		}
	case ActionFetch:
		// no fields
	}
	return nil
}

// Outbound event shapes. Send and voice events carry the full message
// record; the remaining actions emit partial records.

type BulkEvent struct {
	Action   Action             `json:"action"`
	Messages []FormattedMessage `json:"messages"`
}

type VoiceEvent struct {
	FormattedMessage
	Action Action `json:"action"`
}

type EditEvent struct {
	Action  Action `json:"action"`
	MsgID   int64  `json:"msg_id"`
	Content string `json:"content"`
	Edited  bool   `json:"edited"`
}

type DeleteEvent struct {
	Action       Action  `json:"action"`
	MsgID        int64   `json:"msg_id"`
	DeleteForAll bool    `json:"delete_for_all"`
	Content      *string `json:"content"`
}

type DeletePermanentEvent struct {
	Action Action `json:"action"`
	MsgID  int64  `json:"msg_id"`
}

type ReactEvent struct {
	Action   Action `json:"action"`
	MsgID    int64  `json:"msg_id"`
	Reaction string `json:"reaction"`
}

type ErrorEvent struct {
	Error string `json:"error"`
}
