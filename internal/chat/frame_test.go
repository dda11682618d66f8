package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFrameDefaultsToSend(t *testing.T) {
	f, err := DecodeFrame([]byte(`{"content":"hi"}`))
	assert.NoError(t, err)
	assert.Equal(t, ActionSend, f.Action)
	assert.Equal(t, "hi", f.Content)
}

func TestDecodeFrameMalformed(t *testing.T) {
	_, err := DecodeFrame([]byte(`{not json`))
	assert.Error(t, err)
}

func TestFrameValidate(t *testing.T) {
	cases := []struct {
		name    string
		frame   Frame
		wantErr string
	}{
		{"send without content", Frame{Action: ActionSend}, "content is required"},
		{"send ok", Frame{Action: ActionSend, Content: "hi"}, ""},
		{"voice without url", Frame{Action: ActionVoice}, "file_url is required"},
		{"voice ok", Frame{Action: ActionVoice, FileURL: "https://cdn/x.ogg"}, ""},
		{"edit without msg_id", Frame{Action: ActionEdit, Content: "x"}, "msg_id and content are required"},
		{"edit without content", Frame{Action: ActionEdit, MsgID: 1}, "msg_id and content are required"},
		{"edit ok", Frame{Action: ActionEdit, MsgID: 1, Content: "x"}, ""},
		{"delete without msg_id", Frame{Action: ActionDelete}, "msg_id is required"},
		{"delete ok", Frame{Action: ActionDelete, MsgID: 1}, ""},
		{"delete_permanent without msg_id", Frame{Action: ActionDeletePermanent}, "msg_id is required"},
		{"react without reaction", Frame{Action: ActionReact, MsgID: 1}, "msg_id and reaction are required"},
		{"react ok", Frame{Action: ActionReact, MsgID: 1, Reaction: "👍"}, ""},
		{"fetch", Frame{Action: ActionFetch}, ""},
	}

	for _, tc := range cases {
		err := tc.frame.Validate()
		if tc.wantErr == "" {
			assert.NoError(t, err, tc.name)
		} else {
			assert.EqualError(t, err, tc.wantErr, tc.name)
		}
	}
}
