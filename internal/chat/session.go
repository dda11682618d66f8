package chat

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/models"
	"github.com/qobilovfirdavs02/ChatApp-server/pkg/logger"
	"github.com/qobilovfirdavs02/ChatApp-server/pkg/utils"
)

// Relay bundles the shared collaborators of all sessions: the durable
// store, the conversation cache and the live connection registry.
type Relay struct {
	store             *Store
	cache             *Cache
	registry          *Registry
	restrictMutations bool
}

func NewRelay(store *Store, cache *Cache, restrictMutations bool) *Relay {
	return &Relay{
		store:             store,
		cache:             cache,
		registry:          NewRegistry(),
		restrictMutations: restrictMutations,
	}
}

func (r *Relay) Registry() *Registry {
	return r.registry
}

// Session owns one accepted websocket for a (username, receiver) pair:
// it authenticates the username, claims the registry slot, pushes the
// initial history and then drives the receive loop until the connection
// dies.
type Session struct {
	relay    *Relay
	peer     *Peer
	username string
	receiver string
}

// NewSession wraps an accepted connection. Identities are normalized
// here; some clients percent-encode spaces in the path.
func (r *Relay) NewSession(conn *websocket.Conn, username, receiver string) *Session {
	return &Session{
		relay:    r,
		peer:     NewPeer(conn),
		username: utils.CleanPathParam(username),
		receiver: utils.CleanPathParam(receiver),
	}
}

// Run drives the session to completion. It returns once the connection
// is closed; the registry entry is released on every exit path.
func (s *Session) Run(ctx context.Context) {
	exists, err := s.relay.store.UserExists(ctx, s.username)
	if err != nil {
		logger.Error().Err(err).Str("user", s.username).Msg("user lookup failed")
		s.peer.CloseWithReason(websocket.CloseInternalServerErr, "user lookup failed")
		return
	}
	if !exists {
		logger.Warn().Str("user", s.username).Msg("rejected unknown user")
		s.peer.CloseWithReason(websocket.ClosePolicyViolation, "unknown user")
		return
	}

	if err := s.relay.registry.Register(s.username, s.peer); err != nil {
		logger.Warn().Str("user", s.username).Msg("rejected duplicate connection")
		s.peer.CloseWithReason(websocket.ClosePolicyViolation, "already connected")
		return
	}
	defer s.relay.registry.Unregister(s.username, s.peer)
	defer s.peer.Close()

	logger.Info().Str("user", s.username).Str("peer", s.receiver).Msg("session started")

	if err := s.pushHistory(ctx); err != nil {
		logger.Error().Err(err).Str("user", s.username).Msg("initial history push failed")
		return
	}

	for {
		data, err := s.peer.Read()
		if err != nil {
			logger.Info().Err(err).Str("user", s.username).Msg("session closed")
			return
		}
		frame, err := DecodeFrame(data)
		if err != nil {
			// Malformed frame is a protocol error, not a client input
			// error: the session dies.
			logger.Warn().Err(err).Str("user", s.username).Msg("malformed frame")
			s.peer.CloseWithReason(websocket.CloseInvalidFramePayloadData, "malformed frame")
			return
		}
		s.dispatch(ctx, frame)
	}
}

// dispatch routes one decoded frame. Client input errors and backend
// failures are replied inline and never end the loop.
func (s *Session) dispatch(ctx context.Context, f *Frame) {
	if err := f.Validate(); err != nil {
		s.sendError(err.Error())
		return
	}

	switch f.Action {
	case ActionSend:
		s.handleSend(ctx, f)
	case ActionVoice:
		s.handleVoice(ctx, f)
	case ActionEdit:
		s.handleEdit(ctx, f)
	case ActionDelete:
		s.handleDelete(ctx, f)
	case ActionDeletePermanent:
		s.handleDeletePermanent(ctx, f)
	case ActionReact:
		s.handleReact(ctx, f)
	case ActionFetch:
		if err := s.pushHistory(ctx); err != nil {
			logger.Error().Err(err).Str("user", s.username).Msg("fetch failed")
			s.sendError("failed to fetch messages")
		}
	default:
		s.sendError("unknown action: " + string(f.Action))
	}
}

// pushHistory sends the pair's full history as one bulk frame, reading
// through the cache and populating it on a miss.
func (s *Session) pushHistory(ctx context.Context) error {
	msgs, hit, err := s.relay.cache.Get(ctx, s.username, s.receiver)
	if err != nil {
		logger.Warn().Err(err).Str("user", s.username).Msg("cache read failed, falling back to store")
	}
	if !hit {
		rows, err := s.relay.store.History(ctx, s.username, s.receiver)
		if err != nil {
			return err
		}
		msgs = FormatAll(rows)
		if err := s.relay.cache.Set(ctx, s.username, s.receiver, msgs); err != nil {
			logger.Warn().Err(err).Str("user", s.username).Msg("cache populate failed")
		}
	}
	if msgs == nil {
		msgs = []FormattedMessage{}
	}
	return s.peer.SendJSON(BulkEvent{Action: ActionBulk, Messages: msgs})
}

func (s *Session) handleSend(ctx context.Context, f *Frame) {
	msg, err := s.relay.store.Insert(ctx, s.username, s.receiver, f.Content, f.ReplyToID, models.MessageTypeText)
	if err != nil {
		logger.Error().Err(err).Str("user", s.username).Msg("send insert failed")
		s.sendError("failed to send message")
		return
	}
	fm := Format(msg)
	if !s.applyCache(ctx, s.relay.cache.AppendBoth(ctx, s.username, s.receiver, fm)) {
		return
	}
	s.deliver(fm)
}

func (s *Session) handleVoice(ctx context.Context, f *Frame) {
	msg, err := s.relay.store.Insert(ctx, s.username, s.receiver, f.FileURL, nil, models.MessageTypeVoice)
	if err != nil {
		logger.Error().Err(err).Str("user", s.username).Msg("voice insert failed")
		s.sendError("failed to send voice message")
		return
	}
	fm := Format(msg)
	if !s.applyCache(ctx, s.relay.cache.AppendBoth(ctx, s.username, s.receiver, fm)) {
		return
	}
	s.deliver(VoiceEvent{FormattedMessage: fm, Action: ActionVoice})
}

func (s *Session) handleEdit(ctx context.Context, f *Frame) {
	if !s.mayMutate(ctx, f.MsgID) {
		return
	}
	if err := s.relay.store.MarkEdited(ctx, f.MsgID, f.Content); err != nil {
		logger.Error().Err(err).Int64("msg_id", f.MsgID).Msg("edit failed")
		s.sendError("failed to edit message")
		return
	}
	if !s.applyCache(ctx, s.relay.cache.EditBoth(ctx, s.username, s.receiver, f.MsgID, f.Content)) {
		return
	}
	s.deliver(EditEvent{Action: ActionEdit, MsgID: f.MsgID, Content: f.Content, Edited: true})
}

func (s *Session) handleDelete(ctx context.Context, f *Frame) {
	if f.DeleteForAll {
		if !s.mayMutate(ctx, f.MsgID) {
			return
		}
		if err := s.relay.store.MarkDeleted(ctx, f.MsgID); err != nil {
			logger.Error().Err(err).Int64("msg_id", f.MsgID).Msg("delete failed")
			s.sendError("failed to delete message")
			return
		}
		if !s.applyCache(ctx, s.relay.cache.DeleteBoth(ctx, s.username, s.receiver, f.MsgID)) {
			return
		}
	}
	event := DeleteEvent{Action: ActionDelete, MsgID: f.MsgID, DeleteForAll: f.DeleteForAll}
	if f.DeleteForAll {
		placeholder := DeletedPlaceholder
		event.Content = &placeholder
	}
	s.deliver(event)
}

func (s *Session) handleDeletePermanent(ctx context.Context, f *Frame) {
	if !s.mayMutate(ctx, f.MsgID) {
		return
	}
	if err := s.relay.store.HardDelete(ctx, f.MsgID); err != nil {
		logger.Error().Err(err).Int64("msg_id", f.MsgID).Msg("permanent delete failed")
		s.sendError("failed to delete message")
		return
	}
	if !s.applyCache(ctx, s.relay.cache.RemoveBoth(ctx, s.username, s.receiver, f.MsgID)) {
		return
	}
	s.deliver(DeletePermanentEvent{Action: ActionDeletePermanent, MsgID: f.MsgID})
}

func (s *Session) handleReact(ctx context.Context, f *Frame) {
	if !s.mayMutate(ctx, f.MsgID) {
		return
	}
	if err := s.relay.store.SetReaction(ctx, f.MsgID, f.Reaction); err != nil {
		logger.Error().Err(err).Int64("msg_id", f.MsgID).Msg("react failed")
		s.sendError("failed to set reaction")
		return
	}
	if !s.applyCache(ctx, s.relay.cache.ReactBoth(ctx, s.username, s.receiver, f.MsgID, f.Reaction)) {
		return
	}
	s.deliver(ReactEvent{Action: ActionReact, MsgID: f.MsgID, Reaction: f.Reaction})
}

// mayMutate enforces the optional sender-only ownership policy. With
// the restriction off, either participant may manage shared history.
func (s *Session) mayMutate(ctx context.Context, msgID int64) bool {
	if !s.relay.restrictMutations {
		return true
	}
	sender, err := s.relay.store.SenderOf(ctx, msgID)
	if err != nil {
		s.sendError("message not found")
		return false
	}
	if sender != s.username {
		s.sendError("only the sender can modify this message")
		return false
	}
	return true
}

// applyCache reports whether the cache update succeeded. On failure the
// action fails: both directions are dropped so the next read goes back
// to the store, and the initiator gets an inline error.
func (s *Session) applyCache(ctx context.Context, err error) bool {
	if err == nil {
		return true
	}
	logger.Error().Err(err).Str("user", s.username).Msg("cache update failed")
	if dropErr := s.relay.cache.Drop(ctx, s.username, s.receiver); dropErr != nil {
		logger.Warn().Err(dropErr).Msg("cache drop failed")
	}
	s.sendError("temporary failure, please retry")
	return false
}

// deliver forwards the event to the receiver's live connection if there
// is one (absence is not an error) and echoes it to the initiator.
func (s *Session) deliver(event interface{}) {
	if peer, ok := s.relay.registry.Lookup(s.receiver); ok {
		if err := peer.SendJSON(event); err != nil {
			logger.Warn().Err(err).Str("peer", s.receiver).Msg("forward to receiver failed")
		}
	}
	if err := s.peer.SendJSON(event); err != nil {
		logger.Warn().Err(err).Str("user", s.username).Msg("echo to sender failed")
	}
}

func (s *Session) sendError(msg string) {
	if err := s.peer.SendJSON(ErrorEvent{Error: msg}); err != nil {
		logger.Warn().Err(err).Str("user", s.username).Msg("error reply failed")
	}
}
