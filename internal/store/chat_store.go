package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/moesamiii/production/internal/logger"
	"github.com/moesamiii/production/internal/services/dto"
)

// ErrEmptyMessage is returned by Send for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// ChatBackend is the remote half the chat store syncs against.
type ChatBackend interface {
	RecentMessages(ctx context.Context, limit int) ([]dto.MessageResponse, error)
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
}

// ChatStore mirrors the append-only message log. Sent messages are not
// appended locally; they arrive through ApplyMessage like everyone
// else's, so the mirror stays a pure reflection of the remote log.
type ChatStore struct {
	mu       sync.Mutex
	backend  ChatBackend
	identity *UserIdentity
	messages []dto.MessageResponse
	unread   int
	visible  bool
	subs     []func(dto.MessageResponse)
}

func NewChatStore(backend ChatBackend, identity *UserIdentity) *ChatStore {
	return &ChatStore{
		backend:  backend,
		identity: identity,
	}
}

// OnMessage registers a callback invoked for every message appended by
// ApplyMessage.
func (s *ChatStore) OnMessage(fn func(dto.MessageResponse)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// LoadRecent replaces the mirror with the newest messages in ascending
// order. On transport error the mirror is reset to empty.
func (s *ChatStore) LoadRecent(ctx context.Context, limit int) error {
	messages, err := s.backend.RecentMessages(ctx, limit)

	s.mu.Lock()
	if err != nil {
		s.messages = nil
	} else {
		s.messages = append([]dto.MessageResponse(nil), messages...)
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("failed to load chat history", "error", err)
	}
	return err
}

// Send publishes a message under the current identity. Blank input is
// rejected before any network traffic. The message is not appended
// here; it comes back as a pushed insert.
func (s *ChatStore) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	req := &dto.SendMessageRequest{
		UserID:   s.identity.ID,
		UserName: s.identity.Name,
		Message:  text,
		IsAdmin:  s.identity.IsAdmin,
	}
	if _, err := s.backend.SendMessage(ctx, req); err != nil {
		return err
	}
	return nil
}

// ApplyMessage appends one pushed message. The unread counter advances
// only when the chat is hidden and the sender is someone else.
func (s *ChatStore) ApplyMessage(msg dto.MessageResponse) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	if !s.visible && msg.UserID != s.identity.ID {
		s.unread++
	}
	subs := make([]func(dto.MessageResponse), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(msg)
	}
}

// SetVisible tracks whether the chat panel is open. Opening it marks
// everything read.
func (s *ChatStore) SetVisible(visible bool) {
	s.mu.Lock()
	s.visible = visible
	if visible {
		s.unread = 0
	}
	s.mu.Unlock()
}

// MarkRead clears the unread counter.
func (s *ChatStore) MarkRead() {
	s.mu.Lock()
	s.unread = 0
	s.mu.Unlock()
}

// Unread returns the count of messages received while hidden.
func (s *ChatStore) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// Messages returns a copy of the mirror in arrival order.
func (s *ChatStore) Messages() []dto.MessageResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dto.MessageResponse(nil), s.messages...)
}
