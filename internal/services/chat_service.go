package services

import (
	"errors"
	"strings"

	"github.com/moesamiii/production/internal/events"
	"github.com/moesamiii/production/internal/models"
	"github.com/moesamiii/production/internal/repositories"
	"github.com/moesamiii/production/internal/services/dto"

	"gorm.io/gorm"
)

var ErrEmptyMessage = errors.New("message must not be empty")

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 500
)

type ChatService interface {
	SendMessage(db *gorm.DB, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetRecent(db *gorm.DB, limit int) ([]dto.MessageResponse, error)
}

type chatService struct {
	messageRepo  repositories.ChatMessageRepository
	publisher    events.Publisher
	historyLimit int
}

// NewChatService builds the chat service. historyLimit is the window
// returned when the caller does not ask for a specific size; zero falls
// back to the built-in default.
func NewChatService(messageRepo repositories.ChatMessageRepository, publisher events.Publisher, historyLimit int) ChatService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &chatService{
		messageRepo:  messageRepo,
		publisher:    publisher,
		historyLimit: historyLimit,
	}
}

// SendMessage stores a message tagged with the sender identity captured
// at send time and fans it out to subscribed clients.
func (s *chatService) SendMessage(db *gorm.DB, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	message := &models.ChatMessage{
		UserID:   req.UserID,
		UserName: req.UserName,
		Message:  req.Message,
		IsAdmin:  req.IsAdmin,
	}

	if err := s.messageRepo.Create(db, message); err != nil {
		return nil, err
	}

	resp := dto.NewMessageResponse(message)
	s.publisher.Publish(events.ChangeEvent{
		Op:     events.OpInsert,
		Table:  events.TableChatMessages,
		NewRow: resp,
	})
	return &resp, nil
}

// GetRecent returns the latest messages in ascending creation order.
func (s *chatService) GetRecent(db *gorm.DB, limit int) ([]dto.MessageResponse, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := s.messageRepo.FindRecent(db, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, dto.NewMessageResponse(&messages[i]))
	}
	return responses, nil
}
