package repositories

import (
	"errors"

	"github.com/moesamiii/production/internal/models"

	"gorm.io/gorm"
)

var ErrChatMessageNotFound = errors.New("chat message not found")

type ChatMessageRepository interface {
	Create(db *gorm.DB, message *models.ChatMessage) error
	FindByID(db *gorm.DB, id int64) (*models.ChatMessage, error)
	FindRecent(db *gorm.DB, limit int) ([]models.ChatMessage, error)
	CountAll(db *gorm.DB) (int64, error)
}

type ChatMessageRepositoryImpl struct{}

func NewChatMessageRepository() ChatMessageRepository {
	return &ChatMessageRepositoryImpl{}
}

func (r *ChatMessageRepositoryImpl) Create(db *gorm.DB, message *models.ChatMessage) error {
	return db.Create(message).Error
}

func (r *ChatMessageRepositoryImpl) FindByID(db *gorm.DB, id int64) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := db.First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// FindRecent returns the latest `limit` messages in ascending creation
// order, matching how the chat panel renders history.
func (r *ChatMessageRepositoryImpl) FindRecent(db *gorm.DB, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := db.Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Flip to ascending without a second query.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatMessageRepositoryImpl) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.ChatMessage{}).Count(&count).Error
	return count, err
}
