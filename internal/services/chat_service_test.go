package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moesamiii/production/internal/events"
	"github.com/moesamiii/production/internal/models"
	"github.com/moesamiii/production/internal/repositories"
	"github.com/moesamiii/production/internal/services/dto"
)

type fakeChatMessageRepo struct {
	log    []models.ChatMessage
	nextID int64
}

func (f *fakeChatMessageRepo) Create(_ *gorm.DB, message *models.ChatMessage) error {
	f.nextID++
	message.ID = f.nextID
	message.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	f.log = append(f.log, *message)
	return nil
}

func (f *fakeChatMessageRepo) FindByID(_ *gorm.DB, id int64) (*models.ChatMessage, error) {
	for i := range f.log {
		if f.log[i].ID == id {
			copied := f.log[i]
			return &copied, nil
		}
	}
	return nil, repositories.ErrChatMessageNotFound
}

func (f *fakeChatMessageRepo) FindRecent(_ *gorm.DB, limit int) ([]models.ChatMessage, error) {
	start := len(f.log) - limit
	if start < 0 {
		start = 0
	}
	return append([]models.ChatMessage(nil), f.log[start:]...), nil
}

func (f *fakeChatMessageRepo) CountAll(_ *gorm.DB) (int64, error) {
	return int64(len(f.log)), nil
}

func TestChatService_SendMessagePublishes(t *testing.T) {
	repo := &fakeChatMessageRepo{}
	pub := &recordingPublisher{}
	svc := NewChatService(repo, pub, 0)

	sent, err := svc.SendMessage(nil, &dto.SendMessageRequest{
		UserID:   "user_abc123def",
		UserName: "Dana",
		Message:  "does the logo need to be bigger?",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sent.ID)
	assert.Equal(t, "Dana", sent.UserName)
	assert.False(t, sent.IsAdmin)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.OpInsert, pub.published[0].Op)
	assert.Equal(t, events.TableChatMessages, pub.published[0].Table)
}

func TestChatService_SendMessageRejectsBlank(t *testing.T) {
	repo := &fakeChatMessageRepo{}
	svc := NewChatService(repo, nil, 0)

	_, err := svc.SendMessage(nil, &dto.SendMessageRequest{
		UserID: "user_abc123def", UserName: "Dana", Message: " \t\n",
	})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, repo.log)
}

func TestChatService_SendMessageKeepsIdentitySnapshot(t *testing.T) {
	repo := &fakeChatMessageRepo{}
	svc := NewChatService(repo, nil, 0)

	sent, err := svc.SendMessage(nil, &dto.SendMessageRequest{
		UserID: "user_abc123def", UserName: "Dana", Message: "hi", IsAdmin: true,
	})
	require.NoError(t, err)
	assert.True(t, sent.IsAdmin)
	assert.Equal(t, "user_abc123def", repo.log[0].UserID)
}

func TestChatService_GetRecentClampsLimit(t *testing.T) {
	repo := &fakeChatMessageRepo{}
	svc := NewChatService(repo, nil, 0)

	for i := 0; i < 5; i++ {
		_, err := svc.SendMessage(nil, &dto.SendMessageRequest{
			UserID: "user_abc123def", UserName: "Dana",
			Message: fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	// Zero falls back to the default window.
	all, err := svc.GetRecent(nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	two, err := svc.GetRecent(nil, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "message 3", two[0].Message)
	assert.Equal(t, "message 4", two[1].Message)
}
