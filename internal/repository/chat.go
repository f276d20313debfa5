package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository stores chat sessions and their message history.
type ChatRepository interface {
	EnsureSession(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]models.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ListMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)
	AddMessage(ctx context.Context, message *models.ChatMessage) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// EnsureSession creates the session row if it does not already exist.
func (r *chatRepository) EnsureSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ChatSession{ID: sessionID}).Error
}

func (r *chatRepository) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *chatRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.ChatSession{}, "id = ?", sessionID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	q := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var messages []models.ChatMessage
	err := q.Find(&messages).Error
	return messages, err
}

func (r *chatRepository) AddMessage(ctx context.Context, message *models.ChatMessage) error {
	if err := r.EnsureSession(ctx, message.SessionID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(message).Error
}
