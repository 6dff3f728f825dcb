package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"augmend/internal/pkg/logger"
)

type Repo interface {
	LatestConversation(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Conversation, error)
	CreateConversation(ctx context.Context, tx *gorm.DB, c *Conversation) error
	AddMessage(ctx context.Context, tx *gorm.DB, m *Message) error
	Messages(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) ([]Message, error)
	ActiveQuestions(ctx context.Context, tx *gorm.DB, limit int) ([]SuggestedQuestion, error)
	CountQuestions(ctx context.Context, tx *gorm.DB) (int64, error)
	CreateQuestions(ctx context.Context, tx *gorm.DB, qs []SuggestedQuestion) error
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "AssistantRepo")}
}

func (r *repo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

// LatestConversation returns (nil, nil) when the user has none.
func (r *repo) LatestConversation(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Conversation, error) {
	var c Conversation
	err := r.conn(ctx, tx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest conversation: %w", err)
	}
	return &c, nil
}

func (r *repo) CreateConversation(ctx context.Context, tx *gorm.DB, c *Conversation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.IsActive = true
	return r.conn(ctx, tx).Create(c).Error
}

// AddMessage also bumps the conversation's updated_at so it stays latest.
func (r *repo) AddMessage(ctx context.Context, tx *gorm.DB, m *Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	db := r.conn(ctx, tx)
	if err := db.Create(m).Error; err != nil {
		return fmt.Errorf("add message: %w", err)
	}
	return db.Model(&Conversation{}).
		Where("id = ?", m.ConversationID).
		Update("updated_at", m.Timestamp).Error
}

func (r *repo) Messages(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) ([]Message, error) {
	var out []Message
	err := r.conn(ctx, tx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp asc").
		Find(&out).Error
	return out, err
}

func (r *repo) ActiveQuestions(ctx context.Context, tx *gorm.DB, limit int) ([]SuggestedQuestion, error) {
	var out []SuggestedQuestion
	err := r.conn(ctx, tx).
		Where("is_active = ?", true).
		Order("display_order asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *repo) CountQuestions(ctx context.Context, tx *gorm.DB) (int64, error) {
	var n int64
	err := r.conn(ctx, tx).Model(&SuggestedQuestion{}).Count(&n).Error
	return n, err
}

func (r *repo) CreateQuestions(ctx context.Context, tx *gorm.DB, qs []SuggestedQuestion) error {
	for i := range qs {
		if qs[i].ID == uuid.Nil {
			qs[i].ID = uuid.New()
		}
	}
	return r.conn(ctx, tx).Create(&qs).Error
}
