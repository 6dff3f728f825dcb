package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("email already used: %w", apperr.ErrConflict)
)

type Repo interface {
	Create(ctx context.Context, tx *gorm.DB, u *User) error
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	Save(ctx context.Context, tx *gorm.DB, u *User) error
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *repo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

func (r *repo) Create(ctx context.Context, tx *gorm.DB, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := r.conn(ctx, tx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (r *repo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	var u User
	err := r.conn(ctx, tx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	var u User
	err := r.conn(ctx, tx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) Save(ctx context.Context, tx *gorm.DB, u *User) error {
	return r.conn(ctx, tx).Save(u).Error
}
