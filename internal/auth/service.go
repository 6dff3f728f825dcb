package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

const minPasswordLen = 8

var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)

type Service struct {
	repo Repo
	jwt  *JWT
	log  *logger.Logger
}

func NewService(repo Repo, jwtSvc *JWT, baseLog *logger.Logger) *Service {
	return &Service{repo: repo, jwt: jwtSvc, log: baseLog.With("service", "AuthService")}
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type PreferencesPatch struct {
	Theme         *Theme    `json:"theme"`
	FontSize      *FontSize `json:"fontSize"`
	Notifications *bool     `json:"notifications"`
	EmailDigest   *bool     `json:"emailDigest"`
}

type ProfilePatch struct {
	FirstName      *string           `json:"firstName"`
	LastName       *string           `json:"lastName"`
	ProfilePicture *string           `json:"profilePicture"`
	Preferences    *PreferencesPatch `json:"preferences"`
}

func normalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", apperr.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperr.ErrInvalidInput, minPasswordLen)
	}
	if first == "" || last == "" {
		return nil, fmt.Errorf("%w: first and last name are required", apperr.ErrInvalidInput)
	}

	if _, err := s.repo.GetByEmail(ctx, nil, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Preferences:  DefaultPreferences(),
	}
	if err := s.repo.Create(ctx, nil, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", "userID", u.ID)
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperr.ErrInvalidInput)
	}
	u, err := s.repo.GetByEmail(ctx, nil, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !ComparePassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *Service) session(u *User) (*Session, error) {
	token, err := s.jwt.Sign(u.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{User: u, Token: token}, nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.Get(ctx, nil, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, p ProfilePatch) (*User, error) {
	u, err := s.repo.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if p.FirstName != nil {
		if u.FirstName = strings.TrimSpace(*p.FirstName); u.FirstName == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", apperr.ErrInvalidInput)
		}
	}
	if p.LastName != nil {
		if u.LastName = strings.TrimSpace(*p.LastName); u.LastName == "" {
			return nil, fmt.Errorf("%w: last name cannot be empty", apperr.ErrInvalidInput)
		}
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = strings.TrimSpace(*p.ProfilePicture)
	}
	if pp := p.Preferences; pp != nil {
		if pp.Theme != nil {
			if !pp.Theme.Valid() {
				return nil, fmt.Errorf("%w: unknown theme %q", apperr.ErrInvalidInput, *pp.Theme)
			}
			u.Preferences.Theme = *pp.Theme
		}
		if pp.FontSize != nil {
			if !pp.FontSize.Valid() {
				return nil, fmt.Errorf("%w: unknown font size %q", apperr.ErrInvalidInput, *pp.FontSize)
			}
			u.Preferences.FontSize = *pp.FontSize
		}
		if pp.Notifications != nil {
			u.Preferences.Notifications = *pp.Notifications
		}
		if pp.EmailDigest != nil {
			u.Preferences.EmailDigest = *pp.EmailDigest
		}
	}
	if err := s.repo.Save(ctx, nil, u); err != nil {
		return nil, err
	}
	return u, nil
}
