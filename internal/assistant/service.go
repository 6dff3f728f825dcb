package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

const questionLimit = 5

type Service struct {
	repo  Repo
	clock clock.Clock
	log   *logger.Logger
}

func NewService(repo Repo, clk clock.Clock, baseLog *logger.Logger) *Service {
	return &Service{repo: repo, clock: clk, log: baseLog.With("service", "AssistantService")}
}

// ProcessMessage answers with the matcher and records both sides of the
// exchange. Storage failures are logged and do not withhold the answer.
func (s *Service) ProcessMessage(ctx context.Context, userID uuid.UUID, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, fmt.Errorf("%w: message required", apperr.ErrInvalidInput)
	}
	topic, response := Match(text)
	now := s.clock.Now().UTC()

	if err := s.store(ctx, userID, text, topic, response); err != nil {
		s.log.Error("failed to store assistant exchange", "userID", userID, "err", err)
	}
	return Reply{Response: response, Timestamp: now}, nil
}

func (s *Service) store(ctx context.Context, userID uuid.UUID, text string, topic Topic, response string) error {
	conv, err := s.conversation(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.AddMessage(ctx, nil, &Message{
		ConversationID: conv.ID,
		Content:        text,
		Sender:         SenderUser,
		Timestamp:      s.clock.Now().UTC(),
	}); err != nil {
		return err
	}
	return s.repo.AddMessage(ctx, nil, &Message{
		ConversationID: conv.ID,
		Content:        response,
		Sender:         SenderAssistant,
		Timestamp:      s.clock.Now().UTC(),
		Metadata:       datatypes.JSON(fmt.Sprintf(`{"topic":%q}`, topic)),
	})
}

func (s *Service) conversation(ctx context.Context, userID uuid.UUID) (*Conversation, error) {
	conv, err := s.repo.LatestConversation(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}
	conv = &Conversation{UserID: userID}
	if err := s.repo.CreateConversation(ctx, nil, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (s *Service) SuggestedQuestions(ctx context.Context) []string {
	qs, err := s.repo.ActiveQuestions(ctx, nil, questionLimit)
	if err != nil {
		s.log.Warn("suggested questions unavailable, using defaults", "err", err)
	}
	if len(qs) == 0 {
		return append([]string(nil), defaultQuestions...)
	}
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Text
	}
	return out
}

// History returns the messages of the user's latest conversation, oldest
// first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	conv, err := s.repo.LatestConversation(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return []Message{}, nil
	}
	return s.repo.Messages(ctx, nil, conv.ID)
}
