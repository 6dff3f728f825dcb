package achievement

import (
	"context"
	"fmt"
	"strings"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"augmend/internal/activity"
	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

type ActivityWriter interface {
	Create(ctx context.Context, tx *gorm.DB, l *activity.Log) error
}

type Service struct {
	catalog    CatalogRepo
	ledger     LedgerRepo
	activities ActivityWriter
	eval       *Evaluator
	clock      clock.Clock
	log        *logger.Logger
}

func NewService(catalog CatalogRepo, ledger LedgerRepo, activities ActivityWriter, eval *Evaluator, clk clock.Clock, baseLog *logger.Logger) *Service {
	return &Service{
		catalog:    catalog,
		ledger:     ledger,
		activities: activities,
		eval:       eval,
		clock:      clk,
		log:        baseLog.With("service", "AchievementService"),
	}
}

type Input struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Icon           string   `json:"icon"`
	Criteria       Criteria `json:"criteria"`
	PointsValue    int      `json:"pointsValue"`
	Category       Category `json:"category"`
	IsRepeatable   bool     `json:"isRepeatable"`
	CooldownPeriod int      `json:"cooldownPeriod"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title required", apperr.ErrInvalidInput)
	}
	if in.PointsValue < 0 || in.CooldownPeriod < 0 {
		return fmt.Errorf("%w: pointsValue and cooldownPeriod must not be negative", apperr.ErrInvalidInput)
	}
	_, err := DecodeRule(in.Category, in.Criteria)
	return err
}

func (in Input) apply(a *Achievement) {
	a.Title = strings.TrimSpace(in.Title)
	a.Description = in.Description
	a.Icon = in.Icon
	c := in.Criteria
	c.Action = strings.TrimSpace(c.Action)
	a.Criteria = datatypes.NewJSONType(c)
	a.PointsValue = in.PointsValue
	a.Category = in.Category
	a.IsRepeatable = in.IsRepeatable
	a.CooldownPeriod = in.CooldownPeriod
}

func (s *Service) List(ctx context.Context) ([]Achievement, error) {
	return s.catalog.List(ctx, nil)
}

func (s *Service) ListByCategory(ctx context.Context, cat Category) ([]Achievement, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", apperr.ErrInvalidInput, cat)
	}
	return s.catalog.ListByCategory(ctx, nil, cat)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Achievement, error) {
	return s.catalog.Get(ctx, nil, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Achievement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a := &Achievement{ID: uuid.New()}
	in.apply(a)
	if err := s.catalog.Create(ctx, nil, a); err != nil {
		return nil, err
	}
	s.log.Info("achievement created", "achievement_id", a.ID, "category", a.Category)
	return a, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Achievement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a, err := s.catalog.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	in.apply(a)
	if err := s.catalog.Save(ctx, nil, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.catalog.Delete(ctx, nil, id)
}

func (s *Service) UserAchievements(ctx context.Context, userID uuid.UUID) ([]UserAchievement, error) {
	return s.ledger.ListByUser(ctx, nil, userID)
}

func (s *Service) Completed(ctx context.Context, userID uuid.UUID) ([]UserAchievement, error) {
	return s.ledger.Completed(ctx, nil, userID)
}

func (s *Service) Pending(ctx context.Context, userID uuid.UUID) ([]UserAchievement, error) {
	return s.ledger.Pending(ctx, nil, userID)
}

func (s *Service) SetProgress(ctx context.Context, userID, achievementID uuid.UUID, p Progress) (*UserAchievement, error) {
	if p.Percent < 0 || p.Percent > 100 || p.Count < 0 {
		return nil, fmt.Errorf("%w: percent must be within 0..100", apperr.ErrInvalidInput)
	}
	return s.ledger.SetProgress(ctx, nil, userID, achievementID, p, s.clock.Now().UTC())
}

type ProcessResult struct {
	Unlocked      []UserAchievement `json:"unlockedAchievements"`
	Evaluated     []uuid.UUID       `json:"evaluated"`
	TotalUnlocked int               `json:"totalUnlocked"`
}

// ProcessActivity logs the action and then evaluates achievements for it.
// The log entry is kept even if evaluation fails.
func (s *Service) ProcessActivity(ctx context.Context, userID uuid.UUID, action string, md Metadata) (ProcessResult, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return ProcessResult{}, fmt.Errorf("%w: action required", apperr.ErrInvalidInput)
	}

	entry := activity.NewLog(userID, activity.TypeForAction(action), action, md.Subject, map[string]any{
		"action":     action,
		"streakDays": md.StreakDays,
		"totalCount": md.TotalCount,
	}, nil, s.clock.Now().UTC())
	if err := s.activities.Create(ctx, nil, entry); err != nil {
		return ProcessResult{}, err
	}

	res, err := s.eval.Evaluate(ctx, userID, action, md)
	out := ProcessResult{Unlocked: res.Unlocked, Evaluated: res.Evaluated, TotalUnlocked: len(res.Unlocked)}
	if err != nil {
		s.log.Error("achievement evaluation aborted", "user_id", userID, "action", action, "error", err)
		return out, err
	}
	return out, nil
}

// Evaluate runs the evaluator without logging an activity. Used by the
// background job after the triggering write has already been logged.
func (s *Service) Evaluate(ctx context.Context, userID uuid.UUID, action string, md Metadata) (Result, error) {
	return s.eval.Evaluate(ctx, userID, action, md)
}
