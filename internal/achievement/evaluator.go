package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"augmend/internal/pkg/logger"
	"augmend/internal/timeutil"
)

type Catalog interface {
	List(ctx context.Context, tx *gorm.DB) ([]Achievement, error)
}

type Ledger interface {
	Get(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (*UserAchievement, error)
	Unlock(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (*UserAchievement, error)
	UpsertProgress(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, p Progress) error
}

type ActionCounter interface {
	CountActions(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, since *time.Time, distinct bool) (int64, error)
}

// Metadata is what the caller knows about the user at the time of the
// action.
type Metadata struct {
	StreakDays int    `json:"streakDays,omitempty"`
	TotalCount int    `json:"totalCount,omitempty"`
	Subject    string `json:"subject,omitempty"`
}

type Result struct {
	Unlocked  []UserAchievement `json:"unlocked"`
	Evaluated []uuid.UUID       `json:"evaluated"`
}

type Evaluator struct {
	catalog Catalog
	ledger  Ledger
	counter ActionCounter
	clock   clock.Clock
	log     *logger.Logger

	// StrictFirstAction makes FIRST_ACTION rules also require that the
	// action has been logged at most once. Off by default.
	StrictFirstAction bool
}

func NewEvaluator(catalog Catalog, ledger Ledger, counter ActionCounter, clk clock.Clock, baseLog *logger.Logger) *Evaluator {
	return &Evaluator{
		catalog: catalog,
		ledger:  ledger,
		counter: counter,
		clock:   clk,
		log:     baseLog.With("component", "AchievementEvaluator"),
	}
}

// Evaluate checks every achievement listening to action and unlocks the
// eligible ones. Each achievement is read and written on its own; on a
// storage error the achievements processed so far stay unlocked and the
// partial result is returned alongside the error.
func (e *Evaluator) Evaluate(ctx context.Context, userID uuid.UUID, action string, md Metadata) (Result, error) {
	res := Result{Unlocked: []UserAchievement{}, Evaluated: []uuid.UUID{}}

	catalog, err := e.catalog.List(ctx, nil)
	if err != nil {
		return res, err
	}

	now := e.clock.Now().UTC()
	for i := range catalog {
		a := &catalog[i]
		rule, err := a.Rule()
		if err != nil {
			e.log.Warn("skipping achievement with bad criteria", "achievement_id", a.ID, "error", err)
			continue
		}
		if !rule.MatchesAction(action) {
			continue
		}

		existing, err := e.ledger.Get(ctx, nil, userID, a.ID)
		if err != nil {
			return res, err
		}
		if !e.eligibleAgain(a, existing, now) {
			continue
		}

		res.Evaluated = append(res.Evaluated, a.ID)
		ok, err := e.check(ctx, userID, a, rule, action, md, now)
		if err != nil {
			return res, fmt.Errorf("evaluate %q: %w", a.Title, err)
		}
		if !ok {
			continue
		}

		ua, err := e.ledger.Unlock(ctx, nil, userID, a.ID, now)
		if err != nil {
			return res, err
		}
		e.log.Info("achievement unlocked", "user_id", userID, "achievement_id", a.ID, "completion_count", ua.CompletionCount)
		res.Unlocked = append(res.Unlocked, *ua)
	}
	return res, nil
}

// eligibleAgain is false for unlocked one-offs and for repeatables still
// inside their cooldown.
func (e *Evaluator) eligibleAgain(a *Achievement, ua *UserAchievement, now time.Time) bool {
	if !ua.Unlocked() {
		return true
	}
	if !a.IsRepeatable {
		return false
	}
	if a.CooldownPeriod > 0 && ua.LastCompleted != nil {
		cooldownEnd := ua.LastCompleted.AddDate(0, 0, a.CooldownPeriod)
		if now.Before(cooldownEnd) {
			return false
		}
	}
	return true
}

func (e *Evaluator) check(ctx context.Context, userID uuid.UUID, a *Achievement, rule Rule, action string, md Metadata, now time.Time) (bool, error) {
	switch r := rule.(type) {
	case StreakRule:
		return md.StreakDays > 0 && md.StreakDays >= r.RequiredStreakDays, nil

	case CountRule:
		since := windowStart(r.Timeframe, now)
		n, err := e.counter.CountActions(ctx, nil, userID, action, since, r.Distinct)
		if err != nil {
			return false, err
		}
		count := int(n)
		if err := e.ledger.UpsertProgress(ctx, nil, userID, a.ID, Progress{Count: count, Percent: percent(count, r.RequiredCount)}); err != nil {
			return false, err
		}
		return count >= r.RequiredCount, nil

	case MilestoneRule:
		if md.TotalCount <= 0 {
			return false, nil
		}
		p := Progress{Count: md.TotalCount, Percent: percent(md.TotalCount, r.RequiredTotal)}
		if err := e.ledger.UpsertProgress(ctx, nil, userID, a.ID, p); err != nil {
			return false, err
		}
		return md.TotalCount >= r.RequiredTotal, nil

	case SpecialRule:
		if r.SpecialType != SpecialFirstAction || action != r.Action {
			return false, nil
		}
		if !e.StrictFirstAction {
			return true, nil
		}
		n, err := e.counter.CountActions(ctx, nil, userID, action, nil, false)
		if err != nil {
			return false, err
		}
		return n <= 1, nil
	}
	return false, nil
}

// windowStart returns nil for the unbounded timeframe.
func windowStart(tf Timeframe, now time.Time) *time.Time {
	var t time.Time
	switch tf {
	case TimeframeDay:
		t = timeutil.StartOfDay(now)
	case TimeframeWeek:
		t = now.AddDate(0, 0, -7)
	case TimeframeMonth:
		t = timeutil.StartOfMonth(now)
	default:
		return nil
	}
	return &t
}
