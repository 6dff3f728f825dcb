package achievement

import (
	"fmt"
	"strings"

	"augmend/internal/pkg/apperr"
)

var ErrInvalidCriteria = fmt.Errorf("%w: invalid achievement criteria", apperr.ErrInvalidInput)

// Rule is the typed form of Criteria. Exactly one implementation exists per
// category.
type Rule interface {
	Category() Category
	// MatchesAction reports whether the rule listens to action. An empty
	// rule action listens to every action.
	MatchesAction(action string) bool
}

type StreakRule struct {
	Action             string
	RequiredStreakDays int
}

type CountRule struct {
	Action        string
	RequiredCount int
	Timeframe     Timeframe
	Distinct      bool
}

type MilestoneRule struct {
	Action        string
	RequiredTotal int
}

type SpecialRule struct {
	Action      string
	SpecialType string
}

func (StreakRule) Category() Category    { return CategoryStreak }
func (CountRule) Category() Category     { return CategoryCount }
func (MilestoneRule) Category() Category { return CategoryMilestone }
func (SpecialRule) Category() Category   { return CategorySpecial }

func (r StreakRule) MatchesAction(a string) bool    { return matchAction(r.Action, a) }
func (r CountRule) MatchesAction(a string) bool     { return matchAction(r.Action, a) }
func (r MilestoneRule) MatchesAction(a string) bool { return matchAction(r.Action, a) }
func (r SpecialRule) MatchesAction(a string) bool   { return matchAction(r.Action, a) }

func matchAction(want, got string) bool {
	return want == "" || want == got
}

// Rule decodes the stored criteria for the achievement's category.
func (a *Achievement) Rule() (Rule, error) {
	return DecodeRule(a.Category, a.Criteria.Data())
}

func DecodeRule(cat Category, c Criteria) (Rule, error) {
	switch cat {
	case CategoryStreak:
		if c.RequiredStreakDays <= 0 {
			return nil, fmt.Errorf("%w: requiredStreakDays must be positive", ErrInvalidCriteria)
		}
		return StreakRule{Action: c.Action, RequiredStreakDays: c.RequiredStreakDays}, nil
	case CategoryCount:
		if c.RequiredCount <= 0 {
			return nil, fmt.Errorf("%w: requiredCount must be positive", ErrInvalidCriteria)
		}
		switch c.Timeframe {
		case TimeframeAll, TimeframeDay, TimeframeWeek, TimeframeMonth:
		default:
			return nil, fmt.Errorf("%w: unknown timeframe %q", ErrInvalidCriteria, c.Timeframe)
		}
		return CountRule{Action: c.Action, RequiredCount: c.RequiredCount, Timeframe: c.Timeframe, Distinct: c.Distinct}, nil
	case CategoryMilestone:
		if c.RequiredTotal <= 0 {
			return nil, fmt.Errorf("%w: requiredTotal must be positive", ErrInvalidCriteria)
		}
		return MilestoneRule{Action: c.Action, RequiredTotal: c.RequiredTotal}, nil
	case CategorySpecial:
		if strings.TrimSpace(c.SpecialType) == "" {
			return nil, fmt.Errorf("%w: specialType required", ErrInvalidCriteria)
		}
		return SpecialRule{Action: c.Action, SpecialType: c.SpecialType}, nil
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidCriteria, cat)
	}
}

func percent(have, want int) float64 {
	if want <= 0 {
		return 0
	}
	p := float64(have) * 100 / float64(want)
	if p > 100 {
		return 100
	}
	return p
}
