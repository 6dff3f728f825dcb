package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"augmend/internal/achievement"
	"augmend/internal/pkg/logger"
)

type AchievementPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Action string    `json:"action"`
}

type AchievementEvaluator interface {
	Evaluate(ctx context.Context, userID uuid.UUID, action string, md achievement.Metadata) (achievement.Result, error)
}

// MetadataProvider derives evaluator metadata at handle time, so a retried
// job sees current totals.
type MetadataProvider interface {
	AchievementMetadata(ctx context.Context, userID uuid.UUID, action string) (achievement.Metadata, error)
}

type ActionCounter interface {
	CountActions(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, since *time.Time, distinct bool) (int64, error)
}

// ActionMetadata reports how often the user has logged the job's action.
// Actions listed in ByAction use their own provider instead.
type ActionMetadata struct {
	Counter  ActionCounter
	ByAction map[string]MetadataProvider
}

func (m ActionMetadata) AchievementMetadata(ctx context.Context, userID uuid.UUID, action string) (achievement.Metadata, error) {
	if p, ok := m.ByAction[action]; ok {
		return p.AchievementMetadata(ctx, userID, action)
	}
	n, err := m.Counter.CountActions(ctx, nil, userID, action, nil, false)
	if err != nil {
		return achievement.Metadata{}, fmt.Errorf("count %s: %w", action, err)
	}
	return achievement.Metadata{TotalCount: int(n)}, nil
}

func AchievementEvaluateHandler(eval AchievementEvaluator, meta MetadataProvider, baseLog *logger.Logger) HandlerFunc {
	log := baseLog.With("handler", TypeAchievementEvaluate)
	return func(ctx context.Context, job *Job) error {
		var p AchievementPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil || p.Action == "" {
			return fmt.Errorf("%w: bad payload", ErrPermanent)
		}
		if p.UserID == uuid.Nil {
			p.UserID = job.UserID
		}

		md, err := meta.AchievementMetadata(ctx, p.UserID, p.Action)
		if err != nil {
			return fmt.Errorf("load metadata: %w", err)
		}
		res, err := eval.Evaluate(ctx, p.UserID, p.Action, md)
		if err != nil {
			return err
		}
		log.Debug("achievements evaluated", "user_id", p.UserID, "action", p.Action,
			"evaluated", len(res.Evaluated), "unlocked", len(res.Unlocked))
		return nil
	}
}
