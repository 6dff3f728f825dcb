package achievement

import (
	"context"

	"github.com/google/uuid"
)

var defaultCatalog = []Input{
	{
		Title:       "First Step",
		Description: "Complete your first exercise",
		Icon:        "footprints",
		Criteria:    Criteria{Action: "COMPLETE_EXERCISE", SpecialType: SpecialFirstAction},
		PointsValue: 10,
		Category:    CategorySpecial,
	},
	{
		Title:          "Weekly Warrior",
		Description:    "Complete 5 exercises in a week",
		Icon:           "trophy",
		Criteria:       Criteria{Action: "COMPLETE_EXERCISE", RequiredCount: 5, Timeframe: TimeframeWeek},
		PointsValue:    25,
		Category:       CategoryCount,
		IsRepeatable:   true,
		CooldownPeriod: 7,
	},
	{
		Title:       "Mindfulness Master",
		Description: "Complete 10 meditation sessions in a month",
		Icon:        "lotus",
		Criteria:    Criteria{Action: "COMPLETE_MEDITATION", RequiredCount: 10, Timeframe: TimeframeMonth},
		PointsValue: 50,
		Category:    CategoryCount,
	},
	{
		Title:       "Consistency Champion",
		Description: "Maintain a 30-day streak",
		Icon:        "flame",
		Criteria:    Criteria{RequiredStreakDays: 30},
		PointsValue: 100,
		Category:    CategoryStreak,
	},
	{
		Title:       "Reflection Guru",
		Description: "Write 20 reflections",
		Icon:        "book",
		Criteria:    Criteria{Action: "CREATE_REFLECTION", RequiredTotal: 20},
		PointsValue: 30,
		Category:    CategoryMilestone,
	},
	{
		Title:       "Emotional Explorer",
		Description: "Record 5 different moods",
		Icon:        "palette",
		Criteria:    Criteria{Action: "RECORD_MOOD", RequiredCount: 5, Distinct: true},
		PointsValue: 15,
		Category:    CategoryCount,
	},
}

// SeedCatalog installs the default achievements into an empty catalog and
// returns how many were created.
func SeedCatalog(ctx context.Context, repo CatalogRepo) (int, error) {
	n, err := repo.Count(ctx, nil)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, in := range defaultCatalog {
		a := &Achievement{ID: uuid.New()}
		in.apply(a)
		if err := repo.Create(ctx, nil, a); err != nil {
			return 0, err
		}
	}
	return len(defaultCatalog), nil
}
