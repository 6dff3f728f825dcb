package assistant

import (
	"context"

	"gorm.io/gorm"
)

var defaultQuestions = []string{
	"How can I improve my sleep quality?",
	"What are good foods for heart health?",
	"How much exercise is recommended weekly?",
	"What can help with stress reduction?",
	"How can I stay hydrated throughout the day?",
}

var defaultCategories = []string{"sleep", "diet", "exercise", "stress", "general"}

type questionSeeder interface {
	CountQuestions(ctx context.Context, tx *gorm.DB) (int64, error)
	CreateQuestions(ctx context.Context, tx *gorm.DB, qs []SuggestedQuestion) error
}

// SeedQuestions installs the default questions into an empty table.
func SeedQuestions(ctx context.Context, r questionSeeder) (int, error) {
	n, err := r.CountQuestions(ctx, nil)
	if err != nil || n > 0 {
		return 0, err
	}
	qs := make([]SuggestedQuestion, len(defaultQuestions))
	for i, text := range defaultQuestions {
		qs[i] = SuggestedQuestion{
			Category:     defaultCategories[i],
			Text:         text,
			DisplayOrder: i,
			IsActive:     true,
		}
	}
	if err := r.CreateQuestions(ctx, nil, qs); err != nil {
		return 0, err
	}
	return len(qs), nil
}
