package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"augmend/internal/achievement"
	"augmend/internal/activity"
	"augmend/internal/analytics"
	"augmend/internal/assistant"
	"augmend/internal/auth"
	"augmend/internal/content"
	"augmend/internal/jobs"
	"augmend/internal/reflection"
	"augmend/internal/wellness"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

// Models lists every table, in dependency order.
func Models() []any {
	return []any{
		&auth.User{},
		&activity.Log{},
		&achievement.Achievement{},
		&achievement.UserAchievement{},
		&reflection.Reflection{},
		&content.Content{},
		&content.UserContent{},
		&analytics.UserStats{},
		&wellness.MoodEntry{},
		&wellness.BreathingSession{},
		&assistant.Conversation{},
		&assistant.Message{},
		&assistant.SuggestedQuestion{},
		&jobs.Job{},
	}
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return err
	}

	stmts := []string{
		`create index if not exists idx_activity_user_ts on activity_logs(user_id, timestamp desc);`,
		`create index if not exists idx_activity_user_action on activity_logs(user_id, action, timestamp);`,
		`create index if not exists idx_reflections_user_date on reflections(user_id, date desc);`,
		`create index if not exists idx_reflections_tags on reflections using gin (tags);`,
		`create index if not exists idx_content_category on contents using gin (category);`,
		`create index if not exists idx_user_contents_user_accessed on user_contents(user_id, last_accessed desc);`,
		`create index if not exists idx_messages_conv_ts on messages(conversation_id, timestamp);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
