package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookgo/clock"
	"github.com/redis/go-redis/v9"

	"augmend/internal/achievement"
	"augmend/internal/activity"
	"augmend/internal/analytics"
	"augmend/internal/assistant"
	"augmend/internal/auth"
	"augmend/internal/config"
	"augmend/internal/content"
	"augmend/internal/dashboard"
	"augmend/internal/db"
	httpx "augmend/internal/http"
	mw "augmend/internal/http/middleware"
	"augmend/internal/jobs"
	"augmend/internal/pkg/logger"
	"augmend/internal/reflection"
	"augmend/internal/wellness"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("db connect", "err", err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		lg.Fatal("db migrate", "err", err)
	}

	clk := clock.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	activityRepo := activity.NewRepo(gdb, lg)
	catalogRepo := achievement.NewCatalogRepo(gdb, lg)
	ledgerRepo := achievement.NewLedgerRepo(gdb, lg)
	reflectionRepo := reflection.NewRepo(gdb, lg)
	contentRepo := content.NewRepo(gdb, lg)
	statsRepo := analytics.NewRepo(gdb, lg)
	wellnessRepo := wellness.NewRepo(gdb, lg)
	assistantRepo := assistant.NewRepo(gdb, lg)
	userRepo := auth.NewRepo(gdb, lg)
	jobsRepo := jobs.NewRepo(gdb, lg)

	if n, err := achievement.SeedCatalog(ctx, catalogRepo); err != nil {
		lg.Fatal("seed achievements", "err", err)
	} else if n > 0 {
		lg.Info("seeded achievements", "count", n)
	}
	if n, err := assistant.SeedQuestions(ctx, assistantRepo); err != nil {
		lg.Fatal("seed questions", "err", err)
	} else if n > 0 {
		lg.Info("seeded suggested questions", "count", n)
	}

	eval := achievement.NewEvaluator(catalogRepo, ledgerRepo, activityRepo, clk, lg)
	eval.StrictFirstAction = cfg.StrictFirstAction

	achievementSvc := achievement.NewService(catalogRepo, ledgerRepo, activityRepo, eval, clk, lg)
	analyticsSvc := analytics.NewService(analytics.Deps{
		Stats:     statsRepo,
		Logs:      activityRepo,
		Completed: ledgerRepo,
		Catalog:   catalogRepo,
		Content:   contentRepo,
		Clock:     clk,
		Log:       lg,
		DemoMode:  cfg.WellnessDemoMode,
	})
	reflectionSvc := reflection.NewService(gdb, reflectionRepo, activityRepo, jobsRepo, clk, lg)
	contentSvc := content.NewService(contentRepo, activityRepo, clk, lg)
	wellnessSvc := wellness.NewService(gdb, wellnessRepo, activityRepo, jobsRepo, clk, lg)
	assistantSvc := assistant.NewService(assistantRepo, clk, lg)
	dashboardSvc := dashboard.NewService(analyticsSvc, statsRepo, contentSvc, activityRepo, clk, lg)
	jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL, clk)
	authSvc := auth.NewService(userRepo, jwtSvc, lg)

	var limits mw.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			lg.Fatal("redis url", "err", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Warn("redis ping failed, rate limits will fail open", "err", err)
		}
		limits = mw.NewRedisStore(rdb)
	} else {
		mem := mw.NewMemoryStore(clk)
		go func() {
			t := time.NewTicker(time.Minute)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					mem.Sweep()
				}
			}
		}()
		limits = mem
	}

	r := httpx.NewRouter(cfg, httpx.Services{
		Auth:         authSvc,
		Achievements: achievementSvc,
		Content:      contentSvc,
		Reflections:  reflectionSvc,
		Dashboard:    dashboardSvc,
		Assistant:    assistantSvc,
		Wellness:     wellnessSvc,
	}, jwtSvc, limits, lg)

	// worker
	if cfg.WorkerEnabled {
		worker := jobs.NewWorker("worker-1", jobsRepo, clk, cfg.WorkerPollInterval, lg)
		meta := jobs.ActionMetadata{
			Counter:  activityRepo,
			ByAction: map[string]jobs.MetadataProvider{reflection.ActionCreate: reflectionSvc},
		}
		worker.Register(jobs.TypeAchievementEvaluate, jobs.AchievementEvaluateHandler(eval, meta, lg))
		go worker.Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		lg.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("http server", "err", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
