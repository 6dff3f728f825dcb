package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"augmend/internal/auth"
	"augmend/internal/config"
	"augmend/internal/http/handler"
	mw "augmend/internal/http/middleware"
	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
)

// Services are the domain services behind the handlers.
type Services struct {
	Auth         AuthService
	Achievements handler.AchievementService
	Content      handler.ContentService
	Reflections  handler.ReflectionService
	Dashboard    handler.DashboardService
	Assistant    handler.AssistantService
	Wellness     handler.WellnessService
}

type AuthService interface {
	handler.AuthService
	handler.ProfileService
}

func NewRouter(cfg config.Config, svcs Services, jwtSvc *auth.JWT, limits mw.Store, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(mw.RequestLogger(log))
	r.Use(chimw.Recoverer)

	if c := mw.CORS(cfg); c != nil {
		r.Use(c)
	}
	r.Use(mw.RateLimit(limits, "api", cfg.APIRateLimit, log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	requireAuth := auth.RequireAuth(jwtSvc)

	ah := &handler.AuthHandler{Svc: svcs.Auth, Log: log}
	me := &handler.MeHandler{Svc: svcs.Auth, Log: log}
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(limits, "auth", cfg.AuthRateLimit, log))
			r.Post("/register", ah.Register)
			r.Post("/login", ah.Login)
		})
		r.With(requireAuth).Get("/profile", me.Profile)
		r.With(requireAuth).Put("/profile", me.UpdateProfile)
	})

	achH := &handler.AchievementHandler{Svc: svcs.Achievements, Log: log}
	r.Route("/achievements", func(r chi.Router) {
		r.Get("/", achH.List)
		r.Get("/{id}", achH.Get)
		r.With(requireAuth).Post("/", achH.Create)
		r.With(requireAuth).Put("/{id}", achH.Update)
		r.With(requireAuth).Delete("/{id}", achH.Delete)
	})

	contentH := &handler.ContentHandler{Svc: svcs.Content, Log: log}
	r.Route("/content", func(r chi.Router) {
		r.Get("/", contentH.List)
		r.Get("/categories", contentH.Categories)
		r.Get("/types", contentH.Types)
		r.Get("/category/{category}", contentH.ByCategory)
		r.Get("/type/{type}", contentH.ByType)
		r.Get("/{id}", contentH.Get)
		r.With(requireAuth).Post("/", contentH.Create)
		r.With(requireAuth).Put("/{id}", contentH.Update)
		r.With(requireAuth).Delete("/{id}", contentH.Delete)
	})

	r.Route("/users/{userId}", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(auth.RequireSelf("userId"))

		r.Get("/achievements", achH.UserAchievements)
		r.Get("/achievements/completed", achH.Completed)
		r.Get("/achievements/pending", achH.Pending)
		r.Post("/achievements/{achievementId}/progress", achH.SetProgress)
		r.Post("/activity", achH.ProcessActivity)

		r.Get("/content", contentH.UserContent)
		r.Put("/content/{contentId}/progress", contentH.UpdateProgress)
		r.Post("/content/{contentId}/bookmark", contentH.ToggleBookmark)
		r.Get("/bookmarks", contentH.Bookmarks)
		r.Get("/recent", contentH.Recent)
		r.Get("/recommendations", contentH.Recommendations)
	})

	refH := &handler.ReflectionHandler{Svc: svcs.Reflections, Log: log}
	r.Route("/reflections", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", refH.List)
		r.Post("/", refH.Create)
		r.Get("/streaks", refH.Streaks)
		r.Get("/mood-stats", refH.MoodStats)
		r.Get("/{id}", refH.Get)
		r.Put("/{id}", refH.Update)
		r.Delete("/{id}", refH.Delete)
	})

	dashH := &handler.DashboardHandler{Svc: svcs.Dashboard, Log: log}
	r.Route("/dashboard/{userId}", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(auth.RequireSelf("userId"))
		r.Get("/", dashH.Data)
		r.Get("/wellness-score", dashH.WellnessScore)
		r.Get("/treatment-progress", dashH.TreatmentProgress)
		r.Get("/focus", dashH.Focus)
		r.Get("/recent-sessions", dashH.RecentSessions)
	})

	asstH := &handler.AssistantHandler{Svc: svcs.Assistant, Log: log}
	r.Route("/health-assistant", func(r chi.Router) {
		r.Get("/suggested-questions", asstH.SuggestedQuestions)
		r.With(requireAuth).Post("/chat", asstH.Chat)
		r.With(requireAuth).Get("/history", asstH.History)
	})

	wellH := &handler.WellnessHandler{Svc: svcs.Wellness, Log: log}
	r.Route("/wellness", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/mood", wellH.RecordMood)
		r.Post("/breathing-session", wellH.RecordBreathing)
		r.Get("/moods/recent", wellH.RecentMoods)
		r.Get("/breathing/stats", wellH.BreathingStats)
	})

	return r
}
