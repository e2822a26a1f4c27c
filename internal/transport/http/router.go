package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-notes-nosql/internal/application/account"
	"github.com/go-notes-nosql/internal/application/authorizer"
	"github.com/go-notes-nosql/internal/application/note"
	"github.com/go-notes-nosql/internal/application/upload"
	"github.com/go-notes-nosql/internal/config"
	"github.com/go-notes-nosql/internal/pkg/timebucket"
	"github.com/go-notes-nosql/internal/transport/http/handler"
	appmiddleware "github.com/go-notes-nosql/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. Background work started
// for the router stops when ctx is done.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			appmiddleware.HeaderRefreshToken, appmiddleware.HeaderTimezone,
		},
		ExposedHeaders:   []string{appmiddleware.HeaderNewAccessToken, appmiddleware.HeaderNewRefreshToken},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	engine := authorizer.NewEngine(deps.Tokens, deps.Users, authorizer.Options{
		RotateRefresh:      cfg.RotateRefreshOnAuthorize,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
	})

	// 5 requests/second, burst of 10, applied to the credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	accountSvc := account.NewService(account.ServiceDeps{
		Users:              deps.Users,
		Tokens:             deps.Tokens,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		BcryptCost:         cfg.BcryptCost,
		Now:                now,
	})
	noteSvc := note.NewService(note.ServiceDeps{
		Notes:             deps.Notes,
		Attachments:       deps.Objects,
		DownloadURLExpiry: cfg.DownloadURLExpiry,
		MaxRounds:         cfg.PageMaxRounds,
		Now:               now,
	})
	uploadSvc := upload.NewService(deps.Objects, cfg.UploadURLExpiry)

	healthH := handler.NewHealthHandler(deps.Health)
	authH := handler.NewAuthHandler(accountSvc)
	noteH := handler.NewNoteHandler(noteSvc, cfg.PageDefaultLimit, cfg.PageMaxLimit)
	uploadH := handler.NewUploadHandler(uploadSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/signup", authH.Signup)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(engine, now))
			r.Use(appmiddleware.Timezone(now))

			r.Post("/notes", noteH.Create)
			r.Get("/notes/today", noteH.List(timebucket.Present))
			r.Get("/notes/past", noteH.List(timebucket.Past))
			r.Get("/notes/future", noteH.List(timebucket.Future))
			r.Get("/notes/search", noteH.Search)
			r.Get("/notes/{id}", noteH.Get)
			r.Put("/notes/{id}", noteH.Update)
			r.Delete("/notes/{id}", noteH.Delete)
			r.Post("/uploads", uploadH.Presign)
		})
	})

	return r
}
