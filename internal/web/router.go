package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gorm.io/gorm"

	"github.com/lojf/inquisition/internal/handlers"
	svc "github.com/lojf/inquisition/internal/services"
)

func Router(conn *gorm.DB, reg *svc.Registry, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Health)

	// --- Admin routes ---
	r.Route("/admin/questions/{id}", func(ar chi.Router) {
		ar.Get("/", handlers.QuestionDetail(conn, reg))

		// Order pages, one per enabled collection
		ar.Get("/{collection}/order", handlers.OrderForm(reg))
		ar.Post("/{collection}/order", handlers.OrderSubmit(reg))
	})

	return r
}
