package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-registry/docs"
	"pet-registry/internal/domain/sheetimport"
	"pet-registry/internal/middleware"
	"pet-registry/internal/platform/logger"
)

type Options struct {
	Sync sheetimport.Runner

	// AdminToken vacío => rutas de sync abiertas (modo dev).
	AdminToken string

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(opts.Log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if opts.Sync != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminToken(opts.AdminToken))
			sheetimport.RegisterRoutes(r, opts.Sync)
		})
	}

	return r
}
