package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"photoedit/internal/http/handlers"
	mw "photoedit/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		mw.RequestID,
		mw.Logger(app.Logger, app.Metrics),
		mw.Recover(app.Logger),
	)

	r.Route("/api", func(r chi.Router) {
		var origins []string
		if app.Config != nil {
			origins = app.Config.AllowedOrigins()
		}
		r.Use(mw.CORS(origins))

		r.Get("/health", app.Health)
		r.Post("/edit-image", app.EditImage)
	})

	if app.Metrics != nil {
		r.Handle("/metrics", app.Metrics.Handler())
	}

	return r
}
