package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"restyle-server/internal/http/handlers"
	"restyle-server/internal/middleware"
)

func NewRouter(app *handlers.App, allowedOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer, chimw.Logger)
	r.Use(middleware.CORS(allowedOrigins))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/edits", func(r chi.Router) {
		r.Post("/", app.EditsSubmit)
		r.Post("/retry", app.EditsRetry)
		r.Get("/current", app.EditsCurrent)
		r.Get("/sample", app.EditsSample)
		r.Get("/watch", app.EditsWatch)
	})

	return r
}
