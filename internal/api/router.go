package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookapp/internal/auth"
	"bookapp/internal/oplog"
	"bookapp/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Books     *store.BookStore
	Users     *store.UserStore
	BasicAuth *auth.BasicAuthMiddleware
	Audit     *oplog.Logger
}

// NewRouter assembles the full chi router. Read routes are public; mutating
// book routes and /login require HTTP Basic credentials. All responses are
// JSON.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "welcome to the bookapp API"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	registerBookRoutes(r, deps.Books, deps.BasicAuth, deps.Audit)
	registerUserRoutes(r, deps.Users, deps.BasicAuth, deps.Audit)

	return r
}
