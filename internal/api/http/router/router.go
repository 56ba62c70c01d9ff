package router

import (
	"net/http"

	"github.com/dtroode/groupfeed/internal/api/http/cookie"
	"github.com/dtroode/groupfeed/internal/api/http/handler"
	"github.com/dtroode/groupfeed/internal/api/http/middleware"
	"github.com/dtroode/groupfeed/internal/logger"
	"github.com/dtroode/groupfeed/internal/model"
)

// SessionService is everything the router's handlers need from the session
// service.
type SessionService interface {
	middleware.SessionResolver
	handler.AuthService
}

// Router wires handlers and middleware onto a ServeMux.
type Router struct {
	sessionService SessionService
	archiveService handler.ArchiveService
	contextManager model.ContextManager
	renderer       *handler.Renderer
	jar            *cookie.Jar
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	sessionService SessionService,
	archiveService handler.ArchiveService,
	contextManager model.ContextManager,
	renderer *handler.Renderer,
	jar *cookie.Jar,
	logger *logger.Logger,
) *Router {
	return &Router{
		sessionService: sessionService,
		archiveService: archiveService,
		contextManager: contextManager,
		renderer:       renderer,
		jar:            jar,
		logger:         logger,
	}
}

// Register builds the application handler.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	gate := middleware.NewGate(r.sessionService, r.contextManager, r.jar, r.logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthz)
	r.registerAuthRoutes(mux)
	r.registerArchiveRoutes(mux, gate)

	return logging.Handle(mux)
}

func (r *Router) registerAuthRoutes(mux *http.ServeMux) {
	auth := handler.NewAuth(r.sessionService, r.jar, r.renderer, r.logger)

	mux.HandleFunc("GET /{$}", auth.Entry)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("POST /logout", auth.Logout)
}

func (r *Router) registerArchiveRoutes(mux *http.ServeMux, gate *middleware.Gate) {
	archive := handler.NewArchive(r.archiveService, r.contextManager, r.renderer, r.logger)

	mux.Handle("GET /profile", gate.Handle(http.HandlerFunc(archive.Profile)))
	mux.Handle("POST /profile/archive/{id}/remove", gate.Handle(http.HandlerFunc(archive.RemoveForm)))
	mux.Handle("DELETE /api/archive/{id}", gate.HandleAPI(http.HandlerFunc(archive.RemoveAPI)))
	mux.Handle("GET /api/share/{postID}", gate.HandleAPI(http.HandlerFunc(archive.ShareAPI)))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
