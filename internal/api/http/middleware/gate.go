package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dtroode/groupfeed/internal/api/http/cookie"
	"github.com/dtroode/groupfeed/internal/logger"
	"github.com/dtroode/groupfeed/internal/model"
)

// EntryPath is where requests without a session are sent.
const EntryPath = "/"

// SessionResolver turns request tokens into a session state.
type SessionResolver interface {
	Resolve(ctx context.Context, accessToken, refreshToken string) (model.SessionState, bool)
}

// Decision is what the gate does with a request.
type Decision int

const (
	// RenderNothing answers with no content while the session is unresolved.
	RenderNothing Decision = iota
	// RedirectEntry sends the client to the entry page.
	RedirectEntry
	// RenderChild passes the request to the gated handler.
	RenderChild
)

// Decide maps a session state to a gate decision. Loading wins over any
// session value.
func Decide(state model.SessionState) Decision {
	switch {
	case state.Loading:
		return RenderNothing
	case state.Session == nil:
		return RedirectEntry
	default:
		return RenderChild
	}
}

// Gate guards handlers that need a session.
type Gate struct {
	resolver       SessionResolver
	contextManager model.ContextManager
	jar            *cookie.Jar
	logger         *logger.Logger
}

func NewGate(resolver SessionResolver, contextManager model.ContextManager, jar *cookie.Jar, logger *logger.Logger) *Gate {
	return &Gate{
		resolver:       resolver,
		contextManager: contextManager,
		jar:            jar,
		logger:         logger,
	}
}

// Handle gates a page: requests without a session get one 303 to the entry page.
func (g *Gate) Handle(next http.Handler) http.Handler {
	return g.handle(next, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, EntryPath, http.StatusSeeOther)
	})
}

// HandleAPI gates a JSON endpoint: requests without a session get 401.
func (g *Gate) HandleAPI(next http.Handler) http.Handler {
	return g.handle(next, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	})
}

func (g *Gate) handle(next http.Handler, deny http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, refresh := g.jar.Read(r)
		state, refreshed := g.resolver.Resolve(r.Context(), access, refresh)

		switch Decide(state) {
		case RenderNothing:
			g.logger.Debug("Gate: session unresolved", "path", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		case RedirectEntry:
			g.logger.Debug("Gate: no session", "path", r.URL.Path)
			if access != "" || refresh != "" {
				g.jar.Clear(w)
			}
			deny(w, r)
		case RenderChild:
			if refreshed {
				g.jar.Set(w, *state.Session)
			}
			ctx := g.contextManager.SetSessionToContext(r.Context(), state.Session)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}
