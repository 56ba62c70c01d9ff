package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dtroode/groupfeed/internal/api/http/cookie"
	"github.com/dtroode/groupfeed/internal/logger"
	"github.com/dtroode/groupfeed/internal/model"
)

const (
	msgBadCredentials = "Неверный email или пароль"
	msgUnavailable    = "Сервис временно недоступен, попробуйте позже"
)

// AuthService defines sign-in and sign-out operations.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	SignOut(ctx context.Context, session *model.Session) error
}

// Auth handles the entry page and session cookies.
type Auth struct {
	authService AuthService
	jar         *cookie.Jar
	renderer    *Renderer
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, jar *cookie.Jar, renderer *Renderer, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		jar:         jar,
		renderer:    renderer,
		logger:      logger,
	}
}

type entryView struct {
	Email string
	Error string
}

// Entry renders the sign-in form.
func (h *Auth) Entry(w http.ResponseWriter, _ *http.Request) {
	h.renderEntry(w, http.StatusOK, entryView{})
}

// Login signs in with the submitted credentials and sets the session cookies.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderEntry(w, http.StatusBadRequest, entryView{Error: msgBadCredentials})
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		h.renderEntry(w, http.StatusBadRequest, entryView{Email: email, Error: msgBadCredentials})
		return
	}

	session, err := h.authService.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			h.renderEntry(w, http.StatusUnauthorized, entryView{Email: email, Error: msgBadCredentials})
			return
		}
		h.logger.Error("Auth handler: sign in failed", "error", err.Error())
		h.renderEntry(w, http.StatusBadGateway, entryView{Email: email, Error: msgUnavailable})
		return
	}

	h.jar.Set(w, session)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// Logout revokes the session at the provider and clears the cookies. The
// cookies are cleared even if revocation fails.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	access, refresh := h.jar.Read(r)
	if access != "" {
		err := h.authService.SignOut(r.Context(), &model.Session{AccessToken: access, RefreshToken: refresh})
		if err != nil {
			h.logger.Warn("Auth handler: sign out failed", "error", err.Error())
		}
	}

	h.jar.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Auth) renderEntry(w http.ResponseWriter, status int, view entryView) {
	err := h.renderer.render(w, status, "entry", view)
	if err != nil {
		h.logger.Error("Auth handler: failed to render entry", "error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
