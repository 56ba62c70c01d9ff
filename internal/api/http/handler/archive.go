package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/groupfeed/internal/linkify"
	"github.com/dtroode/groupfeed/internal/logger"
	"github.com/dtroode/groupfeed/internal/model"
)

// ArchiveService defines the profile page operations.
type ArchiveService interface {
	Load(ctx context.Context, session *model.Session) model.ArchivePage
	Remove(ctx context.Context, session *model.Session, id int64) model.ArchiveList
	Share(postID int64) model.ShareData
}

// Archive handles the profile page and its archive actions.
type Archive struct {
	archiveService ArchiveService
	contextManager model.ContextManager
	renderer       *Renderer
	logger         *logger.Logger
}

// NewArchive creates a new Archive handler.
func NewArchive(archiveService ArchiveService, contextManager model.ContextManager, renderer *Renderer, logger *logger.Logger) *Archive {
	return &Archive{
		archiveService: archiveService,
		contextManager: contextManager,
		renderer:       renderer,
		logger:         logger,
	}
}

type profileView struct {
	Profile      model.ProfileState
	Loading      bool
	Empty        bool
	Placeholders []struct{}
	Cards        []cardView
}

type cardView struct {
	ID          int64
	GroupName   string
	GroupHref   string
	GroupAvatar string
	CreatedAt   string
	Ago         string
	Text        []linkify.Segment
	ShareURL    string
}

// Profile renders the profile page with the archive list.
func (h *Archive) Profile(w http.ResponseWriter, r *http.Request) {
	session, ok := h.contextManager.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	page := h.archiveService.Load(r.Context(), session)

	err := h.renderer.render(w, http.StatusOK, "profile", h.profileView(page))
	if err != nil {
		h.logger.Error("Archive handler: failed to render profile", "error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Archive) profileView(page model.ArchivePage) profileView {
	view := profileView{Profile: page.Profile}

	switch page.List.Status() {
	case model.ListLoading:
		view.Loading = true
		view.Placeholders = make([]struct{}, placeholderCount)
	case model.ListEmpty:
		view.Empty = true
	case model.ListPopulated:
		now := h.renderer.now()
		for _, e := range page.List.Entries() {
			view.Cards = append(view.Cards, h.cardView(e, now))
		}
	}

	return view
}

func (h *Archive) cardView(e model.ArchiveEntry, now time.Time) cardView {
	return cardView{
		ID:          e.ID,
		GroupName:   e.Post.Group.Name,
		GroupHref:   groupHref(e.Post.Group.ID),
		GroupAvatar: groupAvatar(e.Post.Group.ID),
		CreatedAt:   e.Post.CreatedAt.Format(time.RFC3339),
		Ago:         relativeTime(e.Post.CreatedAt, now),
		Text:        h.renderer.linker.Split(e.Post.Text),
		ShareURL:    h.archiveService.Share(e.Post.ID).URL,
	}
}

// RemoveForm removes an entry from the archive and sends the browser back to
// the profile page.
func (h *Archive) RemoveForm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.contextManager.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.archiveService.Remove(r.Context(), session, id)

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// RemoveAPI removes an entry from the archive and returns the remaining list.
func (h *Archive) RemoveAPI(w http.ResponseWriter, r *http.Request) {
	session, ok := h.contextManager.GetSessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	list := h.archiveService.Remove(r.Context(), session, id)

	writeJSON(w, http.StatusOK, list)
}

// ShareAPI returns the share payload for a post.
func (h *Archive) ShareAPI(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID")
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.archiveService.Share(postID))
}
