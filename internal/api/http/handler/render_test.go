package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/groupfeed/internal/logger"
	"github.com/dtroode/groupfeed/internal/model"
)

// brokenWriter accepts the header but fails every body write.
type brokenWriter struct {
	header   http.Header
	statuses []int
}

func (w *brokenWriter) Header() http.Header {
	if w.header == nil {
		w.header = make(http.Header)
	}
	return w.header
}

func (w *brokenWriter) WriteHeader(status int) {
	w.statuses = append(w.statuses, status)
}

func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestRenderer_WriteFailure(t *testing.T) {
	var logs bytes.Buffer
	r := newTestRenderer(t)
	r.logger = logger.NewWithWriter(&logs, int(slog.LevelDebug))

	w := &brokenWriter{}
	err := r.render(w, http.StatusOK, "entry", entryView{})

	require.NoError(t, err)
	assert.Equal(t, []int{http.StatusOK}, w.statuses)
	assert.Contains(t, logs.String(), "Renderer: failed to write response")
}

func TestRenderer_TemplateFailure(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	err := r.render(rec, http.StatusOK, "missing", nil)

	require.Error(t, err)
	assert.Zero(t, rec.Body.Len())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestArchive_Profile_WriteFailure(t *testing.T) {
	session := &model.Session{UserID: uuid.New()}
	h, svc, cm := newTestArchiveHandler(t)
	svc.On("Load", mock.Anything, session).Return(model.ArchivePage{List: model.LoadingList()}).Once()

	w := &brokenWriter{}
	h.Profile(w, withSession(cm, httptest.NewRequest(http.MethodGet, "/profile", nil), session))

	assert.Equal(t, []int{http.StatusOK}, w.statuses)
}
