package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/groupfeed/internal/model"
)

// SessionService is a mock of the session operations used by the HTTP layer.
type SessionService struct {
	mock.Mock
}

func NewSessionService(t testingT) *SessionService {
	m := &SessionService{}
	register(&m.Mock, t)
	return m
}

func (m *SessionService) Resolve(ctx context.Context, accessToken, refreshToken string) (model.SessionState, bool) {
	ret := m.Called(ctx, accessToken, refreshToken)
	return ret.Get(0).(model.SessionState), ret.Bool(1)
}

func (m *SessionService) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	ret := m.Called(ctx, email, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (m *SessionService) SignOut(ctx context.Context, session *model.Session) error {
	ret := m.Called(ctx, session)
	return ret.Error(0)
}

// ArchiveService is a mock of the archive operations used by the HTTP layer.
type ArchiveService struct {
	mock.Mock
}

func NewArchiveService(t testingT) *ArchiveService {
	m := &ArchiveService{}
	register(&m.Mock, t)
	return m
}

func (m *ArchiveService) Load(ctx context.Context, session *model.Session) model.ArchivePage {
	ret := m.Called(ctx, session)
	return ret.Get(0).(model.ArchivePage)
}

func (m *ArchiveService) Remove(ctx context.Context, session *model.Session, id int64) model.ArchiveList {
	ret := m.Called(ctx, session, id)
	return ret.Get(0).(model.ArchiveList)
}

func (m *ArchiveService) Share(postID int64) model.ShareData {
	ret := m.Called(postID)
	return ret.Get(0).(model.ShareData)
}
