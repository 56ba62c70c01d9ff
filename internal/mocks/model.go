package mocks

import (
	"context"
	"net"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/groupfeed/internal/model"
)

// AuthProvider is a mock of model.AuthProvider.
type AuthProvider struct {
	mock.Mock
}

func NewAuthProvider(t testingT) *AuthProvider {
	m := &AuthProvider{}
	register(&m.Mock, t)
	return m
}

func (m *AuthProvider) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	ret := m.Called(ctx, email, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (m *AuthProvider) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	ret := m.Called(ctx, refreshToken)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (m *AuthProvider) SignOut(ctx context.Context, session *model.Session) error {
	ret := m.Called(ctx, session)
	return ret.Error(0)
}

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func NewTokenManager(t testingT) *TokenManager {
	m := &TokenManager{}
	register(&m.Mock, t)
	return m
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	ret := m.Called(token)
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

// ArchiveStore is a mock of model.ArchiveStore.
type ArchiveStore struct {
	mock.Mock
}

func NewArchiveStore(t testingT) *ArchiveStore {
	m := &ArchiveStore{}
	register(&m.Mock, t)
	return m
}

func (m *ArchiveStore) ListArchive(ctx context.Context, session *model.Session) ([]model.ArchiveEntry, error) {
	ret := m.Called(ctx, session)
	var entries []model.ArchiveEntry
	if v := ret.Get(0); v != nil {
		entries = v.([]model.ArchiveEntry)
	}
	return entries, ret.Error(1)
}

func (m *ArchiveStore) DeleteArchiveEntry(ctx context.Context, session *model.Session, id int64) error {
	ret := m.Called(ctx, session, id)
	return ret.Error(0)
}

// ProfileStore is a mock of model.ProfileStore.
type ProfileStore struct {
	mock.Mock
}

func NewProfileStore(t testingT) *ProfileStore {
	m := &ProfileStore{}
	register(&m.Mock, t)
	return m
}

func (m *ProfileStore) GetProfile(ctx context.Context, session *model.Session) (model.Profile, error) {
	ret := m.Called(ctx, session)
	return ret.Get(0).(model.Profile), ret.Error(1)
}

// PictureStore is a mock of model.PictureStore.
type PictureStore struct {
	mock.Mock
}

func NewPictureStore(t testingT) *PictureStore {
	m := &PictureStore{}
	register(&m.Mock, t)
	return m
}

func (m *PictureStore) PictureURL(ctx context.Context, key string) (string, error) {
	ret := m.Called(ctx, key)
	return ret.String(0), ret.Error(1)
}

// ContextManager is a mock of model.ContextManager.
type ContextManager struct {
	mock.Mock
}

func NewContextManager(t testingT) *ContextManager {
	m := &ContextManager{}
	register(&m.Mock, t)
	return m
}

func (m *ContextManager) SetSessionToContext(ctx context.Context, session *model.Session) context.Context {
	ret := m.Called(ctx, session)
	return ret.Get(0).(context.Context)
}

func (m *ContextManager) GetSessionFromContext(ctx context.Context) (*model.Session, bool) {
	ret := m.Called(ctx)
	var s *model.Session
	if v := ret.Get(0); v != nil {
		s = v.(*model.Session)
	}
	return s, ret.Bool(1)
}

// SecurityLayer is a mock of model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

func NewSecurityLayer(t testingT) *SecurityLayer {
	m := &SecurityLayer{}
	register(&m.Mock, t)
	return m
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	ret := m.Called(protocol, addr)
	var l net.Listener
	if v := ret.Get(0); v != nil {
		l = v.(net.Listener)
	}
	return l, ret.Error(1)
}
