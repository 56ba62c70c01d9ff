package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dtroode/groupfeed/internal/mocks"
	"github.com/dtroode/groupfeed/internal/model"
	"github.com/dtroode/groupfeed/internal/testutil"
)

type archiveDeps struct {
	archive  *mocks.ArchiveStore
	profiles *mocks.ProfileStore
	pictures *mocks.PictureStore
}

func newTestArchive(t *testing.T) (*Archive, archiveDeps) {
	t.Helper()
	deps := archiveDeps{
		archive:  mocks.NewArchiveStore(t),
		profiles: mocks.NewProfileStore(t),
		pictures: mocks.NewPictureStore(t),
	}
	svc := NewArchive(deps.archive, deps.profiles, deps.pictures, "https://example.com/", time.Minute, testutil.MakeNoopLogger())
	return svc, deps
}

func entries(ids ...int64) []model.ArchiveEntry {
	out := make([]model.ArchiveEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.ArchiveEntry{
			ID:     id,
			PostID: id * 10,
			Post: model.Post{
				ID:   id * 10,
				Text: "post",
				Group: model.Group{
					ID:   1,
					Name: "Физика",
				},
			},
		})
	}
	return out
}

func TestArchive_Load(t *testing.T) {
	ctx := context.Background()
	session := &model.Session{UserID: uuid.New()}

	t.Run("both resolved", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		deps.profiles.On("GetProfile", mock.Anything, session).Return(model.Profile{Name: "Анна", Picture: "anna.png"}, nil).Once()
		deps.pictures.On("PictureURL", mock.Anything, "anna.png").Return("https://cdn.example.com/profile/anna.png", nil).Once()
		deps.archive.On("ListArchive", mock.Anything, session).Return(entries(1, 2), nil).Once()

		page := svc.Load(ctx, session)
		assert.Equal(t, model.ProfileState{
			Loaded:     true,
			Profile:    model.Profile{Name: "Анна", Picture: "anna.png"},
			PictureURL: "https://cdn.example.com/profile/anna.png",
		}, page.Profile)
		assert.Equal(t, model.ListPopulated, page.List.Status())
		assert.Len(t, page.List.Entries(), 2)

		// cached: stores are not called again
		page = svc.Load(ctx, session)
		assert.True(t, page.Profile.Loaded)
		assert.Equal(t, model.ListPopulated, page.List.Status())
	})

	t.Run("profile failure leaves list resolved", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		deps.profiles.On("GetProfile", mock.Anything, session).Return(model.Profile{}, errors.New("timeout")).Once()
		deps.archive.On("ListArchive", mock.Anything, session).Return([]model.ArchiveEntry{}, nil).Once()

		page := svc.Load(ctx, session)
		assert.False(t, page.Profile.Loaded)
		assert.Equal(t, model.ListEmpty, page.List.Status())
	})

	t.Run("list failure stays loading and is retried", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		deps.profiles.On("GetProfile", mock.Anything, session).Return(model.Profile{}, nil).Once()
		deps.pictures.On("PictureURL", mock.Anything, "").Return("", nil).Once()
		deps.archive.On("ListArchive", mock.Anything, session).Return(nil, errors.New("boom")).Once()
		deps.archive.On("ListArchive", mock.Anything, session).Return(entries(1), nil).Once()

		page := svc.Load(ctx, session)
		assert.True(t, page.Profile.Loaded)
		assert.Equal(t, model.ListLoading, page.List.Status())

		page = svc.Load(ctx, session)
		assert.Equal(t, model.ListPopulated, page.List.Status())
	})

	t.Run("picture failure falls back to placeholder", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		deps.profiles.On("GetProfile", mock.Anything, session).Return(model.Profile{Picture: "anna.png"}, nil).Once()
		deps.pictures.On("PictureURL", mock.Anything, "anna.png").Return("", errors.New("stat-fail")).Once()
		deps.archive.On("ListArchive", mock.Anything, session).Return(entries(1), nil).Once()

		page := svc.Load(ctx, session)
		assert.True(t, page.Profile.Loaded)
		assert.Empty(t, page.Profile.PictureURL)
	})

	t.Run("session without user does not fetch", func(t *testing.T) {
		svc, _ := newTestArchive(t)

		page := svc.Load(ctx, nil)
		assert.False(t, page.Profile.Loaded)
		assert.Equal(t, model.ListLoading, page.List.Status())

		page = svc.Load(ctx, &model.Session{})
		assert.False(t, page.Profile.Loaded)
		assert.Equal(t, model.ListLoading, page.List.Status())
	})

	t.Run("users do not share cache entries", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		other := &model.Session{UserID: uuid.New()}
		deps.archive.On("ListArchive", mock.Anything, session).Return(entries(1), nil).Once()
		deps.archive.On("ListArchive", mock.Anything, other).Return(entries(7, 8), nil).Once()

		list, err := svc.Entries(ctx, session)
		require.NoError(t, err)
		assert.Len(t, list.Entries(), 1)

		list, err = svc.Entries(ctx, other)
		require.NoError(t, err)
		assert.Len(t, list.Entries(), 2)
	})
}

func TestArchive_Remove(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	session := &model.Session{UserID: uuid.New()}

	t.Run("filters the cached list and deletes once", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		deps.archive.On("ListArchive", mock.Anything, session).Return(entries(1, 2, 3), nil).Once()
		deps.archive.On("DeleteArchiveEntry", mock.Anything, session, int64(2)).Return(nil).Once()

		_, err := svc.Entries(ctx, session)
		require.NoError(t, err)

		got := svc.Remove(ctx, session, 2)
		svc.Wait()

		assert.Equal(t, model.ListPopulated, got.Status())
		if diff := cmp.Diff(entries(1, 3), got.Entries()); diff != "" {
			t.Errorf("remaining entries mismatch (-want +got):\n%s", diff)
		}

		cached, err := svc.Entries(ctx, session)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(entries(1, 3), cached.Entries()))
		deps.archive.AssertNumberOfCalls(t, "DeleteArchiveEntry", 1)
	})

	t.Run("removing the last entry empties the list", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		deps.archive.On("ListArchive", mock.Anything, session).Return(entries(5), nil).Once()
		deps.archive.On("DeleteArchiveEntry", mock.Anything, session, int64(5)).Return(nil).Once()

		_, err := svc.Entries(ctx, session)
		require.NoError(t, err)

		got := svc.Remove(ctx, session, 5)
		svc.Wait()
		assert.Equal(t, model.ListEmpty, got.Status())
	})

	t.Run("failed delete keeps the optimistic list", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		deps.archive.On("ListArchive", mock.Anything, session).Return(entries(1, 2), nil).Once()
		deps.archive.On("DeleteArchiveEntry", mock.Anything, session, int64(1)).Return(errors.New("boom")).Once()

		_, err := svc.Entries(ctx, session)
		require.NoError(t, err)

		svc.Remove(ctx, session, 1)
		svc.Wait()

		cached, err := svc.Entries(ctx, session)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(entries(2), cached.Entries()))
	})

	t.Run("unresolved list only issues the delete", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		deps.archive.On("DeleteArchiveEntry", mock.Anything, session, int64(9)).Return(nil).Once()

		got := svc.Remove(ctx, session, 9)
		svc.Wait()
		assert.Equal(t, model.ListLoading, got.Status())
	})

	t.Run("delete outlives the request context", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		reqCtx, cancel := context.WithCancel(ctx)

		deps.archive.On("DeleteArchiveEntry", mock.Anything, session, int64(4)).
			Run(func(args mock.Arguments) {
				assert.NoError(t, args.Get(0).(context.Context).Err())
			}).
			Return(nil).Once()

		cancel()
		svc.Remove(reqCtx, session, 4)
		svc.Wait()
	})

	t.Run("expired list is still filtered", func(t *testing.T) {
		deps := archiveDeps{
			archive:  mocks.NewArchiveStore(t),
			profiles: mocks.NewProfileStore(t),
			pictures: mocks.NewPictureStore(t),
		}
		svc := NewArchive(deps.archive, deps.profiles, deps.pictures, "https://example.com", 20*time.Millisecond, testutil.MakeNoopLogger())

		release := make(chan struct{})
		deps.archive.On("ListArchive", mock.Anything, session).Return(entries(1, 2, 3), nil).Twice()
		deps.archive.On("DeleteArchiveEntry", mock.Anything, session, int64(2)).
			Run(func(mock.Arguments) { <-release }).
			Return(nil).Once()

		_, err := svc.Entries(ctx, session)
		require.NoError(t, err)
		time.Sleep(40 * time.Millisecond)

		got := svc.Remove(ctx, session, 2)
		assert.Equal(t, model.ListPopulated, got.Status())
		assert.Empty(t, cmp.Diff(entries(1, 3), got.Entries()))

		// the backend still lists the entry while the delete is in flight
		refetched, err := svc.Entries(ctx, session)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(entries(1, 3), refetched.Entries()))

		close(release)
		svc.Wait()
	})

	t.Run("removal during an in-flight fetch", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		started := make(chan struct{})
		release := make(chan struct{})
		deps.archive.On("ListArchive", mock.Anything, session).
			Run(func(mock.Arguments) {
				close(started)
				<-release
			}).
			Return(entries(1, 2, 3), nil).Once()
		deps.archive.On("DeleteArchiveEntry", mock.Anything, session, int64(2)).Return(nil).Once()

		fetched := make(chan model.ArchiveList)
		go func() {
			list, err := svc.Entries(ctx, session)
			assert.NoError(t, err)
			fetched <- list
		}()

		<-started
		got := svc.Remove(ctx, session, 2)
		assert.Equal(t, model.ListLoading, got.Status())
		close(release)

		list := <-fetched
		assert.Empty(t, cmp.Diff(entries(1, 3), list.Entries()))

		svc.Wait()
		cached, err := svc.Entries(ctx, session)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(entries(1, 3), cached.Entries()))
	})

	t.Run("concurrent removals of distinct ids", func(t *testing.T) {
		svc, deps := newTestArchive(t)
		deps.archive.On("ListArchive", mock.Anything, session).Return(entries(1, 2, 3, 4, 5), nil).Once()
		deps.archive.On("DeleteArchiveEntry", mock.Anything, session, mock.AnythingOfType("int64")).Return(nil).Times(3)

		_, err := svc.Entries(ctx, session)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for _, id := range []int64{1, 3, 5} {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				svc.Remove(ctx, session, id)
			}(id)
		}
		wg.Wait()
		svc.Wait()

		cached, err := svc.Entries(ctx, session)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(entries(2, 4), cached.Entries()))
	})
}

func TestRemovals(t *testing.T) {
	list := entries(1, 2, 3)

	t.Run("pending id is filtered", func(t *testing.T) {
		r := newRemovals()
		r.add("u", 2)
		assert.Empty(t, cmp.Diff(entries(1, 3), r.filter("u", r.mark(), list)))
		assert.Len(t, list, 3, "input is not modified")
	})

	t.Run("fetch started before the delete resolved is filtered", func(t *testing.T) {
		r := newRemovals()
		r.add("u", 2)
		since := r.mark()
		r.resolve("u", 2)

		assert.Empty(t, cmp.Diff(entries(1, 3), r.filter("u", since, list)))
	})

	t.Run("fetch started after the delete resolved forgets the id", func(t *testing.T) {
		r := newRemovals()
		r.add("u", 2)
		r.resolve("u", 2)

		assert.Empty(t, cmp.Diff(list, r.filter("u", r.mark(), list)))
		assert.NotContains(t, r.byKey, "u")
	})

	t.Run("keys are independent", func(t *testing.T) {
		r := newRemovals()
		r.add("u", 2)
		assert.Empty(t, cmp.Diff(list, r.filter("v", r.mark(), list)))
	})
}

func TestArchive_Share(t *testing.T) {
	svc, _ := newTestArchive(t)

	assert.Equal(t, "https://example.com/post/42", svc.ShareURL(42))
	assert.Equal(t, model.ShareData{URL: "https://example.com/post/42"}, svc.Share(42))
}
