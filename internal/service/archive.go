package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/groupfeed/internal/cache"
	"github.com/dtroode/groupfeed/internal/logger"
	"github.com/dtroode/groupfeed/internal/model"
)

// Archive serves the profile page: the user's profile and archived posts,
// removal from the archive and share links.
type Archive struct {
	archiveStore model.ArchiveStore
	profileStore model.ProfileStore
	pictureStore model.PictureStore
	origin       string
	logger       *logger.Logger

	profiles *cache.Cache[model.ProfileState]
	entries  *cache.Cache[[]model.ArchiveEntry]
	removals *removals

	deletes sync.WaitGroup
}

func NewArchive(
	archiveStore model.ArchiveStore,
	profileStore model.ProfileStore,
	pictureStore model.PictureStore,
	origin string,
	ttl time.Duration,
	logger *logger.Logger,
) *Archive {
	return &Archive{
		archiveStore: archiveStore,
		profileStore: profileStore,
		pictureStore: pictureStore,
		origin:       strings.TrimRight(origin, "/"),
		logger:       logger,
		profiles:     cache.New[model.ProfileState](ttl),
		entries:      cache.New[[]model.ArchiveEntry](ttl),
		removals:     newRemovals(),
	}
}

// cacheKey is empty until the session identifies a user, which keeps the
// caches from fetching.
func cacheKey(session *model.Session) string {
	if session == nil || session.UserID == uuid.Nil {
		return ""
	}
	return session.UserID.String()
}

// Load fetches the profile and the archive list concurrently. A failed fetch
// leaves its half of the page unresolved without affecting the other.
func (s *Archive) Load(ctx context.Context, session *model.Session) model.ArchivePage {
	var page model.ArchivePage
	page.List = model.LoadingList()

	var g errgroup.Group
	g.Go(func() error {
		profile, err := s.Profile(ctx, session)
		page.Profile = profile
		return err
	})
	g.Go(func() error {
		list, err := s.Entries(ctx, session)
		page.List = list
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Archive service: failed to load page",
			"key", cacheKey(session),
			"error", err.Error())
	}

	return page
}

// Profile returns the cached profile, fetching it once per user.
func (s *Archive) Profile(ctx context.Context, session *model.Session) (model.ProfileState, error) {
	state, ok, err := s.profiles.Get(ctx, cacheKey(session), func(ctx context.Context) (model.ProfileState, error) {
		return s.fetchProfile(ctx, session)
	})
	if err != nil {
		return model.ProfileState{}, fmt.Errorf("failed to get profile: %w", err)
	}
	if !ok {
		return model.ProfileState{}, nil
	}

	return state, nil
}

func (s *Archive) fetchProfile(ctx context.Context, session *model.Session) (model.ProfileState, error) {
	profile, err := s.profileStore.GetProfile(ctx, session)
	if err != nil {
		return model.ProfileState{}, err
	}

	pictureURL, err := s.pictureStore.PictureURL(ctx, profile.Picture)
	if err != nil {
		s.logger.Warn("Archive service: failed to resolve picture",
			"picture", profile.Picture,
			"error", err.Error())
		pictureURL = ""
	}

	return model.ProfileState{
		Loaded:     true,
		Profile:    profile,
		PictureURL: pictureURL,
	}, nil
}

// Entries returns the cached archive list, fetching it once per user. Entries
// removed locally are filtered out of fetched lists until the backend is known
// to reflect their removal.
func (s *Archive) Entries(ctx context.Context, session *model.Session) (model.ArchiveList, error) {
	key := cacheKey(session)

	var since uint64
	entries, ok, err := s.entries.GetSettled(ctx, key,
		func(ctx context.Context) ([]model.ArchiveEntry, error) {
			since = s.removals.mark()
			return s.archiveStore.ListArchive(ctx, session)
		},
		func(entries []model.ArchiveEntry) []model.ArchiveEntry {
			return s.removals.filter(key, since, entries)
		},
	)
	if err != nil {
		return model.LoadingList(), fmt.Errorf("failed to get archive: %w", err)
	}
	if !ok {
		return model.LoadingList(), nil
	}

	return model.ListOf(entries), nil
}

// Remove drops the entry from the cached list and returns the list as it is
// now displayed. The remote delete runs in the background afterwards; its
// failure is logged and the cached list is not restored. A failed entry shows
// up again only with the next list fetched after the delete resolved.
func (s *Archive) Remove(ctx context.Context, session *model.Session, id int64) model.ArchiveList {
	key := cacheKey(session)
	if key != "" {
		s.removals.add(key, id)
	}

	list := model.LoadingList()
	remaining, ok := s.entries.Update(key, func(entries []model.ArchiveEntry) []model.ArchiveEntry {
		return slices.DeleteFunc(slices.Clone(entries), func(e model.ArchiveEntry) bool {
			return e.ID == id
		})
	})
	if ok {
		list = model.ListOf(remaining)
	}

	deleteCtx := context.WithoutCancel(ctx)
	s.deletes.Add(1)
	go func() {
		defer s.deletes.Done()
		defer s.removals.resolve(key, id)

		err := s.archiveStore.DeleteArchiveEntry(deleteCtx, session, id)
		if err != nil {
			s.logger.Error("Archive service: failed to delete archive entry",
				"key", key,
				"id", id,
				"error", err.Error())
			return
		}

		s.logger.Debug("Archive service: archive entry deleted", "key", key, "id", id)
	}()

	return list
}

// removals tracks locally removed entries per user. An id is pending while its
// delete is in flight, then holds the sequence number at which the delete
// resolved. It is forgotten once a fetch started after that point lands.
type removals struct {
	mu    sync.Mutex
	seq   uint64
	byKey map[string]map[int64]uint64
}

func newRemovals() *removals {
	return &removals{byKey: make(map[string]map[int64]uint64)}
}

func (r *removals) add(key string, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, ok := r.byKey[key]
	if !ok {
		ids = make(map[int64]uint64)
		r.byKey[key] = ids
	}
	ids[id] = 0
}

func (r *removals) resolve(key string, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, ok := r.byKey[key]
	if !ok {
		return
	}
	if _, ok := ids[id]; !ok {
		return
	}
	r.seq++
	ids[id] = r.seq
}

// mark returns the sequence number a fetch starts at.
func (r *removals) mark() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.seq
}

// filter drops tracked ids from entries fetched since the given mark.
func (r *removals) filter(key string, since uint64, entries []model.ArchiveEntry) []model.ArchiveEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.byKey[key]
	for id, resolved := range ids {
		if resolved != 0 && resolved <= since {
			delete(ids, id)
		}
	}
	if len(ids) == 0 {
		delete(r.byKey, key)
		return entries
	}

	return slices.DeleteFunc(slices.Clone(entries), func(e model.ArchiveEntry) bool {
		_, removed := ids[e.ID]
		return removed
	})
}

// Wait blocks until background deletes have finished.
func (s *Archive) Wait() {
	s.deletes.Wait()
}

// ShareURL returns the absolute URL of a post.
func (s *Archive) ShareURL(postID int64) string {
	return s.origin + "/post/" + strconv.FormatInt(postID, 10)
}

func (s *Archive) Share(postID int64) model.ShareData {
	return model.ShareData{URL: s.ShareURL(postID)}
}
