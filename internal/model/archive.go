package model

import (
	"context"
	"encoding/json"
	"time"
)

// ArchiveStore reads and deletes the signed-in user's archive rows.
type ArchiveStore interface {
	ListArchive(ctx context.Context, session *Session) ([]ArchiveEntry, error)
	DeleteArchiveEntry(ctx context.Context, session *Session, id int64) error
}

// ArchiveEntry is a user's saved reference to a post. Its ID identifies the
// archive row, not the post.
type ArchiveEntry struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
	Post   Post  `json:"posts"`
}

// Post is a group post as joined into an archive row.
type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Group     Group     `json:"groups"`
}

// Group owns posts.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListStatus enumerates the states an archive list can be rendered in.
type ListStatus int

const (
	// ListLoading means the list has not been fetched yet.
	ListLoading ListStatus = iota
	// ListEmpty means the list was fetched and has no entries.
	ListEmpty
	// ListPopulated means the list was fetched and has at least one entry.
	ListPopulated
)

func (s ListStatus) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListEmpty:
		return "empty"
	case ListPopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// ArchiveList is Loading, Empty or Populated. The zero value is Loading.
type ArchiveList struct {
	status  ListStatus
	entries []ArchiveEntry
}

// LoadingList returns a list that has not been fetched yet.
func LoadingList() ArchiveList {
	return ArchiveList{status: ListLoading}
}

// ListOf returns a resolved list: Empty when entries is empty, Populated otherwise.
func ListOf(entries []ArchiveEntry) ArchiveList {
	if len(entries) == 0 {
		return ArchiveList{status: ListEmpty}
	}
	return ArchiveList{status: ListPopulated, entries: entries}
}

func (l ArchiveList) Status() ListStatus {
	return l.status
}

// Entries returns the entries of a Populated list and nil otherwise.
func (l ArchiveList) Entries() []ArchiveEntry {
	return l.entries
}

// MarshalJSON encodes the list as {"status": ..., "entries": [...]}. Entries
// is null for a Loading list and empty for an Empty one.
func (l ArchiveList) MarshalJSON() ([]byte, error) {
	entries := l.entries
	if l.status == ListEmpty {
		entries = []ArchiveEntry{}
	}
	return json.Marshal(struct {
		Status  string         `json:"status"`
		Entries []ArchiveEntry `json:"entries"`
	}{
		Status:  l.status.String(),
		Entries: entries,
	})
}

// ArchivePage is everything the profile page renders.
type ArchivePage struct {
	Profile ProfileState
	List    ArchiveList
}

// ShareData is the payload handed to the platform share capability.
type ShareData struct {
	URL string `json:"url"`
}
