package model

import "context"

// ProfileStore reads the signed-in user's profile metadata.
type ProfileStore interface {
	GetProfile(ctx context.Context, session *Session) (Profile, error)
}

// Profile is the user metadata shown on the profile page.
type Profile struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ProfileState is a profile that may not have been fetched yet.
type ProfileState struct {
	Loaded     bool
	Profile    Profile
	PictureURL string
}
