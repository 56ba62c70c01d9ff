package model

import "context"

// PictureStore resolves profile picture keys to URLs the browser can load.
type PictureStore interface {
	PictureURL(ctx context.Context, key string) (string, error)
}
