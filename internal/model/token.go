package model

import "github.com/google/uuid"

// TokenManager validates access tokens issued by the auth provider.
type TokenManager interface {
	ParseAccessToken(token string) (uuid.UUID, error)
}
