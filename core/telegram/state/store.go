package state

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when the chat has no stored session.
var ErrNotFound = errors.New("state: session not found")

// Store persists one session value per chat.
type Store[T any] interface {
	Load(ctx context.Context, chatID int64) (T, error)
	Save(ctx context.Context, chatID int64, v T) error
	Delete(ctx context.Context, chatID int64) error
}
