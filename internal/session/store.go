// Package session holds the per-session job collection cache.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"joblens/internal/model"
)

// ErrNotFound is returned when a session has no stored collection.
var ErrNotFound = errors.New("session not found")

// Store keeps the current collection of each session. Put replaces the
// previous value wholesale.
type Store interface {
	Get(ctx context.Context, id string) (model.JobCollection, error)
	Put(ctx context.Context, id string, coll model.JobCollection) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like a session id issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func cloneCollection(c model.JobCollection) model.JobCollection {
	c.Records = append([]model.JobRecord(nil), c.Records...)
	return c
}
