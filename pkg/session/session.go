// Package session keeps the committed label set of each word-cloud viewer
// between passes.
//
// A viewer is one long-lived cloud instance: a browser tab talking to the
// server, or a named CLI session (wordstream cloud --session NAME). Each
// pass diffs its new layout against the stored [transition.RenderedLabelSet]
// and commits the result back, so successive texts animate as updates
// rather than as fresh renders.
//
// Backends:
//   - [MemoryStore] for a single server process and tests
//   - [FileStore] for the CLI, one JSON file per session
//   - [RedisStore] for servers sharing state across instances
//
// Stores return (nil, nil) for unknown or expired sessions.
package session

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/wordstream/pkg/cloud/transition"
	"github.com/matzehuels/wordstream/pkg/errors"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 24 * time.Hour

// Session is the persisted state of one cloud instance.
type Session struct {
	ID        string                      `json:"id"`
	Labels    transition.RenderedLabelSet `json:"labels"`
	Passes    int                         `json:"passes"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
	ExpiresAt time.Time                   `json:"expires_at"`
}

// New starts an empty session with a random UUID.
func New(ttl time.Duration) *Session {
	return Named(uuid.NewString(), ttl)
}

// Named starts an empty session with a caller-chosen id.
func Named(id string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session outlived its TTL at t.
func (s *Session) IsExpired(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && t.After(s.ExpiresAt)
}

// Commit records the label set of a finished pass and extends the TTL.
func (s *Session) Commit(labels transition.RenderedLabelSet, ttl time.Duration) {
	now := time.Now()
	s.Labels = labels
	s.Passes++
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store persists sessions.
type Store interface {
	// Get returns nil, nil when id is unknown or expired.
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// Cleanup drops expired sessions. Backends with native expiry may
	// treat it as a no-op.
	Cleanup(ctx context.Context) error
	Close() error
}

var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidateName checks a CLI session name. Names double as file names, so
// path separators and leading dots are rejected.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return errors.New(errors.ErrCodeInvalidSession,
			"invalid session name %q: use letters, digits, '.', '_' or '-'", name)
	}
	return nil
}
