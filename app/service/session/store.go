package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gracebot/app/client/docstore"

	"github.com/samber/do"
)

const collection = "conversations"

// DocStore is the document-store side of the session store.
type DocStore interface {
	Get(ctx context.Context, collection, docID string) ([]byte, error)
	Set(ctx context.Context, collection, docID string, raw []byte) error
}

// Store persists sessions in the document store and degrades to a
// process-local map when the store is unreachable. The fallback loses data on
// restart, which is acceptable for a chat history.
type Store struct {
	docs DocStore
	now  func() time.Time

	mu    sync.Mutex
	local map[string]sessionDoc
}

type sessionDoc struct {
	History    []Turn `json:"history"`
	LastActive int64  `json:"last_active"`
}

func NewStore(di *do.Injector) (*Store, error) {
	docs := do.MustInvoke[*docstore.Client](di)

	return newStore(docs, time.Now), nil
}

func newStore(docs DocStore, now func() time.Time) *Store {
	return &Store{
		docs:  docs,
		now:   now,
		local: make(map[string]sessionDoc),
	}
}

// Load returns the last saved session for the user, or a fresh empty session
// when none exists. Store failures are absorbed via the local fallback.
func (s *Store) Load(ctx context.Context, userID string) Session {
	raw, err := s.docs.Get(ctx, collection, userID)

	switch {
	case err == nil:
		var doc sessionDoc
		if jerr := json.Unmarshal(raw, &doc); jerr != nil {
			slog.Warn("Stored session is corrupt, starting fresh",
				"user_id", userID,
				"error", jerr,
			)
			return s.fresh()
		}
		return doc.toSession()

	case errors.Is(err, docstore.ErrNotFound):
		return s.fresh()

	default:
		slog.Warn("Session store unavailable, using in-memory fallback",
			"user_id", userID,
			"error", err,
		)

		s.mu.Lock()
		doc, ok := s.local[userID]
		s.mu.Unlock()

		if !ok {
			return s.fresh()
		}
		return doc.toSession()
	}
}

// Save persists the session. On store failure the session is kept in the
// local fallback map instead.
func (s *Store) Save(ctx context.Context, userID string, sess Session) {
	doc := sessionDoc{
		History:    sess.History,
		LastActive: sess.LastActive.Unix(),
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		slog.Error("Failed to marshal session", "user_id", userID, "error", err)
		return
	}

	if err := s.docs.Set(ctx, collection, userID, raw); err != nil {
		slog.Warn("Session save failed, keeping in-memory copy",
			"user_id", userID,
			"error", err,
		)

		s.mu.Lock()
		s.local[userID] = doc
		s.mu.Unlock()
	}
}

func (s *Store) fresh() Session {
	return Session{History: []Turn{}, LastActive: s.now()}
}

func (d sessionDoc) toSession() Session {
	return Session{
		History:    d.History,
		LastActive: time.Unix(d.LastActive, 0),
	}
}
