package configcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gracebot/app/client/docstore"
	"gracebot/app/config"

	"github.com/samber/do"
)

const collection = "config"

// Store is the remote side of the cache.
type Store interface {
	Get(ctx context.Context, collection, docID string) ([]byte, error)
}

type entry struct {
	raw       []byte
	fetchedAt time.Time
}

// Service caches remote config documents for a bounded time and falls back to
// local flat files when the store is unreachable. Values are idempotent
// snapshots of the same source of truth, so last-writer-wins on refresh.
type Service struct {
	store       Store
	ttl         time.Duration
	fallbackDir string
	now         func() time.Time

	mu    sync.RWMutex
	cache map[string]entry
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	store := do.MustInvoke[*docstore.Client](di)

	return NewService(store, cfg.Bot.ConfigTTL(), cfg.Bot.FallbackDir, time.Now), nil
}

// NewService wires a cache directly, bypassing the injector. The clock is
// injected so tests can control entry age.
func NewService(store Store, ttl time.Duration, fallbackDir string, now func() time.Time) *Service {
	return &Service{
		store:       store,
		ttl:         ttl,
		fallbackDir: fallbackDir,
		now:         now,
		cache:       make(map[string]entry),
	}
}

// Fetch returns the raw JSON config document. The second return value is
// false when neither the cache, the store nor the fallback file could produce
// a document.
func (s *Service) Fetch(ctx context.Context, docID string) ([]byte, bool) {
	s.mu.RLock()
	ent, ok := s.cache[docID]
	s.mu.RUnlock()

	if ok && s.now().Sub(ent.fetchedAt) < s.ttl {
		return ent.raw, true
	}

	raw, err := s.store.Get(ctx, collection, docID)
	if err == nil {
		s.mu.Lock()
		s.cache[docID] = entry{raw: raw, fetchedAt: s.now()}
		s.mu.Unlock()

		slog.Debug("Config refreshed from store", "doc_id", docID)
		return raw, true
	}

	slog.Warn("Config fetch failed, trying local fallback",
		"doc_id", docID,
		"error", err,
	)

	raw, ferr := os.ReadFile(s.fallbackFile(docID))
	if ferr != nil {
		slog.Warn("Config fallback file unavailable",
			"doc_id", docID,
			"error", ferr,
		)
		return nil, false
	}

	return raw, true
}

// FetchMap decodes the document as a JSON object, returning def when the
// document is missing or not an object.
func (s *Service) FetchMap(ctx context.Context, docID string, def map[string]any) map[string]any {
	raw, ok := s.Fetch(ctx, docID)
	if !ok {
		return def
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		slog.Warn("Config document is not a JSON object",
			"doc_id", docID,
			"error", err,
		)
		return def
	}

	return result
}

// Flat-file naming convention inherited from the ops playbook: anything
// schedule-ish lives in schedule.json, everything else is the FAQ dump.
func (s *Service) fallbackFile(docID string) string {
	name := "faq_student.json"
	if strings.Contains(docID, "schedule") {
		name = "schedule.json"
	}

	return filepath.Join(s.fallbackDir, name)
}
