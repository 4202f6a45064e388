package faq

import (
	"context"
	"errors"
	"testing"
	"time"

	"gracebot/app/service/configcache"
)

type fakeStore struct {
	docs map[string][]byte
}

func (f *fakeStore) Get(_ context.Context, _, docID string) ([]byte, error) {
	raw, ok := f.docs[docID]
	if !ok {
		return nil, errors.New("not found")
	}
	return raw, nil
}

func newLookupService(t *testing.T, docs map[string][]byte) *Service {
	t.Helper()

	cache := configcache.NewService(&fakeStore{docs: docs}, 5*time.Minute, t.TempDir(), time.Now)
	return NewService(cache)
}

func TestLookupMatchesWrappedDoc(t *testing.T) {
	svc := newLookupService(t, map[string][]byte{
		"student_faq": []byte(`{"items":[{"triggers":["magkano"],"intent":"Pricing","answer":"P1,300 lifetime"}]}`),
	})

	match, found := svc.Lookup(context.Background(), "Magkano po?")
	if !found {
		t.Fatal("expected a match")
	}
	if match.Item.Intent != "Pricing" {
		t.Fatalf("unexpected intent: %q", match.Item.Intent)
	}
}

func TestLookupLegacyShapeSoftDisables(t *testing.T) {
	svc := newLookupService(t, map[string][]byte{
		"student_faq": []byte(`{"magkano":"P1,300"}`),
	})

	if _, found := svc.Lookup(context.Background(), "magkano po?"); found {
		t.Fatal("legacy shape must disable matching, not match")
	}
}

func TestLookupMissingDocNoMatch(t *testing.T) {
	svc := newLookupService(t, map[string][]byte{})

	if _, found := svc.Lookup(context.Background(), "magkano po?"); found {
		t.Fatal("missing FAQ doc must mean no override")
	}
}
