package prompt

import (
	"context"
	"errors"
	"strings"
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

func newBuilder(t *testing.T, docs map[string][]byte) *Builder {
	t.Helper()

	cache := configcache.NewService(&fakeStore{docs: docs}, 5*time.Minute, t.TempDir(), time.Now)
	return NewBuilder(cache)
}

func TestBuildInterpolatesSchedule(t *testing.T) {
	b := newBuilder(t, map[string][]byte{
		"bot_schedule": []byte(`{"schedule":"Every Monday 8 PM","schedule_note":"(Manila time)"}`),
	})

	got := b.Build(context.Background())
	if !strings.Contains(got, "Schedule Details: Every Monday 8 PM (Manila time)") {
		t.Fatalf("schedule not interpolated:\n%s", got)
	}
	if strings.Contains(got, "{schedule}") {
		t.Fatal("placeholder left in prompt")
	}
}

func TestBuildScheduleDefault(t *testing.T) {
	b := newBuilder(t, map[string][]byte{})

	got := b.Build(context.Background())
	if !strings.Contains(got, "Schedule Details: Check FB Group") {
		t.Fatalf("expected schedule default:\n%s", got)
	}
}

func TestBuildCarriesPolicySections(t *testing.T) {
	b := newBuilder(t, map[string][]byte{})
	got := b.Build(context.Background())

	sections := []string{
		"LANGUAGE MIRRORING",
		"Papers to Profits",
		"Link Hygiene",
		"Output Format (JSON)",
		`"reply"`,
		`"intent"`,
		`"escalate"`,
		`"send_enroll_link"`,
	}
	for _, want := range sections {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
