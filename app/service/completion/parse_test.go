package completion

import (
	"errors"
	"testing"
)

func TestParseFencedJSON(t *testing.T) {
	raw := "```json\n{\"reply\":\"hi\",\"intent\":\"greeting\"}\n```"

	reply, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Reply != "hi" {
		t.Fatalf("expected reply hi, got %q", reply.Reply)
	}
	if reply.Intent != "greeting" {
		t.Fatalf("expected intent greeting, got %q", reply.Intent)
	}
	if reply.Escalate || reply.SendEnrollLink {
		t.Fatalf("expected booleans to default to false, got %+v", reply)
	}
}

func TestParseBareFence(t *testing.T) {
	raw := "```\n{\"reply\":\"ok\"}\n```"

	reply, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Reply != "ok" {
		t.Fatalf("expected reply ok, got %q", reply.Reply)
	}
}

func TestParseDefaults(t *testing.T) {
	reply, err := Parse(`{"escalate":true}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Reply != DefaultReply {
		t.Fatalf("expected default reply, got %q", reply.Reply)
	}
	if reply.Intent != DefaultIntent {
		t.Fatalf("expected default intent, got %q", reply.Intent)
	}
	if !reply.Escalate {
		t.Fatal("expected escalate to survive")
	}
}

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		if _, err := Parse(raw); !errors.Is(err, ErrEmptyCompletion) {
			t.Fatalf("input %q: expected ErrEmptyCompletion, got %v", raw, err)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{"not json at all", "{\"reply\": ", "[1,2,3]"} {
		if _, err := Parse(raw); !errors.Is(err, ErrMalformedCompletion) {
			t.Fatalf("input %q: expected ErrMalformedCompletion, got %v", raw, err)
		}
	}
}

func TestParseAllFields(t *testing.T) {
	reply, err := Parse(`{"reply":"join now","intent":"Interested","escalate":false,"send_enroll_link":true}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reply.SendEnrollLink {
		t.Fatal("expected send_enroll_link true")
	}
	if reply.Intent != "Interested" {
		t.Fatalf("unexpected intent %q", reply.Intent)
	}
}
