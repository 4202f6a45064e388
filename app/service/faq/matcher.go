package faq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gracebot/app/service/configcache"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

const faqDocID = "student_faq"

// Match is a positive trigger hit. It carries everything the orchestrator
// needs to override the request: the matched item plus the rendered system
// instruction.
type Match struct {
	Item Item
}

// Instruction renders the system message injected alongside the main prompt
// when this item matched.
func (m Match) Instruction() string {
	return fmt.Sprintf(
		"USER INTENT: %s\n"+
			"FACTUAL ANSWER: %s\n\n"+
			"INSTRUCTIONS:\n"+
			"1. Empathy First: Acknowledge the frustration/need briefly.\n"+
			"2. Solution: Provide the FACTUAL ANSWER above. Use bullet points (-) if there are steps.\n"+
			"3. Formatting: Keep it visually clean. No large blocks of text.\n"+
			"4. Confirmation: If the user's request is vague, ask a confirming question before solving.",
		m.Item.Intent, m.Item.Answer,
	)
}

// MatchMessage scans items in storage order and returns the first whose
// trigger set has any substring present in the message. At most one item ever
// matches, scoring is intentionally absent.
func MatchMessage(message string, items []Item) (Match, bool) {
	lower := strings.ToLower(message)

	idx := pie.FindFirstUsing(items, func(item Item) bool {
		return pie.Any(item.Triggers, func(trigger string) bool {
			return trigger != "" && strings.Contains(lower, strings.ToLower(trigger))
		})
	})
	if idx < 0 {
		return Match{}, false
	}

	return Match{Item: items[idx]}, true
}

// Service looks up the FAQ document through the config cache and applies the
// trigger matcher to inbound messages.
type Service struct {
	configSvc *configcache.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		configSvc: do.MustInvoke[*configcache.Service](di),
	}, nil
}

// NewService wires a matcher directly, bypassing the injector.
func NewService(configSvc *configcache.Service) *Service {
	return &Service{configSvc: configSvc}
}

// Lookup returns the first matching FAQ item for the message. All failure
// modes (missing document, legacy shape, parse errors) degrade to "no match"
// and are only logged, the request proceeds on the default model.
func (s *Service) Lookup(ctx context.Context, message string) (Match, bool) {
	raw, ok := s.configSvc.Fetch(ctx, faqDocID)
	if !ok {
		return Match{}, false
	}

	items, err := Decode(raw)
	if err != nil {
		if errors.Is(err, ErrLegacyShape) {
			slog.Warn("FAQ config has legacy dict shape, skipping smart triggers")
		} else {
			slog.Warn("FAQ decode failed, skipping smart triggers", "error", err)
		}
		return Match{}, false
	}

	match, found := MatchMessage(message, items)
	if found {
		slog.Info("FAQ trigger matched", "intent", match.Item.Intent)
	}

	return match, found
}
