package faq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrLegacyShape marks FAQ config uploaded in the retired flat-dict format
// (or a wrapper without an "items" key). Matching is soft-disabled for such
// documents instead of failing the request.
var ErrLegacyShape = errors.New("faq config has legacy shape, smart triggers disabled")

// Item is a single FAQ entry. Triggers are case-insensitive substrings.
type Item struct {
	Triggers []string `json:"triggers"`
	Intent   string   `json:"intent"`
	Answer   string   `json:"answer"`
}

// Decode resolves the two supported storage shapes — a bare array of items,
// or an object wrapping that array under "items" — into a canonical slice.
// Any other object shape yields ErrLegacyShape.
func Decode(raw []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty faq document")
	}

	if trimmed[0] == '[' {
		var items []Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to parse faq list: %w", err)
		}
		return normalize(items), nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse faq document: %w", err)
	}

	itemsRaw, ok := wrapper["items"]
	if !ok {
		return nil, ErrLegacyShape
	}

	var items []Item
	if err := json.Unmarshal(itemsRaw, &items); err != nil {
		return nil, fmt.Errorf("failed to parse faq items: %w", err)
	}

	return normalize(items), nil
}

func normalize(items []Item) []Item {
	for i := range items {
		if items[i].Intent == "" {
			items[i].Intent = "unknown"
		}
	}

	return items
}
