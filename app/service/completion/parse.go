package completion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCompletion means the backend produced no text at all.
	ErrEmptyCompletion = errors.New("completion returned empty content")
	// ErrMalformedCompletion means the text could not be parsed as JSON.
	ErrMalformedCompletion = errors.New("completion is not valid JSON")
)

const (
	// DefaultReply covers a parseable object that forgot the reply field.
	DefaultReply = "I'm sorry, I'm having trouble processing that right now."
	// DefaultIntent covers a missing intent field.
	DefaultIntent = "Unrecognized Query"
)

// Reply is the four-field contract returned to the webhook caller.
type Reply struct {
	Reply          string `json:"reply"`
	Intent         string `json:"intent"`
	Escalate       bool   `json:"escalate"`
	SendEnrollLink bool   `json:"send_enroll_link"`
}

// Parse strips markdown fences from the raw completion text, parses the JSON
// object and applies per-field defaults. Only an empty or non-parseable
// completion is fatal; a partially populated object is not.
func Parse(raw string) (Reply, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return Reply{}, ErrEmptyCompletion
	}

	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	var fields struct {
		Reply          *string `json:"reply"`
		Intent         *string `json:"intent"`
		Escalate       *bool   `json:"escalate"`
		SendEnrollLink *bool   `json:"send_enroll_link"`
	}

	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrMalformedCompletion, err)
	}

	result := Reply{
		Reply:  DefaultReply,
		Intent: DefaultIntent,
	}

	if fields.Reply != nil {
		result.Reply = *fields.Reply
	}
	if fields.Intent != nil {
		result.Intent = *fields.Intent
	}
	if fields.Escalate != nil {
		result.Escalate = *fields.Escalate
	}
	if fields.SendEnrollLink != nil {
		result.SendEnrollLink = *fields.SendEnrollLink
	}

	return result, nil
}
