package completion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gracebot/app/config"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const (
	maxCompletionTokens = 2000
	fastTemperature     = 0.7
	primaryReasoning    = "low"
	clientTimeout       = 30 * time.Second
)

// Profile selects which backend handles a request.
type Profile int

const (
	// ProfilePrimary is the reasoning-capable sales model.
	ProfilePrimary Profile = iota
	// ProfileFast is the cheaper model used for FAQ-grounded answers.
	ProfileFast
)

func (p Profile) String() string {
	if p == ProfileFast {
		return "fast"
	}

	return "primary"
}

const RoleSystem = "system"

// Message is a role-tagged chat message sent to the backend.
type Message struct {
	Role    string
	Content string
}

type backend struct {
	client *openai.Client
	model  string
}

// Gateway invokes the completion API with the parameter set of the selected
// profile. Both profiles demand a strict JSON object response.
type Gateway struct {
	primary backend
	fast    backend
}

func New(di *do.Injector) (*Gateway, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Gateway{
		primary: backend{
			client: createClient(cfg.OpenAI.Primary),
			model:  cfg.OpenAI.Primary.Model,
		},
		fast: backend{
			client: createClient(cfg.OpenAI.Fast),
			model:  cfg.OpenAI.Fast.Model,
		},
	}, nil
}

func createClient(cfg config.ModelConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.Token)

	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: clientTimeout,
	}

	return openai.NewClientWithConfig(clientConfig)
}

// Complete runs a single chat completion on the selected profile and returns
// the raw text content. Transport and API errors propagate to the caller.
func (g *Gateway) Complete(ctx context.Context, profile Profile, messages []Message) (string, error) {
	b := g.primary
	if profile == ProfileFast {
		b = g.fast
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:               b.model,
		Messages:            msgs,
		MaxCompletionTokens: maxCompletionTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	// gpt-5 class models reject temperature, 4o class models reject
	// reasoning_effort, so the two parameter sets never mix.
	if profile == ProfilePrimary {
		req.ReasoningEffort = primaryReasoning
	} else {
		req.Temperature = fastTemperature
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
