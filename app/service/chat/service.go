package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gracebot/app/config"
	"gracebot/app/service/completion"
	"gracebot/app/service/faq"
	"gracebot/app/service/prompt"
	"gracebot/app/service/session"

	"github.com/samber/do"
)

// DegradedMessage is what the user sees when no usable completion could be
// obtained. The caller still receives a well-formed reply object.
const DegradedMessage = "I'm currently experiencing high traffic. Please try again later."

// Sessions loads and persists per-user conversation state.
type Sessions interface {
	Load(ctx context.Context, userID string) session.Session
	Save(ctx context.Context, userID string, sess session.Session)
}

// Completer produces a raw model completion for a message list.
type Completer interface {
	Complete(ctx context.Context, profile completion.Profile, messages []completion.Message) (string, error)
}

// Matcher resolves FAQ trigger overrides for inbound messages.
type Matcher interface {
	Lookup(ctx context.Context, message string) (faq.Match, bool)
}

// Prompter builds the dynamic system prompt.
type Prompter interface {
	Build(ctx context.Context) string
}

// Service runs the full webhook cycle: session handling, prompt assembly,
// model routing, completion and recovery.
type Service struct {
	sessions  Sessions
	completer Completer
	matcher   Matcher
	prompter  Prompter

	historyLimit   int
	sessionTimeout time.Duration
	now            func() time.Time
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		do.MustInvoke[*session.Store](di),
		do.MustInvoke[*completion.Gateway](di),
		do.MustInvoke[*faq.Service](di),
		do.MustInvoke[*prompt.Builder](di),
		cfg.Bot.HistoryLimit,
		cfg.Bot.SessionTimeout(),
		time.Now,
	), nil
}

func NewService(
	sessions Sessions,
	completer Completer,
	matcher Matcher,
	prompter Prompter,
	historyLimit int,
	sessionTimeout time.Duration,
	now func() time.Time,
) *Service {
	return &Service{
		sessions:       sessions,
		completer:      completer,
		matcher:        matcher,
		prompter:       prompter,
		historyLimit:   historyLimit,
		sessionTimeout: sessionTimeout,
		now:            now,
	}
}

// HandleMessage processes one inbound webhook message. On any completion or
// parse failure the returned reply carries DegradedMessage together with the
// error, so the transport layer can mark the response while the caller still
// gets a usable object.
func (s *Service) HandleMessage(ctx context.Context, userID, message string) (completion.Reply, error) {
	start := s.now()
	message = strings.TrimSpace(message)

	slog.Info("Inbound message", "user_id", userID, "text", message)

	sess := s.sessions.Load(ctx, userID)

	// Timeout check runs before the new turn is appended, so a stale
	// conversation always restarts from an empty history.
	if sess.Expired(s.now(), s.sessionTimeout) {
		sess.History = nil
	}

	sess.LastActive = s.now()
	sess.History = append(sess.History, session.Turn{Role: session.RoleUser, Content: message})
	sess.History = session.Trim(sess.History, s.historyLimit)

	systemMessages := []completion.Message{
		{Role: completion.RoleSystem, Content: s.prompter.Build(ctx)},
	}

	profile := completion.ProfilePrimary
	if match, found := s.matcher.Lookup(ctx, message); found {
		systemMessages = append(systemMessages, completion.Message{
			Role:    completion.RoleSystem,
			Content: match.Instruction(),
		})
		profile = completion.ProfileFast
	}

	messages := systemMessages
	for _, turn := range sess.History {
		messages = append(messages, completion.Message{Role: turn.Role, Content: turn.Content})
	}

	slog.Info("Model selected", "profile", profile.String())

	raw, err := s.completer.Complete(ctx, profile, messages)
	if err != nil {
		slog.Error("Completion failed", "user_id", userID, "error", err)
		return degraded(), fmt.Errorf("completion gateway: %w", err)
	}

	parsed, err := completion.Parse(raw)
	if err != nil {
		slog.Error("Completion unusable", "user_id", userID, "error", err, "raw", raw)
		return degraded(), fmt.Errorf("completion parse: %w", err)
	}

	slog.Info("Reply ready",
		"user_id", userID,
		"intent", parsed.Intent,
		"escalate", parsed.Escalate,
		"duration", s.now().Sub(start),
	)

	sess.History = append(sess.History, session.Turn{Role: session.RoleAssistant, Content: parsed.Reply})
	sess.History = session.Trim(sess.History, s.historyLimit)
	s.sessions.Save(ctx, userID, sess)

	return parsed, nil
}

func degraded() completion.Reply {
	return completion.Reply{Reply: DegradedMessage}
}
