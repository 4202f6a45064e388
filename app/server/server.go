package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gracebot/app/config"
	"gracebot/app/service/chat"
	"gracebot/app/service/completion"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

const shutdownTimeout = 10 * time.Second

// Chat handles one inbound webhook message end to end.
type Chat interface {
	HandleMessage(ctx context.Context, userID, message string) (completion.Reply, error)
}

type webhookRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Server exposes the webhook endpoint over HTTP.
type Server struct {
	app      *fiber.App
	chatSvc  Chat
	validate *validator.Validate
	port     int
}

func New(di *do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*config.Config](di)
	chatSvc := do.MustInvoke[*chat.Service](di)

	return NewServer(chatSvc, cfg.Server.Port), nil
}

func NewServer(chatSvc Chat, port int) *Server {
	s := &Server{
		chatSvc:  chatSvc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		port:     port,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Post("/webhook", s.handleWebhook)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	s.app = app

	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleWebhook(c *fiber.Ctx) error {
	var payload webhookRequest

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request",
		})
	}

	if err := s.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request",
		})
	}

	reply, err := s.chatSvc.HandleMessage(c.UserContext(), payload.UserID, payload.Message)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"reply": reply.Reply,
			"error": err.Error(),
		})
	}

	return c.JSON(reply)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.app.Listen(fmt.Sprintf(":%d", s.port))
	}()

	slog.Info("Webhook server listening", "port", s.port)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.app.ShutdownWithContext(shutdownCtx)
	}
}
