package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"gracebot/app/client/docstore"
	"gracebot/app/config"
	"gracebot/app/server"
	"gracebot/app/service/chat"
	"gracebot/app/service/completion"
	"gracebot/app/service/configcache"
	"gracebot/app/service/faq"
	"gracebot/app/service/prompt"
	"gracebot/app/service/session"
	"gracebot/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// Cloud Run style deployments inject the port via env
	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, perr := strconv.Atoi(portStr); perr == nil {
			cfg.Server.Port = port
		}
	}

	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, docstore.NewClient)
	do.Provide(di, configcache.New)
	do.Provide(di, session.NewStore)
	do.Provide(di, prompt.New)
	do.Provide(di, faq.New)
	do.Provide(di, completion.New)
	do.Provide(di, chat.New)
	do.Provide(di, server.New)

	// A dead store at boot is not fatal, services degrade per call
	if err = do.MustInvoke[*docstore.Client](di).Ping(appCtx); err != nil {
		slog.Warn("Document store unreachable, running in degraded mode", "error", err)
	}

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go func() {
		if err := do.MustInvoke[*server.Server](di).Run(appCtx); err != nil {
			slog.Error("Server stopped", "error", err)
			cancel()
		}
	}()

	<-appCtx.Done()
}
