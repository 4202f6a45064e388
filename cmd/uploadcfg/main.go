package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gracebot/app/client/docstore"
	"gracebot/app/config"
	"gracebot/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const configCollection = "config"

// Maps config document ids to their local source files.
var sourceFiles = map[string]string{
	"bot_schedule": "schedule.json",
	"student_faq":  "faq_student.json",
}

func main() {
	dir := flag.String("dir", ".", "directory holding the JSON config files")
	flag.Parse()

	mylog.Preinit()

	di := do.New()
	defer di.Shutdown()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)
	do.Provide(di, docstore.NewClient)

	client := do.MustInvoke[*docstore.Client](di)

	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		log.Fatalf("document store unreachable: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	for docID, name := range sourceFiles {
		docID := docID
		path := filepath.Join(*dir, name)

		g.Go(func() error {
			if err := upload(ctx, client, docID, path); err != nil {
				return fmt.Errorf("upload %s: %w", docID, err)
			}

			slog.Info("Uploaded config document", "doc_id", docID, "file", path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	slog.Info("All config documents uploaded")
}

func upload(ctx context.Context, client *docstore.Client, docID, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	wrapped, err := wrapList(raw)
	if err != nil {
		return err
	}

	return client.Set(ctx, configCollection, docID, wrapped)
}

// wrapList nests a top-level JSON array under an "items" key, the shape the
// document store expects for list-valued config. Objects pass through.
func wrapList(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("file is not valid JSON")
	}

	if trimmed[0] != '[' {
		return trimmed, nil
	}

	return json.Marshal(map[string]json.RawMessage{
		"items": trimmed,
	})
}
