package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"os"

	"github.com/google/uuid"
	"github.com/kanwarrior/kanwarrior/internal/config"
	"github.com/kanwarrior/kanwarrior/internal/jsonrpc"
	"github.com/kanwarrior/kanwarrior/internal/kanboard"
	"github.com/kanwarrior/kanwarrior/internal/logger"
	"github.com/kanwarrior/kanwarrior/internal/service"
)

const Version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Global()
	log.Info().
		Str("version", Version).
		Str("base_url", cfg.BaseURL).
		Int("include_boards", len(cfg.IncludeBoards)).
		Bool("labels_as_tags", cfg.ImportLabelsAsTags).
		Msg("kanwarrior starting")

	ctx := logger.WithRunID(context.Background(), uuid.NewString())

	rpc := jsonrpc.NewClient(cfg.BaseURL, cfg.APIKey)
	svc, err := service.New(kanboard.NewClient(rpc), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build service")
	}

	// Records go to stdout as JSON lines, one per card or subtask; the host
	// aggregator owns dedup and persistence.
	enc := json.NewEncoder(os.Stdout)
	count := 0
	for record, err := range svc.Tasks(ctx) {
		if err != nil {
			log.Fatal().Err(err).Int("emitted", count).Msg("pull failed")
		}
		if err := enc.Encode(record); err != nil {
			log.Fatal().Err(err).Msg("failed to write record")
		}
		count++
	}

	log.Info().Int("records", count).Msg("pull finished")
}
