package main

import (
	"fmt"
	"log/slog"

	log "github.com/charmbracelet/log"
	"github.com/minibank/ledger/pkg/config"
	"github.com/minibank/ledger/pkg/registry"
	ledgersvc "github.com/minibank/ledger/pkg/service/ledger"
	"github.com/minibank/ledger/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()

	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	reg := registry.New(logger)
	svc := ledgersvc.New(reg, logger)
	app := webapi.SetupApp(svc, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server",
		"env", cfg.Env,
		"address", addr,
	)

	return app.Listen(addr)
}
