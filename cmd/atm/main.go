package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/ibrahimkeyboad/bankledger/internal/adapter/session"
	"github.com/ibrahimkeyboad/bankledger/internal/adapter/storage"
	"github.com/ibrahimkeyboad/bankledger/internal/core/config"
	"github.com/ibrahimkeyboad/bankledger/internal/core/domain"
	"github.com/ibrahimkeyboad/bankledger/internal/core/ledger"
)

func main() {
	ctx := context.Background()

	// 1. Load Config
	cfg := config.LoadConfig()

	// 2. Setup Logger (stderr, so log lines don't mix into the menu)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// 3. Open the Ledger Store. The interactive deployment works on
	// the CSV file and defers persistence to a single save on exit.
	backend := storage.NewCSVStore(cfg.LedgerFile)
	store, err := ledger.Open(ctx, backend, ledger.Options{})
	if err != nil {
		if errors.Is(err, domain.ErrStoreMissing) {
			slog.Error("Ledger file not found", "file", cfg.LedgerFile)
		} else {
			slog.Error("Failed to load ledger", "error", err)
		}
		os.Exit(1)
	}

	// 4. Run the menu
	sess := session.New(store, os.Stdin, os.Stdout)
	if err := sess.Run(ctx); err != nil && !errors.Is(err, io.EOF) {
		os.Exit(1)
	}

	// 5. Persist once on the way out
	if err := store.Close(ctx); err != nil {
		slog.Error("Failed to save ledger", "error", err)
		os.Exit(1)
	}
}
