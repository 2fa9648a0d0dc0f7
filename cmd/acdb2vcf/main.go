package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/contacts-export/internal/account"
	"github.com/ovaphlow/pitchfork/contacts-export/pkg/utilities"
)

func main() {
	// load .env file if present so LOG_* and CONTACTS_DB_* can come from it
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.With(zap.String("run_id", utilities.NewRunID())).Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(sugar, account.DefaultRegistry())
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		sugar.Fatalf("export failed: %v", err)
	}
}
