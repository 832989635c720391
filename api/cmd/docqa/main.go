package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"docqa-bot/api/internal/config"
	"docqa-bot/api/internal/console"
	"docqa-bot/api/internal/qa"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("docqa: ")

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrConfigurationMissing) {
			fmt.Fprintln(os.Stderr, "🚨 API endpoint not set. Please configure API_BASE in the environment or a .env file.")
			os.Exit(1)
		}
		log.Fatalf("config: %v", err)
	}
	if os.Getenv("DOCQA_DEBUG") == "" {
		// exchange logs go to stderr only when asked for
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repl := &console.REPL{
		Session: qa.NewSession(qa.NewClient(cfg.APIBase, cfg.Timeout), cfg.SendDocumentHandle),
		In:      os.Stdin,
		Out:     os.Stdout,
	}
	if len(os.Args) > 1 {
		repl.Upload(ctx, os.Args[1])
	}
	if err := repl.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "docqa: %v\n", err)
		os.Exit(1)
	}
}
