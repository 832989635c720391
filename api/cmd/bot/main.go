package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docqa-bot/api/internal/config"
	"docqa-bot/api/internal/httpserver"
	"docqa-bot/api/internal/qa"
	"docqa-bot/api/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrConfigurationMissing) {
			log.Fatalf("🚨 API endpoint not set: configure API_BASE in the environment or .env")
		}
		log.Fatalf("config: %v", err)
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal("missing required env TELEGRAM_BOT_TOKEN")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("authorized as @%s; api=%s send_handle=%v timeout=%v",
		bot.Self.UserName, cfg.APIBase, cfg.SendDocumentHandle, cfg.Timeout)

	client := qa.NewClient(cfg.APIBase, cfg.Timeout)
	r := telegram.NewRouter(bot, func() *qa.Session {
		return qa.NewSession(client, cfg.SendDocumentHandle)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := "0.0.0.0:" + cfg.Port
	if base := strings.TrimSpace(cfg.WebhookURL); base != "" {
		path := webhookPath(bot.Token)
		if err := setWebhook(bot, strings.TrimRight(base, "/")+path); err != nil {
			log.Fatal(err)
		}
		// ListenForWebhook registers on DefaultServeMux, which StartHTTP serves
		go r.Serve(bot.ListenForWebhook(path))
		log.Printf("webhook mode: %s%s", addr, path)
		serve(addr)
		return
	}

	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.Printf("deleteWebhook: %v", err)
	}
	go serve(addr)
	log.Printf("polling mode")
	telegram.NewPoller(bot, r).Run(ctx)
}

func setWebhook(bot *tgbotapi.BotAPI, public string) error {
	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		return err
	}
	wh.DropPendingUpdates = true
	_, err = bot.Request(wh)
	return err
}

func serve(addr string) {
	if err := httpserver.StartHTTP(addr, "ok"); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// webhookPath hides the token behind a stable digest.
func webhookPath(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "/webhook/" + hex.EncodeToString(sum[:8])
}
