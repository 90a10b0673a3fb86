package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/valgraphics/identity-be/internal/auth"
	"github.com/valgraphics/identity-be/internal/config"
	"github.com/valgraphics/identity-be/internal/mail"
	"github.com/valgraphics/identity-be/internal/server"
	"github.com/valgraphics/identity-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, err := postgres.NewAccountStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	if count, err := store.CountAccounts(ctx); err != nil {
		log.Printf("count accounts: %v", err)
	} else {
		log.Printf("%d accounts registered", count)
	}

	var notifier auth.Notifier
	if cfg.SMTPEnabled() {
		notifier = mail.NewMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		log.Println("SMTP not configured; reset codes will be logged, not emailed")
		notifier = mail.LogNotifier{}
	}

	srv := server.New(cfg, store, notifier)

	go func() {
		log.Printf("identity backend listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
