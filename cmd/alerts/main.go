package main // alert mailer entry point

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinema-seat-alert/internal/config"
	"github.com/iliyamo/cinema-seat-alert/internal/database"
	"github.com/iliyamo/cinema-seat-alert/internal/mailer"
	"github.com/iliyamo/cinema-seat-alert/internal/queue"
	"github.com/iliyamo/cinema-seat-alert/internal/repository"
	"github.com/iliyamo/cinema-seat-alert/internal/service"
)

func main() {
	_ = godotenv.Load()
	links := config.LoadLinkConfig()
	smtpCfg := config.LoadSMTPConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(config.LoadDB())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	alerts := service.NewAlertService(
		repository.NewNotificationRepo(db),
		mailer.NewSMTPMailer(smtpCfg),
		mailer.Links{Secret: links.UnsubscribeSecret, BaseURL: links.PublicBaseURL},
	)

	log.Printf("alert-consumer: started, sending as %s via %s", smtpCfg.From, smtpCfg.Host)
	if err := queue.StartAlertConsumer(ctx, config.AMQPURL(), alerts.Handle); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("alert-consumer: %v", err)
	}
	log.Printf("alert-consumer: stopped")
}
