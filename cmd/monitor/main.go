package main // seat monitor entry point

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinema-seat-alert/internal/config"
	"github.com/iliyamo/cinema-seat-alert/internal/database"
	"github.com/iliyamo/cinema-seat-alert/internal/monitor"
	"github.com/iliyamo/cinema-seat-alert/internal/repository"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
	"github.com/iliyamo/cinema-seat-alert/internal/service"
)

func main() {
	_ = godotenv.Load()
	bcfg := config.LoadBrowserConfig()
	mcfg := config.LoadMonitorConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(config.LoadDB())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	browserCtx, closeBrowser, err := scanner.NewBrowser(ctx, bcfg.Headless)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBrowser()
	loc, err := time.LoadLocation(bcfg.DefaultTimezone)
	if err != nil {
		log.Fatalf("DEFAULT_TIMEZONE: %v", err)
	}

	pub := service.NewPublisher(config.AMQPURL())
	defer pub.Close()

	m := monitor.New(mcfg,
		repository.NewNotificationRepo(db),
		repository.NewShowtimeRepo(db),
		repository.NewCleanupRepo(db),
		scanner.NewRemote(browserCtx, scanner.WithLocation(loc)),
		pub)

	log.Printf("seat-monitor: started (interval=%s workers=%d)", mcfg.Interval, mcfg.Workers)
	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("seat-monitor: %v", err)
	}
	log.Printf("seat-monitor: stopped")
}
