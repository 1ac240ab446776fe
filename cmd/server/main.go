package main // notification API entry point

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cinema-seat-alert/internal/config"
	"github.com/iliyamo/cinema-seat-alert/internal/database"
	"github.com/iliyamo/cinema-seat-alert/internal/handler"
	"github.com/iliyamo/cinema-seat-alert/internal/middleware"
	"github.com/iliyamo/cinema-seat-alert/internal/repository"
	"github.com/iliyamo/cinema-seat-alert/internal/router"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient() // nil disables rate limit and cache
	if rdb != nil {
		defer rdb.Close()
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	browserCtx, closeBrowser, err := scanner.NewBrowser(ctx, cfg.Browser.Headless)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBrowser()
	loc, err := time.LoadLocation(cfg.Browser.DefaultTimezone)
	if err != nil {
		log.Fatalf("DEFAULT_TIMEZONE: %v", err)
	}
	remote := scanner.NewRemote(browserCtx, scanner.WithLocation(loc))

	showtimes := repository.NewShowtimeRepo(db)
	notifications := repository.NewNotificationRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, db)
	router.RegisterNotifications(e,
		handler.NewNotificationHandler(showtimes, notifications, cfg.BookingHost, cfg.Browser.DefaultTimezone),
		handler.NewUnsubscribeHandler(notifications),
		cfg.Links.UnsubscribeSecret, limiter)
	router.RegisterScan(e, handler.NewScanHandler(remote, cfg.BookingHost), limiter, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
