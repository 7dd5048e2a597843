package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/outreach-toolkit/api/internal/config"
	"github.com/octobees/outreach-toolkit/api/internal/database"
	"github.com/octobees/outreach-toolkit/api/internal/export"
	"github.com/octobees/outreach-toolkit/api/internal/handler"
	middlewarepkg "github.com/octobees/outreach-toolkit/api/internal/middleware"
	"github.com/octobees/outreach-toolkit/api/internal/repository"
	"github.com/octobees/outreach-toolkit/api/internal/router"
	"github.com/octobees/outreach-toolkit/api/internal/scraper"
	"github.com/octobees/outreach-toolkit/api/internal/service"
	"github.com/octobees/outreach-toolkit/api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	audience, err := config.LoadAudience(cfg.AudienceConfigFile)
	if err != nil {
		log.Fatalf("failed to load audience config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The lead archive is optional: without a database the service keeps
	// results in memory only.
	var archiver service.ResultArchiver
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		defer pool.Close()
		archiver = repository.NewPGXLeadsRepository(pool)
	} else {
		log.Printf("DATABASE_URL not set, lead archiving disabled")
	}

	httpClient := &http.Client{Timeout: cfg.ScrapeTimeout}
	adapter := scraper.NewApifyAdapter(httpClient, cfg.ApifyBaseURL, cfg.ApifyToken, cfg.ProviderRPS)

	results := store.NewResultStore()
	jobs := service.NewJobManager(adapter, results, archiver, service.JobManagerOptions{
		AdapterTimeout: cfg.ScrapeTimeout,
		MaxConcurrent:  cfg.MaxConcurrentJobs,
	})

	var sheets handler.SheetsPusher
	if cfg.SheetsCredentialsFile != "" {
		exporter, err := export.NewSheetsExporter(ctx, cfg.SheetsCredentialsFile)
		if err != nil {
			log.Fatalf("failed to init sheets exporter: %v", err)
		}
		sheets = exporter
	} else {
		log.Printf("SHEETS_CREDENTIALS_FILE not set, sheets export disabled")
	}

	handlers := router.Handlers{
		Scrape:   handler.NewScrapeHandler(jobs),
		Results:  handler.NewResultsHandler(results),
		Export:   handler.NewExportHandler(results, sheets),
		Audience: handler.NewAudienceHandler(audience),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
