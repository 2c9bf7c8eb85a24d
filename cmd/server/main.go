package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crimedesk/api"
	"crimedesk/config"
	"crimedesk/core/notify"
	"crimedesk/core/rbac"
	"crimedesk/core/remind"
	"crimedesk/core/scope"
	"crimedesk/core/stats"
	"crimedesk/core/store"
	"crimedesk/core/utils"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	logger := utils.NewLogger()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Errorf("load config: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDB(cfg, logger)
	if err != nil {
		logger.Errorf("open database: %v", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := store.ApplyMigrations(ctx, db, logger); err != nil {
		logger.Errorf("apply migrations: %v", err)
		os.Exit(1)
	}

	users := store.NewUsersStore(db)
	stations := store.NewStationsStore(db)
	crimes := store.NewCrimesStore(db)
	escalations := store.NewEscalationsStore(db)
	reminders := store.NewRemindersStore(db)
	crimeTypes := store.NewCrimeTypesStore(db)
	dashboard := store.NewDashboardStore(db)

	policy, err := rbac.NewPolicy()
	if err != nil {
		logger.Errorf("build rbac policy: %v", err)
		os.Exit(1)
	}
	resolver := scope.NewResolver(users, stations)
	mailer := notify.NewMailer(cfg.SMTP, logger)
	statsSvc := stats.NewService(dashboard, crimes, escalations, stations, crimeTypes, logger)
	checker := remind.NewChecker(crimes, reminders, mailer, logger)

	scheduler, err := remind.NewScheduler(cfg.Scheduler, checker, logger)
	if err != nil {
		logger.Errorf("build scheduler: %v", err)
		os.Exit(1)
	}
	if cfg.Scheduler.Enabled {
		scheduler.Start()
		logger.Printf("reminder scheduler started (%s)", cfg.Scheduler.CronSpec)
	}

	srv := api.NewServer(api.Deps{
		Config:      cfg,
		Logger:      logger,
		Policy:      policy,
		Resolver:    resolver,
		Users:       users,
		Stations:    stations,
		Crimes:      crimes,
		Escalations: escalations,
		Reminders:   reminders,
		CrimeTypes:  crimeTypes,
		Stats:       statsSvc,
		Checker:     checker,
		Mailer:      mailer,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s (%s)", cfg.ListenAddr, cfg.AppEnv)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("http server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	scheduler.Stop(shutdownCtx)
}
