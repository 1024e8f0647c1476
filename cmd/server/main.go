package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barbercash/backend/internal/cache"
	"barbercash/backend/internal/config"
	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/httpapi"
	"barbercash/backend/internal/reminder"
	"barbercash/backend/internal/service"
	"barbercash/backend/internal/store"
	"barbercash/backend/internal/store/memory"
	pgstore "barbercash/backend/internal/store/postgres"
	"barbercash/backend/internal/syncer"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var remote store.RemoteStore
	closers := make([]func() error, 0, 3)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start without the remote store", err)
		}
		remote = pg
		closers = append(closers, pg.Close)
		log.Println("remote store: postgres")
	} else {
		remote = memory.New()
		log.Println("remote store: in-memory")
	}

	localCache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		log.Fatalf("local cache unavailable: %v", err)
	}
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	synchronizer := syncer.New(remote, localCache, syncer.NewNoticeFeed(200))
	ledger := syncer.NewLedger(synchronizer, syncer.Seed{
		Users:       service.DefaultUsers(cfg.SeedAdminPassword),
		Catalog:     domain.DefaultCatalog,
		UpgradeUser: service.UpgradeLegacyPassword,
	})
	if err := synchronizer.Load(ctx); err != nil {
		log.Fatalf("load local cache: %v", err)
	}
	if err := synchronizer.Resume(ctx); err != nil {
		log.Printf("sync resume incomplete: %v", err)
	}

	svc := service.New(ledger, synchronizer, service.Options{MonthlyGoalCents: cfg.MonthlyGoalCents})
	auth := httpapi.NewAuthManager(cfg.AuthSecret, cfg.TokenTTL(), svc)
	api := httpapi.New(svc, auth, httpapi.Options{
		AllowedOrigin: cfg.AllowedOrigin,
		ShopName:      cfg.ShopName,
		ReminderLead:  cfg.ReminderLead,
	})

	var sender reminder.Sender
	if cfg.Twilio.Enabled() {
		sender = reminder.NewTwilioSender(cfg.Twilio)
		log.Println("reminders: twilio")
	} else {
		log.Println("reminders: notices only")
	}
	scheduler := reminder.NewScheduler(svc, svc.Notices(), sender, reminder.Options{
		Lead:     cfg.ReminderLead,
		Schedule: cfg.ReminderSchedule,
	})
	if err := scheduler.Start(); err != nil {
		log.Fatalf("reminder scheduler: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("barbercash backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	scheduler.Stop()
	if err := synchronizer.Close(); err != nil {
		log.Printf("sync close error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

// openCache builds the durable local cache. A redis cache that cannot be
// reached falls back to sqlite so local writes are never lost.
func openCache(ctx context.Context, cfg config.Config) (store.LocalCache, func() error, error) {
	switch cfg.CacheDriver {
	case "memory":
		log.Println("local cache: in-memory")
		return cache.NewMemoryCache(), nil, nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, nil, fmt.Errorf("CACHE_DRIVER=redis requires REDIS_ADDR")
		}
		redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		err := redisCache.Ping(ctx)
		if err == nil {
			log.Println("local cache: redis")
			return redisCache, redisCache.Close, nil
		}
		_ = redisCache.Close()
		log.Printf("redis unavailable (%v), using sqlite cache at %s", err, cfg.CachePath)
	case "sqlite", "":
	default:
		return nil, nil, fmt.Errorf("unknown CACHE_DRIVER %q", cfg.CacheDriver)
	}

	sqliteCache, err := cache.NewSQLiteCache(cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("local cache: sqlite (%s)", cfg.CachePath)
	return sqliteCache, sqliteCache.Close, nil
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.SeedAdminPassword != "" && len(cfg.SeedAdminPassword) < 8 {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}
	return nil
}
