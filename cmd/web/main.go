package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prayerpartner/service-web-go/internal/auth"
	"github.com/prayerpartner/service-web-go/internal/mirror"
	"github.com/prayerpartner/service-web-go/internal/router"
	"github.com/prayerpartner/service-web-go/internal/session"
	"github.com/prayerpartner/service-web-go/internal/store"
	"github.com/prayerpartner/service-web-go/internal/web"
	"github.com/prayerpartner/service-web-go/pkg/database"
	"github.com/prayerpartner/service-web-go/pkg/utilities"
)

func listenAddr() string {
	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return net.JoinHostPort(host, port)
}

func main() {
	// load .env file if present so os.Getenv picks values from it
	// best-effort: if no .env exists, continue with real env and defaults
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.InitLogger(utilities.LogConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting prayer partner")

	// init db
	db, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.EnsureSchema(ctx, db); err != nil {
		sugar.Fatalf("ensure schema: %v", err)
	}

	// document mirror is optional; fall back to a no-op when unconfigured
	var docMirror mirror.Mirror = mirror.Nop{}
	if cfg := mirror.ConfigFromEnv(); cfg.Enabled() {
		m, err := mirror.NewS3Mirror(ctx, cfg)
		if err != nil {
			sugar.Fatalf("mirror init: %v", err)
		}
		docMirror = m
		sugar.Infow("document mirror enabled", "bucket", cfg.Bucket)
	} else {
		sugar.Info("document mirror not configured; skipping")
	}

	hasher := auth.BcryptHasher{Cost: 10}
	sessions := session.NewManager(session.ConfigFromEnv())

	// one façade value per request, bound to the session's username
	stores := func(username string) web.Store {
		return store.New(db, hasher, docMirror, sugar, username)
	}

	handler, err := web.NewHandler(stores, sessions, sugar)
	if err != nil {
		sugar.Fatalf("handler init: %v", err)
	}

	srv := &http.Server{
		Addr:    listenAddr(),
		Handler: router.RegisterRoutes(sugar, handler),
	}

	go func() {
		sugar.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
