package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"tradepost.org/internal/auth"
	"tradepost.org/internal/httpapi"
	"tradepost.org/internal/listing"
	"tradepost.org/internal/migrate"
	"tradepost.org/internal/obs"
)

var version = "0.3.1"

func main() {
	obs.Init()

	dsn := os.Getenv("TRADEPOST_PG_DSN")
	if dsn == "" {
		log.Fatal("TRADEPOST_PG_DSN is required")
	}
	accessSecret := os.Getenv("TRADEPOST_ACCESS_SECRET")
	refreshSecret := os.Getenv("TRADEPOST_REFRESH_SECRET")
	if accessSecret == "" || refreshSecret == "" {
		log.Fatal("TRADEPOST_ACCESS_SECRET and TRADEPOST_REFRESH_SECRET are required")
	}
	addr := os.Getenv("TRADEPOST_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrate.Up(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	issuer, err := auth.NewTokenIssuer([]byte(accessSecret), []byte(refreshSecret))
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}
	authSvc := auth.NewService(auth.NewPGStore(db), issuer)
	listings := listing.NewPGStore(db)

	api := httpapi.New(authSvc, listings, httpapi.ReadyProbe{DB: db},
		httpapi.WithVersion(version),
		httpapi.WithSecureCookies(os.Getenv("TRADEPOST_ENV") == "production"),
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting tradepost-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = db.Close()
	log.Println("Stopped")
}
