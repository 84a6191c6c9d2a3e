package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahsanfayaz52/notesservice/internal/auth"
	"github.com/ahsanfayaz52/notesservice/internal/cache"
	"github.com/ahsanfayaz52/notesservice/internal/config"
	"github.com/ahsanfayaz52/notesservice/internal/db"
	"github.com/ahsanfayaz52/notesservice/internal/handlers"
	"github.com/ahsanfayaz52/notesservice/internal/logger"
	"github.com/ahsanfayaz52/notesservice/internal/notes"
	"github.com/ahsanfayaz52/notesservice/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.LoadConfig()

	log, logCloser, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noteStore, userStore, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		noteStore = cache.NewNoteCache(noteStore, client, cfg.CacheTTL, log)
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("note list cache enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.NewHandler(server.Dependencies{
			Notes:       notes.NewService(noteStore),
			Users:       userStore,
			JWT:         auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL),
			Logger:      log,
			Registry:    registry,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.DBDriver).Msg("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config) (notes.Store, handlers.UserStore, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, database, err := db.InitMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, nil, err
		}
		closer := func() { client.Disconnect(context.Background()) }
		return db.NewMongoNoteStore(database), db.NewMongoUserStore(database), closer, nil

	case config.DriverSQLite:
		conn, err := db.InitSQLite(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return db.NewNoteStore(conn), db.NewUserStore(conn), func() { conn.Close() }, nil

	default:
		conn, err := db.InitMySQL(ctx, cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBName)
		if err != nil {
			return nil, nil, nil, err
		}
		return db.NewNoteStore(conn), db.NewUserStore(conn), func() { conn.Close() }, nil
	}
}
