package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wordgame/go-server/internal/game"
	"github.com/wordgame/go-server/internal/httpserver"
	"github.com/wordgame/go-server/internal/report"
	"github.com/wordgame/go-server/internal/store"
	"github.com/wordgame/go-server/internal/words"
)

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("processing config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		return err
	}

	pool := words.NewPool(db)
	if err := pool.Seed(ctx, cfg.WordsFile); err != nil {
		return err
	}

	users := httpserver.NewUsers(db)
	engine := game.NewEngine(store.NewSQLite(db), pool, users, game.NewAdmissionGuard(cfg.DailyLimit))
	srv := httpserver.New(engine, users, report.NewService(db), httpserver.Options{
		ClientOrigin:  cfg.ClientOrigin,
		JWTSecret:     cfg.JWTSecret,
		CookieName:    cfg.CookieName,
		SecureCookies: cfg.SecureCookies,
		TokenTTL:      cfg.TokenTTL,
	})

	httpSrv := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("starting wordgame server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
