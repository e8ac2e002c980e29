package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-obras-server/internal/config"
	"github.com/jrsteele09/go-obras-server/server"
	"github.com/jrsteele09/go-obras-server/sessions"
	"github.com/jrsteele09/go-obras-server/users"
	firestorerepo "github.com/jrsteele09/go-obras-server/users/firestore"
	"github.com/jrsteele09/go-obras-server/users/pgstore"
	fakeuserrepo "github.com/jrsteele09/go-obras-server/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	storeOpenTimeout = 15 * time.Second
	shutdownTimeout  = 5 * time.Second
	ephemeralSecret  = 32
)

func main() {
	config.LoadDotEnv()
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())
	log.Info().
		Str("env", c.GetEnv()).
		Str("base_url", c.GetBaseURL()).
		Str("store", c.GetDocumentStore()).
		Msg("starting")

	ctx, cancel := context.WithTimeout(context.Background(), storeOpenTimeout)
	repo, closeRepo, err := openUserRepo(ctx, c)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Err(err).Msg("closing users store")
		}
	}()

	cookies, err := newCookieStore(c)
	if err != nil {
		return err
	}

	handler, err := server.New(c, server.Deps{Users: repo, Cookies: cookies})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if c.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// openUserRepo connects the configured document store.
func openUserRepo(ctx context.Context, c config.Config) (users.Repo, func() error, error) {
	switch c.GetDocumentStore() {
	case config.StoreFirestore:
		repo, err := firestorerepo.Open(ctx, c.GetProjectID(), c.GetUsersCollection())
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("project", c.GetProjectID()).Str("collection", c.GetUsersCollection()).Msg("using Firestore users collection")
		return repo, repo.Close, nil
	case config.StorePostgres:
		db, err := pgstore.Open(ctx, c.GetDatabaseURL())
		if err != nil {
			return nil, nil, err
		}
		if err := pgstore.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Msg("using Postgres user_documents table")
		return pgstore.New(db), db.Close, nil
	case config.StoreMemory:
		log.Warn().Msg("using in-memory users store, nothing is persisted")
		return fakeuserrepo.NewFakeUserRepo(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown DOCUMENT_STORE %q", c.GetDocumentStore())
}

func newCookieStore(c config.Config) (*sessions.CookieStore, error) {
	secret := []byte(c.GetCookieSecret())
	if len(secret) == 0 {
		var err error
		if secret, err = sessions.NewRandomSecret(ephemeralSecret); err != nil {
			return nil, fmt.Errorf("generating cookie secret: %w", err)
		}
		log.Warn().Msg("COOKIE_SECRET not set, sessions will not survive a restart")
	}
	return sessions.NewCookieStore(c.GetCookieName(), secret, c.GetCookieExpiry(),
		sessions.WithSecure(c.GetCookieSecure()),
	)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
