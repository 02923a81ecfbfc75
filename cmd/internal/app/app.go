package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"aureum/cmd/identity"
	usersapi "aureum/cmd/internal/users/api"
	"aureum/cmd/security/token"
)

// App wires the service's components and owns their lifecycle.
type App struct {
	cfg Config
	log Logger

	pool    *pgxpool.Pool
	store   identity.Store
	svc     *identity.Service
	users   *usersapi.Handler
	metrics *Metrics
}

// New builds the application from configuration. It connects to Postgres when
// a database URL is configured; otherwise it falls back to the in-memory
// store, which is only suitable for local development.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	if cfg.DatabaseURL == "" {
		log.Warn("db.disabled.inmemory_store",
			"hint", "set AUREUM_DATABASE_URL to persist users")
		a.store = identity.NewMemoryStore()
	} else {
		pool, err := NewDBPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("app: connect database: %w", err)
		}
		store, err := identity.NewPostgresStore(pool, identity.WithSchema(cfg.DBSchema))
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("app: postgres store: %w", err)
		}
		a.pool = pool
		a.store = store
		log.Info("db.connected", "schema", cfg.DBSchema)
	}

	hasher, err := identity.NewArgon2Hasher()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: password hasher: %w", err)
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret, err = devJWTSecret()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("app: dev token secret: %w", err)
		}
		log.Warn("token.secret.ephemeral",
			"hint", "set AUREUM_JWT_SECRET; tokens will not survive restarts")
	}

	tokens, err := token.NewManager(token.Config{
		Secret: secret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTTTL,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: token manager: %w", err)
	}

	a.svc = identity.NewService(a.store, hasher, tokens, cfg.JWTTTL)
	a.users = usersapi.NewHandler(log, usersapi.LoadConfigFromEnv(), a.svc)
	a.metrics = NewMetrics()

	return a, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	a.registerHTTP(mux)

	handler := WithRequestLogging(a.log, a.metrics.WithMetrics(mux))

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout,
		ReadTimeout:       a.cfg.ReadTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
		IdleTimeout:       a.cfg.IdleTimeout,
		MaxHeaderBytes:    a.cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http.listening", "addr", a.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		a.Close()
		return err
	case <-ctx.Done():
	}

	a.log.Info("http.shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	a.Close()
	if err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}

// Close releases resources held by the application. Safe to call more than once.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
