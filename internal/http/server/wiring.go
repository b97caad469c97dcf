// Package server arma el handler HTTP con todas las dependencias cableadas.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/gatejohn/internal/config"
	authctrl "github.com/dropDatabas3/gatejohn/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/gatejohn/internal/http/controllers/health"
	"github.com/dropDatabas3/gatejohn/internal/http/helpers"
	"github.com/dropDatabas3/gatejohn/internal/http/metrics"
	mw "github.com/dropDatabas3/gatejohn/internal/http/middlewares"
	"github.com/dropDatabas3/gatejohn/internal/http/router"
	authsvc "github.com/dropDatabas3/gatejohn/internal/http/services/auth"
	"github.com/dropDatabas3/gatejohn/internal/identity"
	"github.com/dropDatabas3/gatejohn/internal/rate"
	"github.com/dropDatabas3/gatejohn/internal/store/pg"
)

// Build construye el handler principal, el handler de /metrics y la
// función de cleanup.
func Build(ctx context.Context, cfg *config.Config) (http.Handler, http.Handler, func() error, error) {
	// 1. Identity provider
	provider := identity.New(
		cfg.Provider.BaseURL,
		cfg.Provider.AnonKey,
		cfg.Provider.ServiceKey,
		cfg.ProviderTimeout(),
	)

	// 2. Tabla de perfiles
	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
		MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
		ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("profiles store: %w", err)
	}
	cleanup := func() error {
		store.Close()
		return nil
	}

	// 3. Métricas (antes de los services: el provider instrumentado las usa)
	metricsHandler, err := metrics.Register(metrics.Config{
		Pool: store.Pool,
	})
	if err != nil {
		_ = cleanup()
		return nil, nil, nil, fmt.Errorf("metrics: %w", err)
	}

	instrumented := &instrumentedProvider{inner: provider}

	// 4. Services y controllers
	services := authsvc.NewServices(authsvc.Deps{
		Provider:         instrumented,
		Profiles:         store,
		ResetRedirectURL: cfg.Client.BaseURL + "/reset-password",
	})

	cookies := helpers.CookiePolicy{
		Name:     cfg.Cookie.Name,
		Domain:   cfg.Cookie.Domain,
		Secure:   cfg.IsProd(),
		SameSite: helpers.ParseSameSite(cfg.Cookie.SameSite),
		TTL:      cfg.CookieTTL(),
	}

	controllers := authctrl.NewControllers(authctrl.Deps{
		Services: services,
		Cookies:  cookies,
		Prod:     cfg.IsProd(),
	})

	health := healthctrl.NewController(store, pingerFunc(provider.Ping))

	// 5. Rate limiters
	loginLimiter, forgotLimiter := buildLimiters(cfg)

	// 6. Router
	handler := router.New(router.Deps{
		Auth:              controllers,
		Health:            health,
		Verifier:          instrumented,
		LoginLimiter:      loginLimiter,
		ForgotLimiter:     forgotLimiter,
		CORSAllowedOrigin: cfg.Server.CORSAllowedOrigin,
		Prod:              cfg.IsProd(),
	})

	// mux operacional: /metrics + /readyz, con su propia cadena mínima
	opsMux := http.NewServeMux()
	opsMux.Handle("/metrics", metricsHandler)
	opsMux.HandleFunc("/readyz", health.Ready)
	ops := mw.Chain(opsMux,
		mw.WithRecover(cfg.IsProd()),
		mw.WithSecurityHeaders(),
	)

	return handler, ops, cleanup, nil
}

func buildLimiters(cfg *config.Config) (rate.Limiter, rate.Limiter) {
	if !cfg.Rate.Enabled {
		return nil, nil
	}
	loginWin, _ := time.ParseDuration(cfg.Rate.Login.Window)
	forgotWin, _ := time.ParseDuration(cfg.Rate.Forgot.Window)

	if cfg.Rate.Backend == "redis" {
		client := rdb.NewClient(&rdb.Options{
			Addr:     cfg.Rate.Redis.Addr,
			Password: cfg.Rate.Redis.Password,
			DB:       cfg.Rate.Redis.DB,
		})
		prefix := cfg.Rate.Redis.Prefix
		return rate.NewRedisLimiter(client, prefix, cfg.Rate.Login.Limit, loginWin),
			rate.NewRedisLimiter(client, prefix, cfg.Rate.Forgot.Limit, forgotWin)
	}
	return rate.NewMemoryLimiter("", cfg.Rate.Login.Limit, loginWin),
		rate.NewMemoryLimiter("", cfg.Rate.Forgot.Limit, forgotWin)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// instrumentedProvider decora el cliente de identity con métricas por
// operación. Implementa authsvc.Provider y middlewares.TokenVerifier.
type instrumentedProvider struct {
	inner *identity.Client
}

func observe(op string, start time.Time, err error) {
	metrics.ObserveProviderCall(op, err, time.Since(start))
}

func (p *instrumentedProvider) SignUp(ctx context.Context, email, password string, md map[string]any) (*identity.Session, error) {
	start := time.Now()
	s, err := p.inner.SignUp(ctx, email, password, md)
	observe("signup", start, err)
	return s, err
}

func (p *instrumentedProvider) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	start := time.Now()
	s, err := p.inner.SignInWithPassword(ctx, email, password)
	observe("sign_in", start, err)
	return s, err
}

func (p *instrumentedProvider) RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error) {
	start := time.Now()
	s, err := p.inner.RefreshSession(ctx, refreshToken)
	observe("refresh", start, err)
	return s, err
}

func (p *instrumentedProvider) GetUser(ctx context.Context, accessToken string) (*identity.User, error) {
	start := time.Now()
	u, err := p.inner.GetUser(ctx, accessToken)
	observe("get_user", start, err)
	return u, err
}

func (p *instrumentedProvider) SignOut(ctx context.Context, accessToken string) error {
	start := time.Now()
	err := p.inner.SignOut(ctx, accessToken)
	observe("sign_out", start, err)
	return err
}

func (p *instrumentedProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	start := time.Now()
	err := p.inner.ResetPasswordForEmail(ctx, email, redirectTo)
	observe("reset_password", start, err)
	return err
}

func (p *instrumentedProvider) VerifyRecoveryToken(ctx context.Context, token string) (*identity.Session, error) {
	start := time.Now()
	s, err := p.inner.VerifyRecoveryToken(ctx, token)
	observe("verify_recovery", start, err)
	return s, err
}

func (p *instrumentedProvider) UpdateUserPassword(ctx context.Context, accessToken, newPassword string) (*identity.User, error) {
	start := time.Now()
	u, err := p.inner.UpdateUserPassword(ctx, accessToken, newPassword)
	observe("update_password", start, err)
	return u, err
}

func (p *instrumentedProvider) AdminDeleteUser(ctx context.Context, userID string) error {
	start := time.Now()
	err := p.inner.AdminDeleteUser(ctx, userID)
	observe("admin_delete_user", start, err)
	return err
}
