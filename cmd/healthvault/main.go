package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	adapthttp "healthvault/internal/adapter/http"
	"healthvault/internal/adapter/memory"
	"healthvault/internal/adapter/postgres"
	"healthvault/internal/app"
	"healthvault/internal/config"
	"healthvault/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		metricRepo  domain.MetricRepository
		userRepo    domain.UserRepository
		sessionRepo domain.SessionRepository
	)
	if cfg.UseMemory {
		db := memory.New()
		metricRepo, userRepo, sessionRepo = db, db, db.NewSessionRepo()
		log.Print("using in-memory store")
	} else {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		metricRepo, userRepo, sessionRepo = db, db, postgres.NewSessionRepo(db)
	}

	importSvc := app.NewImportService(metricRepo)
	metricSvc := app.NewMetricService(metricRepo)
	chartsSvc := app.NewChartsService(metricRepo)
	authSvc := app.NewAuthService(userRepo, sessionRepo)

	oidcConfig, err := setupOIDC(context.Background(), cfg)
	if err != nil {
		log.Fatalf("oidc: %v", err)
	}

	h := adapthttp.New(importSvc, metricSvc, chartsSvc, authSvc, cfg.AggregateDays, oidcConfig).Handler()
	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func setupOIDC(ctx context.Context, cfg *config.Config) (adapthttp.OIDCConfig, error) {
	if cfg.SSOIssuer == "" {
		return adapthttp.OIDCConfig{}, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.SSOIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}

	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.SSOClientID,
			ClientSecret: cfg.SSOClientSecret,
			RedirectURL:  cfg.SSORedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}
