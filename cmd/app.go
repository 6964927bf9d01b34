package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/ai/fallback"
	"github.com/spigell/team-matcher/internal/ai/gemini"
	"github.com/spigell/team-matcher/internal/logger"
	"github.com/spigell/team-matcher/internal/metrics"
	"github.com/spigell/team-matcher/internal/secrets"
	"github.com/spigell/team-matcher/internal/store"
)

// env holds what every command that talks to the database needs.
type env struct {
	config  *Config
	logger  *zap.Logger
	store   *store.Store
	metrics *metrics.Manager
}

func (e *env) Close() {
	if e.store != nil {
		e.store.Close()
	}
	_ = e.logger.Sync()
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// setup builds the logger, reads the config and connects to the database.
func setup(ctx context.Context) *env {
	l := newLogger()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Debug("starting", zap.String("version", version))

	databaseURL, err := secrets.Load(secrets.Source{
		Name:  "database url",
		File:  config.Database.URLFile,
		Value: config.Database.URL,
		Env:   "DATABASE_URL",
	})
	if err != nil {
		l.Fatal("resolving database url", zap.Error(err), zap.String("hint", "set database.url or TEAM_MATCHER_DATABASE_URL"))
	}

	st, err := store.Connect(ctx, databaseURL, l)
	if err != nil {
		l.Fatal("connecting to the database", zap.Error(err))
	}

	if config.Database.Migrate {
		if err := st.Migrate(ctx); err != nil {
			l.Fatal("applying schema", zap.Error(err))
		}
	}

	return &env{config: config, logger: l, store: st, metrics: metrics.NewManager()}
}

// newAdvisor builds the Gemini advisor wrapped in the fallback decorator.
// A missing API key is not fatal when fallback answers are allowed.
func newAdvisor(ctx context.Context, cfg *AIConfig, l *zap.Logger, m *metrics.Manager) (ai.Advisor, error) {
	if cfg == nil || (!cfg.Enabled && !cfg.Fallback) {
		return nil, nil
	}

	var next ai.Advisor
	if cfg.Enabled {
		advisor, err := newGeminiAdvisor(ctx, cfg, l, m)
		switch {
		case err == nil:
			next = advisor
		case cfg.Fallback:
			l.Warn("gemini advisor is unavailable, using fallback answers only", zap.Error(err))
		default:
			return nil, err
		}
	}

	if !cfg.Fallback {
		return next, nil
	}
	return fallback.New(next, l, fallback.WithMetrics(m)), nil
}

func newGeminiAdvisor(ctx context.Context, cfg *AIConfig, l *zap.Logger, m *metrics.Manager) (*gemini.Advisor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:     apiKey,
		Model:      cfg.Gemini.Model,
		MaxRetries: cfg.Gemini.MaxRetries,
		CacheSize:  cfg.Gemini.CacheSize,
	}, l.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)), m)
	if err != nil {
		return nil, err
	}

	return gemini.NewAdvisor(generator, l, cfg.Gemini.MaxLogLength), nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encoding output: %v", err)
	}
}
