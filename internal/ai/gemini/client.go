package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spigell/team-matcher/internal/logger"
	"github.com/spigell/team-matcher/internal/metrics"
	"github.com/spigell/team-matcher/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel      = "gemini-2.0-flash"
	defaultMaxRetries = 3
	defaultCacheSize  = 256
	retryBaseDelay    = 2 * time.Second
	maxQuotaDelay     = 30 * time.Second
)

var sleep = utils.WaitFor

var quotaDelayPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures a Generator.
type Config struct {
	APIKey     string
	Model      string
	MaxRetries int
	// CacheSize bounds the response cache. Zero selects the default, a
	// negative value disables caching.
	CacheSize int
}

// Generator wraps the Google GenAI client to provide prompt-based calls with
// retries and a response cache.
type Generator struct {
	models     contentModels
	model      string
	maxRetries int
	cache      *lru.Cache[string, string]
	logger     *zap.Logger
	metrics    *metrics.Manager
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, log *zap.Logger, m *metrics.Manager) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, cfg, log, m)
}

func newGenerator(models contentModels, cfg Config, log *zap.Logger, m *metrics.Manager) (*Generator, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	g := &Generator{
		models:     models,
		model:      model,
		maxRetries: retries,
		logger:     logger.WithCommonFields(log, "gemini", model),
		metrics:    m,
	}

	size := cfg.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[string, string](size)
		if err != nil {
			return nil, fmt.Errorf("create response cache: %w", err)
		}
		g.cache = cache
	}

	return g, nil
}

// GenerateContent sends the prompt with the system instruction and returns
// the concatenated text of the first response.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	key := cacheKey(g.model, system, prompt)
	if g.cache != nil {
		if cached, ok := g.cache.Get(key); ok {
			g.logger.Debug("gemini response served from cache")
			g.metrics.ObserveAI("generate", metrics.OutcomeCached, 0)
			return cached, nil
		}
	}

	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		started := time.Now()
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
		if err == nil {
			output, textErr := responseText(resp)
			if textErr != nil {
				g.metrics.ObserveAI("generate", metrics.OutcomeError, time.Since(started))
				return "", textErr
			}
			g.metrics.ObserveAI("generate", metrics.OutcomeOK, time.Since(started))
			if g.cache != nil {
				g.cache.Add(key, output)
			}
			return output, nil
		}

		g.metrics.ObserveAI("generate", metrics.OutcomeError, time.Since(started))
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == g.maxRetries {
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryDelay reports whether err is temporary and how long to wait before
// the next attempt.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	apiErr, ok := asAPIError(err)
	if !ok {
		return 0, false
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if d, found := quotaDelay(apiErr.Message); found {
			if d > maxQuotaDelay {
				return 0, false
			}
			return d, true
		}
		return time.Duration(attempt) * retryBaseDelay, true
	case apiErr.Code >= http.StatusInternalServerError:
		return time.Duration(attempt) * retryBaseDelay, true
	default:
		return 0, false
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}

func quotaDelay(message string) (time.Duration, bool) {
	match := quotaDelayPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

func cacheKey(model, system, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + system + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
