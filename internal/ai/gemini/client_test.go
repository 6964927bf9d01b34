package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeModels struct {
	mu    sync.Mutex
	calls []modelCall
	queue []fakeResponse
}

type modelCall struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var prompt string
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		prompt = contents[0].Parts[0].Text
	}
	f.calls = append(f.calls, modelCall{model: model, prompt: prompt, config: config})

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	original := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { sleep = original })
	return &delays
}

func newTestGenerator(t *testing.T, models contentModels, retries, cacheSize int) *Generator {
	t.Helper()
	g, err := newGenerator(models, Config{Model: "gemini-pro", MaxRetries: retries, CacheSize: cacheSize}, zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("newGenerator: %v", err)
	}
	return g
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	delays := stubSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("retry ok"), nil)

	g := newTestGenerator(t, models, 2, -1)

	output, err := g.GenerateContent(context.Background(), "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}

	if len(*delays) != 1 || (*delays)[0] != retryBaseDelay {
		t.Fatalf("expected one backoff of %s, got %v", retryBaseDelay, *delays)
	}

	for _, call := range models.calls {
		if call.model != "gemini-pro" {
			t.Fatalf("unexpected model: %q", call.model)
		}
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if call.prompt != "message" {
			t.Fatalf("unexpected prompt: %q", call.prompt)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	stubSleep(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	g := newTestGenerator(t, models, 2, -1)

	_, err := g.GenerateContent(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	delays := stubSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	g := newTestGenerator(t, models, 3, -1)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
	if len(*delays) != 0 {
		t.Fatalf("expected no sleeps, got %v", *delays)
	}
}

func TestGeneratorHonoursShortQuotaDelay(t *testing.T) {
	delays := stubSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 1.5s."})
	models.enqueue(textResponse("ok"), nil)

	g := newTestGenerator(t, models, 3, -1)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*delays) != 1 || (*delays)[0] != 1500*time.Millisecond {
		t.Fatalf("expected a 1.5s delay, got %v", *delays)
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	stubSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newTestGenerator(t, models, 3, -1)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorCachesResponses(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse(`{"a": 1}`), nil)

	g := newTestGenerator(t, models, 1, 8)

	for i := 0; i < 2; i++ {
		out, err := g.GenerateContent(context.Background(), "sys", "same prompt")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if out != `{"a": 1}` {
			t.Fatalf("call %d: unexpected output %q", i, out)
		}
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected cached second call, got %d model calls", len(models.calls))
	}
}

func TestGeneratorRejectsEmptyInput(t *testing.T) {
	g := newTestGenerator(t, &fakeModels{}, 1, -1)

	if _, err := g.GenerateContent(context.Background(), "sys", "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	var nilGen *Generator
	if _, err := nilGen.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for nil generator")
	}
	if nilGen.Model() != "" {
		t.Fatal("expected empty model for nil generator")
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil, {}}}, nil)

	g := newTestGenerator(t, models, 1, -1)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), Config{APIKey: "  "}, nil, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}
