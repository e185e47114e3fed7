package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/atci/internal/logger"
)

const (
	defaultModel = "gemini-2.5-flash"
	defaultRPM   = 10
)

type geminiGenerator struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	limiter    *rate.Limiter
	logger     logger.Logger
}

func newGemini(opts Options, log logger.Logger) *geminiGenerator {
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	rpm := opts.RequestsPerMinute
	if rpm <= 0 {
		rpm = defaultRPM
	}
	return &geminiGenerator{
		apiKeys: opts.APIKeys,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		logger:  log,
	}
}

// Generate sends prompt to Gemini and returns the text of the first
// candidate. Rotates API keys on 429 / quota errors.
func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var lastErr error
	for range len(g.apiKeys) {
		key, idx := g.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if text := responseText(result); text != "" {
			return text, nil
		}
		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiGenerator) key() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

func (g *geminiGenerator) rotateKey() {
	g.mu.Lock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	g.mu.Unlock()
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
