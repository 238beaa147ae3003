package capture

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/patrickmn/go-cache"
	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/utils/logging"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultCacheTTL = 30 * time.Minute
	DefaultInterval = 2 * time.Second
)

// LLM captures a prompt by asking a language model to describe the resulting
// character portrait. Identical prompts are served from cache and concurrent
// duplicates share one request.
type LLM struct {
	client  gollem.LLMClient
	cache   *cache.Cache
	limiter *rate.Limiter
	group   singleflight.Group
}

var _ interfaces.Capturer = &LLM{}

type LLMOption func(*llmConfig)

type llmConfig struct {
	cacheTTL time.Duration
	interval time.Duration
}

// WithCacheTTL sets how long results are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) LLMOption {
	return func(c *llmConfig) {
		c.cacheTTL = ttl
	}
}

// WithInterval sets the minimum interval between model requests. Zero
// disables rate limiting.
func WithInterval(interval time.Duration) LLMOption {
	return func(c *llmConfig) {
		c.interval = interval
	}
}

func NewLLM(client gollem.LLMClient, opts ...LLMOption) *LLM {
	cfg := llmConfig{
		cacheTTL: DefaultCacheTTL,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &LLM{client: client}
	if cfg.cacheTTL > 0 {
		c.cache = cache.New(cfg.cacheTTL, 2*cfg.cacheTTL)
	}
	if cfg.interval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(cfg.interval), 1)
	}
	return c
}

func (c *LLM) Capture(ctx context.Context, prompt string, speak bool) (*model.CaptureResult, error) {
	if c.client == nil {
		return nil, goerr.Wrap(model.ErrCaptureUnavailable, "LLM client is not configured")
	}

	key := cacheKey(prompt, speak)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			logging.From(ctx).Debug("capture served from cache", "speak", speak)
			return &model.CaptureResult{Output: v.(string)}, nil
		}
	}

	// The shared call outlives any single caller; each waiter gives up on its own ctx.
	genCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.generate(genCtx, prompt, speak)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, goerr.Wrap(ctx.Err(), "capture canceled while waiting for generation")
	}
	if res.Err != nil {
		return nil, res.Err
	}
	output := res.Val.(string)
	shared := res.Shared

	if c.cache != nil {
		c.cache.SetDefault(key, output)
	}
	logging.From(ctx).Debug("capture generated", "speak", speak, "shared", shared)

	return &model.CaptureResult{Output: output}, nil
}

func (c *LLM) generate(ctx context.Context, prompt string, speak bool) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", goerr.Wrap(err, "capture rate limiter aborted")
		}
	}

	session, err := c.client.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildInstruction(prompt, speak)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate capture")
	}

	output := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if output == "" {
		return "", goerr.New("LLM returned an empty capture")
	}
	return output, nil
}

func buildInstruction(prompt string, speak bool) string {
	var b strings.Builder
	b.WriteString("You are the magic mirror of a fantasy character creator. ")
	b.WriteString("Follow the request below and describe, in vivid detail and in under 150 words, the finished portrait of the transformed subject.\n")
	if speak {
		b.WriteString("Write it as a short narration meant to be read aloud, in second person.\n")
	}
	b.WriteString("\nRequest: ")
	b.WriteString(prompt)
	return b.String()
}

func cacheKey(prompt string, speak bool) string {
	if speak {
		return "speak:" + prompt
	}
	return "plain:" + prompt
}
