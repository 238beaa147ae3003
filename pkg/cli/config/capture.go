package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
	"github.com/secmon-lab/charforge/pkg/service/capture"
	"github.com/secmon-lab/charforge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Capture backend names
const (
	CaptureNone    = "none"
	CaptureGemini  = "gemini"
	CaptureWebhook = "webhook"
)

// Capture holds CLI flags selecting and tuning the capture backend
type Capture struct {
	backend        string
	cacheTTL       time.Duration
	interval       time.Duration
	webhookURL     string
	webhookTimeout time.Duration
	gemini         Gemini
}

// Flags returns CLI flags for capture configuration, including Gemini flags
func (c *Capture) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "capture-backend",
			Usage:       "Capture backend (none, gemini, webhook)",
			Value:       CaptureNone,
			Category:    "Capture",
			Sources:     cli.EnvVars("CHARFORGE_CAPTURE_BACKEND"),
			Destination: &c.backend,
		},
		&cli.DurationFlag{
			Name:        "capture-cache-ttl",
			Usage:       "How long identical prompts reuse a capture (gemini backend, 0 disables)",
			Value:       capture.DefaultCacheTTL,
			Category:    "Capture",
			Sources:     cli.EnvVars("CHARFORGE_CAPTURE_CACHE_TTL"),
			Destination: &c.cacheTTL,
		},
		&cli.DurationFlag{
			Name:        "capture-interval",
			Usage:       "Minimum interval between model requests (gemini backend, 0 disables)",
			Value:       capture.DefaultInterval,
			Category:    "Capture",
			Sources:     cli.EnvVars("CHARFORGE_CAPTURE_INTERVAL"),
			Destination: &c.interval,
		},
		&cli.StringFlag{
			Name:        "capture-webhook-url",
			Usage:       "Endpoint receiving {prompt, speak} (webhook backend)",
			Category:    "Capture",
			Sources:     cli.EnvVars("CHARFORGE_CAPTURE_WEBHOOK_URL"),
			Destination: &c.webhookURL,
		},
		&cli.DurationFlag{
			Name:        "capture-webhook-timeout",
			Usage:       "Timeout of a webhook capture request",
			Value:       30 * time.Second,
			Category:    "Capture",
			Sources:     cli.EnvVars("CHARFORGE_CAPTURE_WEBHOOK_TIMEOUT"),
			Destination: &c.webhookTimeout,
		},
	}
	return append(flags, c.gemini.Flags()...)
}

// LogAttrs returns log attributes for the capture configuration
func (c *Capture) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("backend", c.backend)}
	switch c.backend {
	case CaptureGemini:
		attrs = append(attrs,
			slog.Duration("cache_ttl", c.cacheTTL),
			slog.Duration("interval", c.interval),
		)
		attrs = append(attrs, c.gemini.LogAttrs()...)
	case CaptureWebhook:
		attrs = append(attrs,
			slog.String("url", c.webhookURL),
			slog.Duration("timeout", c.webhookTimeout),
		)
	}
	return attrs
}

// Configure returns the capturer for the configured backend, or nil for
// "none". A nil capturer makes generate fall back to the prompt.
func (c *Capture) Configure(ctx context.Context) (interfaces.Capturer, error) {
	switch c.backend {
	case CaptureNone, "":
		logging.From(ctx).Debug("Capture disabled, prompts are shown as text")
		return nil, nil

	case CaptureGemini:
		client, err := c.gemini.Configure(ctx)
		if err != nil {
			return nil, err
		}
		return capture.NewLLM(client,
			capture.WithCacheTTL(c.cacheTTL),
			capture.WithInterval(c.interval),
		), nil

	case CaptureWebhook:
		if c.webhookURL == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "capture-webhook-url is required when using webhook capture")
		}
		return capture.NewWebhook(c.webhookURL, c.webhookTimeout), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid capture backend", goerr.V("backend", c.backend))
	}
}
