package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
	"github.com/secmon-lab/charforge/pkg/domain/model"
	"github.com/secmon-lab/charforge/pkg/utils/safe"
)

// Webhook forwards the prompt to a capture device bridge over HTTP. The
// bridge answers 2xx with an optional {"output": "..."} body.
type Webhook struct {
	url    string
	client *http.Client
}

var _ interfaces.Capturer = &Webhook{}

type webhookRequest struct {
	Prompt string `json:"prompt"`
	Speak  bool   `json:"speak"`
}

type webhookResponse struct {
	Output string `json:"output"`
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *Webhook) Capture(ctx context.Context, prompt string, speak bool) (*model.CaptureResult, error) {
	body, err := json.Marshal(webhookRequest{Prompt: prompt, Speak: speak})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode capture request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build capture request", goerr.V("url", w.url))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "capture device unreachable", goerr.V("url", w.url))
	}
	defer safe.Close(ctx, resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read capture response", goerr.V("url", w.url))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.New("capture device rejected the prompt",
			goerr.V("url", w.url),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)))
	}

	var out webhookResponse
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, goerr.Wrap(err, "invalid capture response", goerr.V("body", string(data)))
		}
	}

	return &model.CaptureResult{Output: out.Output}, nil
}
