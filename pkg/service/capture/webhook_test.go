package capture_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/charforge/pkg/service/capture"
)

func TestWebhook_Capture(t *testing.T) {
	t.Run("posts prompt and speak flag", func(t *testing.T) {
		var got struct {
			Prompt string `json:"prompt"`
			Speak  bool   `json:"speak"`
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.Method).Equal(http.MethodPost)
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"output":"saved to journal"}`))
		}))
		defer srv.Close()

		c := capture.NewWebhook(srv.URL, 5*time.Second)
		result, err := c.Capture(context.Background(), "a prompt", true)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Output).Equal("saved to journal")
		gt.Value(t, got.Prompt).Equal("a prompt")
		gt.Bool(t, got.Speak).True()
	})

	t.Run("empty body is accepted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := capture.NewWebhook(srv.URL, 5*time.Second)
		result, err := c.Capture(context.Background(), "a prompt", false)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Output).Equal("")
	})

	t.Run("non 2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "camera busy", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := capture.NewWebhook(srv.URL, 5*time.Second)
		_, err := c.Capture(context.Background(), "a prompt", false)
		gt.Value(t, err).NotNil()
	})

	t.Run("unreachable device is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		c := capture.NewWebhook(url, time.Second)
		_, err := c.Capture(context.Background(), "a prompt", false)
		gt.Value(t, err).NotNil()
	})
}
