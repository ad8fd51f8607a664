package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Generator interface {
	Generate(ctx context.Context, s Summary) (string, error)
}

// Client talks to an Ollama-compatible /api/generate endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.URL,
		model:      cfg.Model,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *Client) Generate(ctx context.Context, s Summary) (string, error) {
	req := generateRequest{
		Model:  c.model,
		Prompt: buildPrompt(s),
		Stream: false,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", fmt.Errorf("generator returned empty response")
	}
	return text, nil
}

// Ping checks the collaborator is reachable. Failure is never fatal; the
// report falls back to a canned narrative, so health reports degraded at
// worst.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generator returned status %d", resp.StatusCode)
	}
	return nil
}

func buildPrompt(s Summary) string {
	var b strings.Builder
	b.WriteString("Write a brief clinical observation summary for a therapy session. Numeric indicators only, no diagnosis.\n")
	fmt.Fprintf(&b, "Duration: %d minutes.\n", s.DurationSec/60)
	fmt.Fprintf(&b, "Average eye contact: %.0f%% (baseline %.0f%%).\n", s.AvgEyeContactPct, s.BaselineEyeContact)
	fmt.Fprintf(&b, "Average gaze stability: %.0f%%.\n", s.AvgGazeStabilityPct)
	fmt.Fprintf(&b, "Average breathing rate: %.1f bpm (baseline %.0f bpm).\n", s.AvgBreathingBpm, s.BaselineBreathingBpm)
	if s.DominantEmotion != "" {
		fmt.Fprintf(&b, "Dominant emotion: %s.\n", s.DominantEmotion)
	}
	if len(s.AlertMessages) > 0 {
		b.WriteString("Alerts raised during the session:\n")
		for _, msg := range s.AlertMessages {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	}
	return b.String()
}
