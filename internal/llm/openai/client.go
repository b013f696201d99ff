package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"resume-scanner/internal/llm"
	"resume-scanner/internal/shared/util"
)

const maxAttempts = 3

// Client implements llm.Client against an Azure-style OpenAI deployment
// endpoint (api-key header, deployment path, api-version query).
type Client struct {
	endpoint        string
	apiKey          string
	deployment      string
	apiVersion      string
	maxPromptLength int
	httpClient      *http.Client
}

// NewClient constructs a new client. Endpoint and key are configuration,
// not transient state, so missing values fail here rather than per call.
func NewClient(endpoint, apiKey, deployment, apiVersion string, maxPromptLength int) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("OPENAI_ENDPOINT is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(deployment) == "" {
		return nil, fmt.Errorf("OPENAI_DEPLOYMENT is required")
	}
	if strings.TrimSpace(apiVersion) == "" {
		apiVersion = "2024-02-01"
	}
	if maxPromptLength <= 0 {
		maxPromptLength = 50000
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		endpoint:        strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		apiKey:          apiKey,
		deployment:      deployment,
		apiVersion:      apiVersion,
		maxPromptLength: maxPromptLength,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
		Text    string      `json:"text"`
	} `json:"choices"`
}

// StructuredJSON sends the resume text to the model and returns the first
// JSON object recovered from the reply. An empty result with a nil error
// means the model produced no usable JSON; only configuration problems and
// exhausted terminal HTTP failures surface as errors.
func (c *Client) StructuredJSON(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if len(text) > c.maxPromptLength {
		text = text[:c.maxPromptLength]
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)

	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: BuildInstruction(text)},
		},
		MaxTokens:   1024,
		Temperature: 0,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	body, err := c.sendWithRetries(ctx, url, payload)
	if err != nil {
		return "", err
	}
	return recoverJSON(body), nil
}

func (c *Client) sendWithRetries(ctx context.Context, url string, payload []byte) ([]byte, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "resume-scanner/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if attempt < maxAttempts {
				if err := c.wait(ctx, backoff(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("openai request to %s: %w", c.endpoint, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("openai read response: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			if attempt < maxAttempts {
				delay := backoff(attempt)
				if hinted, ok := retryAfter(resp); ok {
					delay = hinted
				}
				if err := c.wait(ctx, delay); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("openai endpoint %s returned %d after %d attempts: %s",
				c.endpoint, resp.StatusCode, maxAttempts, strings.TrimSpace(string(body)))
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("openai endpoint %s returned %d: %s",
				c.endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
		}

		return body, nil
	}
}

// recoverJSON pulls the first JSON object out of a chat-completions reply.
// When the envelope is present, only the assistant text is scanned; when the
// envelope is absent or unparsable, the raw body is scanned instead.
func recoverJSON(body []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Choices) > 0 {
		assistant := parsed.Choices[0].Message.Content
		if strings.TrimSpace(assistant) == "" {
			// Some deployments return "text" instead of message.content.
			assistant = parsed.Choices[0].Text
		}
		return strings.TrimSpace(util.FirstJSONObject(assistant))
	}
	return strings.TrimSpace(util.FirstJSONObject(string(body)))
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff returns 1s, 2s, 4s for attempts 1..3.
func backoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}

func retryAfter(resp *http.Response) (time.Duration, bool) {
	raw := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if raw == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}

var _ llm.Client = (*Client)(nil)
