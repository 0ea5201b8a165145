package coach

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/anabelic/gymtracker/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	systemMessage = "You are a fitness coach providing constructive feedback"

	oneHour             = 60 * 60
	feedbackCacheExpire = oneHour * 1 // default expire in hours
)

// Client talks to an OpenAI compatible chat completions endpoint. One
// prompt in, one feedback text out. Identical prompts within the cache
// window are served from cache without touching the provider.
type Client struct {
	cache      *freecache.Cache
	baseURL    string // https://api.openai.com/v1
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	return &Client{
		cache:      freecache.NewCache(cacheSize),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateFeedback sends the prompt to the chat completions endpoint and
// returns the first choice's message content. No retries, the caller
// decides what a failed call means.
func (c *Client) GenerateFeedback(ctx context.Context, prompt string) (feedback string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coachClient.generateFeedback")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	promptHash := sha256.Sum256([]byte(prompt))
	cacheKey := promptHash[:]
	if cachedFeedback, err := c.cache.Get(cacheKey); err == nil {
		log.Tracef("coach client, found feedback in cache")
		return string(cachedFeedback), nil
	}

	reqBody, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, "POST",
		c.baseURL+"/chat/completions",
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat completions response bytes: %w", err)
	}

	var completionResp chatCompletionResponse
	if err := json.Unmarshal(respBytes, &completionResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal chat completions response bytes: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if completionResp.Error != nil {
			return "", fmt.Errorf(
				"chat completions status %d: %s [%s]",
				resp.StatusCode, completionResp.Error.Message, completionResp.Error.Type,
			)
		}
		return "", fmt.Errorf("chat completions status %d", resp.StatusCode)
	}

	if len(completionResp.Choices) == 0 {
		return "", errors.New("chat completions response has no choices")
	}

	feedback = completionResp.Choices[0].Message.Content

	if err := c.cache.Set(cacheKey, []byte(feedback), feedbackCacheExpire); err != nil {
		log.Errorf("coach client, failed to write feedback cache: %s", err)
	}

	return feedback, nil
}
