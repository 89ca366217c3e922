package cohere

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"incidentassist/internal/embedding"
)

// Client calls the Cohere v2 embed endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	client     *http.Client
	maxRetries int
}

// Config configures the Cohere embeddings client. APIKey wins over APIKeyEnv
// when both are set.
type Config struct {
	BaseURL   string
	APIKey    string
	APIKeyEnv string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// NewClient creates an embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := cfg.APIKey
	if key == "" {
		if cfg.APIKeyEnv == "" {
			cfg.APIKeyEnv = "COHERE_API_KEY"
		}
		key = os.Getenv(cfg.APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cohere.ai"
	}
	if cfg.Model == "" {
		cfg.Model = "embed-v4.0"
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = 1536
	}
	t := cfg.Timeout
	if t == 0 {
		t = 15 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: t},
		maxRetries: 5,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "cohere" }

// Dimension returns the dimensionality the remote index was built with.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns a float embedding for the given text. The vector length is
// checked against the configured dimension so a model change cannot silently
// poison the index.
func (c *Client) Embed(text string, inputType embedding.InputType) ([]float64, error) {
	type reqBody struct {
		Model          string   `json:"model"`
		Texts          []string `json:"texts"`
		InputType      string   `json:"input_type"`
		EmbeddingTypes []string `json:"embedding_types"`
	}
	url := fmt.Sprintf("%s/v2/embed", c.baseURL)
	body := reqBody{
		Model:          c.model,
		Texts:          []string{text},
		InputType:      string(inputType),
		EmbeddingTypes: []string{"float"},
	}
	data, _ := json.Marshal(body)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			wait := retryDelay(attempt)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					wait = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("cohere embed failed: %s", resp.Status)
			if attempt < c.maxRetries {
				time.Sleep(wait)
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("cohere embed failed: %s", resp.Status)
		}

		var out struct {
			Embeddings struct {
				Float [][]float64 `json:"float"`
			} `json:"embeddings"`
		}
		err = json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if len(out.Embeddings.Float) == 0 || len(out.Embeddings.Float[0]) == 0 {
			return nil, fmt.Errorf("cohere embed returned no embedding")
		}
		vec := out.Embeddings.Float[0]
		if len(vec) != c.dimension {
			return nil, fmt.Errorf("expected embedding size %d, got %d", c.dimension, len(vec))
		}
		return vec, nil
	}
	return nil, lastErr
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
