package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"medichat/internal/domain"
	"medichat/internal/vectorstore"
)

// upsertBatchSize is the Pinecone per-request vector limit.
const upsertBatchSize = 100

// Client is a REST client for a single Pinecone serverless index.
// It implements vectorstore.Store once Connect has resolved the index host.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *logrus.Logger
	indexHost  string
}

func NewClient(config *Config, logger *logrus.Logger) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
		indexHost:  normalizeHost(config.IndexHost),
	}, nil
}

// EnsureIndex creates the index when it does not exist yet and is a no-op
// otherwise. Used by the batch ingestion job only.
func (c *Client) EnsureIndex(ctx context.Context) error {
	exists, err := c.indexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		c.logger.WithField("index", c.config.IndexName).Info("Pinecone index already exists")
		return nil
	}

	body := map[string]any{
		"name":      c.config.IndexName,
		"dimension": c.config.Dimension,
		"metric":    c.config.Metric,
		"spec": map[string]any{
			"serverless": map[string]any{
				"cloud":  c.config.Cloud,
				"region": c.config.Region,
			},
		},
	}
	if _, err := c.doRequest(ctx, http.MethodPost, c.config.ControlPlaneURL+"/indexes", body); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	c.logger.WithField("index", c.config.IndexName).Info("Pinecone index created")
	return nil
}

// Connect resolves the index data-plane host and verifies the index
// configuration matches what this service expects.
func (c *Client) Connect(ctx context.Context) error {
	respBody, err := c.doRequest(ctx, http.MethodGet, c.describeURL(), nil)
	if err != nil {
		return fmt.Errorf("index %q not found: %w", c.config.IndexName, err)
	}

	var desc struct {
		Host      string `json:"host"`
		Dimension int    `json:"dimension"`
		Metric    string `json:"metric"`
	}
	if err := json.Unmarshal(respBody, &desc); err != nil {
		return fmt.Errorf("failed to parse index description: %w", err)
	}
	if desc.Dimension != 0 && desc.Dimension != c.config.Dimension {
		return fmt.Errorf("index dimension %d does not match expected %d", desc.Dimension, c.config.Dimension)
	}
	if desc.Host == "" {
		return fmt.Errorf("index description has no host")
	}
	c.indexHost = normalizeHost(desc.Host)
	c.logger.WithFields(logrus.Fields{
		"index": c.config.IndexName,
		"host":  c.indexHost,
	}).Info("Connected to Pinecone index")
	return nil
}

// Upsert writes entries to the index in batches. Entries with the same ID
// overwrite previous values.
func (c *Client) Upsert(ctx context.Context, entries []vectorstore.Entry) error {
	if c.indexHost == "" {
		return fmt.Errorf("not connected to index %q", c.config.IndexName)
	}
	for start := 0; start < len(entries); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		vectors := make([]map[string]any, 0, end-start)
		for _, e := range entries[start:end] {
			vectors = append(vectors, map[string]any{
				"id":       e.ID,
				"values":   e.Values,
				"metadata": e.Metadata,
			})
		}
		body := map[string]any{"vectors": vectors}
		if _, err := c.doRequest(ctx, http.MethodPost, c.indexHost+"/vectors/upsert", body); err != nil {
			return fmt.Errorf("failed to upsert vectors: %w", err)
		}
		c.logger.WithFields(logrus.Fields{
			"index": c.config.IndexName,
			"count": end - start,
		}).Debug("Upserted vector batch")
	}
	return nil
}

// Query returns the topK most similar chunks for the given vector,
// most relevant first.
func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]domain.ScoredChunk, error) {
	if c.indexHost == "" {
		return nil, fmt.Errorf("not connected to index %q", c.config.IndexName)
	}
	if topK <= 0 {
		topK = 3
	}
	body := map[string]any{
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
	}
	respBody, err := c.doRequest(ctx, http.MethodPost, c.indexHost+"/query", body)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	var out struct {
		Matches []struct {
			ID       string         `json:"id"`
			Score    float32        `json:"score"`
			Metadata map[string]any `json:"metadata"`
		} `json:"matches"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse query response: %w", err)
	}

	chunks := make([]domain.ScoredChunk, 0, len(out.Matches))
	for _, m := range out.Matches {
		meta := make(map[string]string, len(m.Metadata))
		var content string
		for k, v := range m.Metadata {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if k == "text" {
				content = s
				continue
			}
			meta[k] = s
		}
		chunks = append(chunks, domain.ScoredChunk{
			Document: domain.Document{Content: content, Metadata: meta},
			ID:       m.ID,
			Score:    m.Score,
		})
	}
	return chunks, nil
}

func (c *Client) indexExists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.describeURL(), nil)
	if err != nil {
		return false, err
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("describe index failed with status %d: %s", resp.StatusCode, string(payload))
	}
	return true, nil
}

func (c *Client) doRequest(ctx context.Context, method, url string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Api-Key", c.config.APIKey)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}

func (c *Client) describeURL() string {
	return c.config.ControlPlaneURL + "/indexes/" + c.config.IndexName
}

func normalizeHost(host string) string {
	if host == "" {
		return ""
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}
