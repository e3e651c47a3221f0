package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient asks questions over the service's /get endpoint.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Ask posts the question and returns the plain-text answer body.
// Error responses carry a JSON {error, details} body.
func (c *HTTPClient) Ask(question string) (string, error) {
	resp, err := c.client.PostForm(c.baseURL+"/get", url.Values{"msg": {question}})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Details != "" {
				return "", fmt.Errorf("%s: %s", apiErr.Error, apiErr.Details)
			}
			return "", fmt.Errorf("%s", apiErr.Error)
		}
		return "", fmt.Errorf("request failed: %s", resp.Status)
	}
	return string(body), nil
}
