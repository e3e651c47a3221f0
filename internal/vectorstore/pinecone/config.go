package pinecone

import (
	"fmt"
	"time"
)

// Config holds connection settings for a Pinecone index.
// IndexHost is discovered through the control plane when left empty.
type Config struct {
	APIKey          string
	IndexName       string
	Dimension       int
	Metric          string
	Cloud           string
	Region          string
	ControlPlaneURL string
	IndexHost       string
	Timeout         time.Duration
}

// DefaultConfig returns a config with the service defaults applied.
func DefaultConfig() *Config {
	return &Config{
		IndexName:       "medical-chatbot",
		Dimension:       384,
		Metric:          "cosine",
		Cloud:           "aws",
		Region:          "us-east-1",
		ControlPlaneURL: "https://api.pinecone.io",
		Timeout:         30 * time.Second,
	}
}

// Validate checks that the config can produce a working client.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("pinecone API key is required")
	}
	if c.IndexName == "" {
		return fmt.Errorf("pinecone index name is required")
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("pinecone dimension must be positive")
	}
	return nil
}

func (c *Config) withDefaults() {
	if c.Metric == "" {
		c.Metric = "cosine"
	}
	if c.Cloud == "" {
		c.Cloud = "aws"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.ControlPlaneURL == "" {
		c.ControlPlaneURL = "https://api.pinecone.io"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}
