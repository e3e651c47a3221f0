package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Port               int `yaml:"port"`
	RequestTimeoutSecs int `yaml:"request_timeout_secs"`
}

// IngestConfig configures the batch ingestion job.
type IngestConfig struct {
	DataDir string `yaml:"data_dir"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// EmbedderConfig configures the sentence-embedding endpoint.
type EmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimension   int    `yaml:"dimension"`
	BatchSize   int    `yaml:"batch_size"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PineconeConfig contains connection details for the Pinecone index.
// The API key itself comes only from the environment.
type PineconeConfig struct {
	APIKeyEnv       string `yaml:"api_key_env"`
	IndexName       string `yaml:"index_name"`
	Metric          string `yaml:"metric"`
	Cloud           string `yaml:"cloud"`
	Region          string `yaml:"region"`
	ControlPlaneURL string `yaml:"control_plane_url,omitempty"`
	TimeoutSecs     int    `yaml:"timeout_secs"`
}

// GroqConfig configures the hosted chat-completion model.
type GroqConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// RetrievalConfig configures similarity search at answer time.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Pinecone  PineconeConfig  `yaml:"pinecone"`
	Groq      GroqConfig      `yaml:"groq"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Default returns a configuration with every default applied and no file
// or environment input.
func Default() *AppConfig {
	var cfg AppConfig
	applyConfigDefaults(&cfg)
	return &cfg
}

// Load reads a config from the given path. A missing file yields defaults.
// The PORT environment variable overrides the configured server port.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = n
		}
	}
	return &cfg, nil
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeoutSecs == 0 {
		cfg.Server.RequestTimeoutSecs = 90
	}
	if cfg.Ingest.DataDir == "" {
		cfg.Ingest.DataDir = "data"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 500
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 20
	}
	if cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = "http://localhost:8081/v1"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 384
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = 32
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Pinecone.APIKeyEnv == "" {
		cfg.Pinecone.APIKeyEnv = "PINECONE_API_KEY"
	}
	if cfg.Pinecone.IndexName == "" {
		cfg.Pinecone.IndexName = "medical-chatbot"
	}
	if cfg.Pinecone.Metric == "" {
		cfg.Pinecone.Metric = "cosine"
	}
	if cfg.Pinecone.Cloud == "" {
		cfg.Pinecone.Cloud = "aws"
	}
	if cfg.Pinecone.Region == "" {
		cfg.Pinecone.Region = "us-east-1"
	}
	if cfg.Pinecone.TimeoutSecs == 0 {
		cfg.Pinecone.TimeoutSecs = 30
	}
	if cfg.Groq.BaseURL == "" {
		cfg.Groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Groq.APIKeyEnv == "" {
		cfg.Groq.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Groq.TimeoutSecs == 0 {
		cfg.Groq.TimeoutSecs = 60
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
}
