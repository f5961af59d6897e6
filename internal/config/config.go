package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig   `yaml:"server"`
	Database     DatabaseConfig `yaml:"database"`
	EmbedLLM     LLMConfig      `yaml:"embed_llm"`
	InferenceLLM LLMConfig      `yaml:"inference_llm"`
	RAG          RAGConfig      `yaml:"rag"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	URL   string `yaml:"url"`
	Key   string `yaml:"key"`
	Debug bool   `yaml:"debug"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type RAGConfig struct {
	DBPath         string `yaml:"db_path"`
	Collection     string `yaml:"collection"`
	EncryptionKey  string `yaml:"encryption_key"`
	ChunkSize      int    `yaml:"chunk_size"`
	ChunkOverlap   int    `yaml:"chunk_overlap"`
	SearchTopK     int    `yaml:"search_top_k"` // chunk hits fetched per vector query
	ResultTopK     int    `yaml:"result_top_k"` // aggregated candidates returned
	MaxIterations  int    `yaml:"max_iterations"`
	StepTimeoutSec int    `yaml:"step_timeout_sec"`
}

const (
	defaultAddr          = ":8000"
	defaultDBPath        = "./chromemdb"
	defaultCollection    = "cv_collection"
	defaultChunkSize     = 1000 // characters
	defaultChunkOverlap  = 200  // characters
	defaultSearchTopK    = 50
	defaultResultTopK    = 10
	defaultMaxIterations = 8
	defaultStepTimeout   = 60 // seconds
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.RAG.DBPath == "" {
		c.RAG.DBPath = defaultDBPath
	}
	if c.RAG.Collection == "" {
		c.RAG.Collection = defaultCollection
	}
	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap <= 0 {
		c.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if c.RAG.SearchTopK <= 0 {
		c.RAG.SearchTopK = defaultSearchTopK
	}
	if c.RAG.ResultTopK <= 0 {
		c.RAG.ResultTopK = defaultResultTopK
	}
	if c.RAG.MaxIterations <= 0 {
		c.RAG.MaxIterations = defaultMaxIterations
	}
	if c.RAG.StepTimeoutSec <= 0 {
		c.RAG.StepTimeoutSec = defaultStepTimeout
	}
}

// StepTimeout bounds any single collaborator call (model, index, external
// lookup).
func (c *Config) StepTimeout() time.Duration {
	return time.Duration(c.RAG.StepTimeoutSec) * time.Second
}
