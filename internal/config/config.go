package config

import "time"

// Config holds all application configuration.
type Config struct {
	Hub     Hub     `mapstructure:"hub"`
	Links   Links   `mapstructure:"links"`
	Reader  Reader  `mapstructure:"reader"`
	LLM     LLM     `mapstructure:"llm"`
	Storage Storage `mapstructure:"storage"`
	Index   Index   `mapstructure:"index"`
	MCP     MCP     `mapstructure:"mcp"`
}

// Hub holds model registry configuration.
type Hub struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Links holds URL filtering configuration.
type Links struct {
	ExcludedHosts []string `mapstructure:"excluded_hosts"`
}

// Reader holds link enrichment configuration.
type Reader struct {
	ProxyBaseURL     string        `mapstructure:"proxy_base_url"`
	ProxyAPIKey      string        `mapstructure:"proxy_api_key"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Interval         time.Duration `mapstructure:"interval"`
	DirectFallback   bool          `mapstructure:"direct_fallback"`
	UserAgent        string        `mapstructure:"user_agent"`
	TryMarkdownFirst bool          `mapstructure:"try_markdown_first"`
}

// LLM holds summarization configuration.
type LLM struct {
	BaseURL   string        `mapstructure:"base_url"`
	Token     string        `mapstructure:"token"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int           `mapstructure:"max_tokens"`
}

// Storage holds S3/MinIO archive configuration.
type Storage struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Index holds Elasticsearch configuration for report search.
type Index struct {
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Hub: Hub{
			BaseURL: "https://huggingface.co",
			Timeout: 30 * time.Second,
		},
		Links: Links{
			ExcludedHosts: []string{
				"arxiv.org",
				"ar5iv.org",
				"colab.research.google.com",
				"github.com",
			},
		},
		Reader: Reader{
			ProxyBaseURL:     "https://r.jina.ai",
			Timeout:          15 * time.Second,
			Interval:         4100 * time.Millisecond, // ~15 requests/minute
			DirectFallback:   true,
			UserAgent:        "model-info-extractor/1.0",
			TryMarkdownFirst: true, // Try markdown versions of pages first
		},
		LLM: LLM{
			BaseURL: "https://router.huggingface.co/v1",
			Model:   "CohereLabs/c4ai-command-a-03-2025",
			Timeout: 120 * time.Second,
		},
		Storage: Storage{
			Endpoint:        "", // Archiving disabled unless an endpoint is set
			Bucket:          "model-info-extractor",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			UseSSL:          false,
		},
		Index: Index{
			Addresses: nil, // Search disabled unless addresses are set
			Index:     "model-reports",
		},
		MCP: MCP{
			Name:    "model-info-extractor",
			Version: "1.0.0",
		},
	}
}
