package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Vaibhavs10/model-info-extractor/internal/config"
	"github.com/Vaibhavs10/model-info-extractor/internal/hub"
	"github.com/Vaibhavs10/model-info-extractor/internal/index"
	"github.com/Vaibhavs10/model-info-extractor/internal/llm"
	"github.com/Vaibhavs10/model-info-extractor/internal/pipeline"
	"github.com/Vaibhavs10/model-info-extractor/internal/ratelimit"
	"github.com/Vaibhavs10/model-info-extractor/internal/reader"
	"github.com/Vaibhavs10/model-info-extractor/internal/storage"
	"github.com/Vaibhavs10/model-info-extractor/internal/summary"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "model-info-extractor",
	Short: "Model card link summarizer",
	Long: `model-info-extractor fetches a model card from the Hugging Face Hub,
extracts the external links it references, pulls a readable version of
each linked page, and asks an LLM for a concise technical summary.

Commands:
  inspect  Inspect a model card and summarize its links
  serve    Start the MCP server for model card inspection`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/model-info-extractor")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// MODELINFO_HUB_TOKEN -> hub.token
	viper.SetEnvPrefix("MODELINFO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars. The hub token also honors the
	// plain HF_TOKEN the hf CLI and friends already export.
	viper.BindEnv("hub.base_url", "MODELINFO_HUB_BASE_URL")
	viper.BindEnv("hub.token", "MODELINFO_HUB_TOKEN", "HF_TOKEN")
	viper.BindEnv("links.excluded_hosts", "MODELINFO_LINKS_EXCLUDED_HOSTS")
	viper.BindEnv("reader.proxy_base_url", "MODELINFO_READER_PROXY_BASE_URL")
	viper.BindEnv("reader.proxy_api_key", "MODELINFO_READER_PROXY_API_KEY")
	viper.BindEnv("reader.interval", "MODELINFO_READER_INTERVAL")
	viper.BindEnv("reader.direct_fallback", "MODELINFO_READER_DIRECT_FALLBACK")
	viper.BindEnv("llm.base_url", "MODELINFO_LLM_BASE_URL")
	viper.BindEnv("llm.token", "MODELINFO_LLM_TOKEN")
	viper.BindEnv("llm.model", "MODELINFO_LLM_MODEL")
	viper.BindEnv("storage.endpoint", "MODELINFO_STORAGE_ENDPOINT")
	viper.BindEnv("storage.bucket", "MODELINFO_STORAGE_BUCKET")
	viper.BindEnv("storage.access_key_id", "MODELINFO_STORAGE_ACCESS_KEY_ID")
	viper.BindEnv("storage.secret_access_key", "MODELINFO_STORAGE_SECRET_ACCESS_KEY")
	viper.BindEnv("index.addresses", "MODELINFO_INDEX_ADDRESSES")
	viper.BindEnv("index.index", "MODELINFO_INDEX_INDEX")
	viper.BindEnv("index.username", "MODELINFO_INDEX_USERNAME")
	viper.BindEnv("index.password", "MODELINFO_INDEX_PASSWORD")
	viper.BindEnv("mcp.name", "MODELINFO_MCP_NAME")
	viper.BindEnv("mcp.version", "MODELINFO_MCP_VERSION")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Handle special case: list values as comma-separated strings from env
	if addrs := os.Getenv("MODELINFO_INDEX_ADDRESSES"); addrs != "" {
		cfg.Index.Addresses = strings.Split(addrs, ",")
	}
	if hosts := os.Getenv("MODELINFO_LINKS_EXCLUDED_HOSTS"); hosts != "" {
		cfg.Links.ExcludedHosts = strings.Split(hosts, ",")
	}
}

// buildPipeline wires the inspection pipeline from configuration. Optional
// stages (summarization, archiving, indexing) stay off unless configured.
// The index client is also returned for commands that query it directly.
func buildPipeline(cfg config.Config) (*pipeline.Pipeline, *index.Client, error) {
	hubClient := hub.New(hub.Config{
		BaseURL: cfg.Hub.BaseURL,
		Token:   cfg.Hub.Token,
		Timeout: cfg.Hub.Timeout,
	})

	providers := []reader.Provider{
		reader.NewProxy(reader.ProxyConfig{
			BaseURL: cfg.Reader.ProxyBaseURL,
			APIKey:  cfg.Reader.ProxyAPIKey,
			Timeout: cfg.Reader.Timeout,
		}),
	}
	if cfg.Reader.DirectFallback {
		providers = append(providers, reader.NewDirect(reader.DirectConfig{
			UserAgent:        cfg.Reader.UserAgent,
			Timeout:          cfg.Reader.Timeout,
			TryMarkdownFirst: cfg.Reader.TryMarkdownFirst,
		}))
	}

	enricher, err := reader.New(reader.Config{
		Providers: providers,
		Limiter:   ratelimit.New(cfg.Reader.Interval),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create enricher: %w", err)
	}

	// The LLM token falls back to the hub token so one HF_TOKEN covers
	// both card access and summarization.
	llmToken := cfg.LLM.Token
	if llmToken == "" {
		llmToken = cfg.Hub.Token
	}

	var summarizer *summary.Summarizer
	if llmToken != "" {
		llmClient, err := llm.New(llm.Config{
			BaseURL:   cfg.LLM.BaseURL,
			Token:     llmToken,
			Model:     cfg.LLM.Model,
			Timeout:   cfg.LLM.Timeout,
			MaxTokens: cfg.LLM.MaxTokens,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		summarizer = summary.New(llmClient)
	}

	var storageClient *storage.Client
	if cfg.Storage.Endpoint != "" {
		storageClient, err = storage.New(storage.Config{
			Endpoint:        cfg.Storage.Endpoint,
			Bucket:          cfg.Storage.Bucket,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UseSSL:          cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	indexClient, err := buildIndexClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.New(pipeline.Config{
		Hub:           hubClient,
		Enricher:      enricher,
		Summarizer:    summarizer,
		Storage:       storageClient,
		Index:         indexClient,
		ExcludedHosts: cfg.Links.ExcludedHosts,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return p, indexClient, nil
}

// buildIndexClient creates the report index client, or nil when no
// addresses are configured.
func buildIndexClient(cfg config.Config) (*index.Client, error) {
	if len(cfg.Index.Addresses) == 0 {
		return nil, nil
	}

	indexClient, err := index.New(index.Config{
		Addresses: cfg.Index.Addresses,
		Index:     cfg.Index.Index,
		Username:  cfg.Index.Username,
		Password:  cfg.Index.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index client: %w", err)
	}
	return indexClient, nil
}
