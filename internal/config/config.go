package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CohereConfig holds configuration for the Cohere embeddings client.
type CohereConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimension   int    `yaml:"dimension"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	Cohere *CohereConfig `yaml:"cohere,omitempty"`
}

// QdrantConfig contains connection details for the Qdrant vector store. The
// incidents and solutions collections live on the same instance.
type QdrantConfig struct {
	URL                 string `yaml:"url"`
	APIKeyEnv           string `yaml:"api_key_env"`
	IncidentsCollection string `yaml:"incidents_collection"`
	SolutionsCollection string `yaml:"solutions_collection"`
	TimeoutSecs         int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// GroqConfig holds configuration for the Groq chat client.
type GroqConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// LLMConfig selects and configures the chat model implementation.
type LLMConfig struct {
	Type string      `yaml:"type"`
	Groq *GroqConfig `yaml:"groq,omitempty"`
}

// PipelineConfig tunes the relevance classifier and analytics aggregator.
// Values are validated at pipeline construction, not clamped. The floor and
// ratio are pointers because zero is a valid setting for both; absence, not
// zero, triggers the default.
type PipelineConfig struct {
	ThresholdFloor      *float64 `yaml:"threshold_floor"`
	ThresholdMultiplier float64  `yaml:"threshold_multiplier"`
	KeywordMatchRatio   *float64 `yaml:"keyword_match_ratio"`
	MinKeywordLength    int      `yaml:"min_keyword_length"`
	TopResolvers        int      `yaml:"top_resolvers"`
	TopGroups           int      `yaml:"top_groups"`
	TopCIClasses        int      `yaml:"top_ci_classes"`
}

// RetrievalConfig bounds the vector searches per query.
type RetrievalConfig struct {
	TopK         int `yaml:"top_k"`
	SolutionTopK int `yaml:"solution_top_k"`
}

// ChunkerConfig configures how solution documents are split for upload.
type ChunkerConfig struct {
	WordsPerChunk int `yaml:"words_per_chunk"`
	OverlapWords  int `yaml:"overlap_words"`
}

// SummarizerConfig bounds the closure-notes digest.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// ServerConfig configures the HTTP API binary.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	LLM         LLMConfig         `yaml:"llm"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Server      ServerConfig      `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then
// ~/.config/incident-assist/config.yaml. If neither exists, it writes
// defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func ptr[T any](v T) *T { return &v }

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "incident-assist", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:    EmbedderConfig{Type: "cohere", Cohere: &CohereConfig{}},
		VectorStore: VectorStoreConfig{Type: "qdrant", Qdrant: &QdrantConfig{}},
		LLM:         LLMConfig{Type: "groq", Groq: &GroqConfig{}},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "cohere"
	}
	if cfg.Embedder.Type == "cohere" {
		if cfg.Embedder.Cohere == nil {
			cfg.Embedder.Cohere = &CohereConfig{}
		}
		c := cfg.Embedder.Cohere
		if c.BaseURL == "" {
			c.BaseURL = "https://api.cohere.ai"
		}
		if c.APIKeyEnv == "" {
			c.APIKeyEnv = "COHERE_API_KEY"
		}
		if c.Model == "" {
			c.Model = "embed-v4.0"
		}
		if c.Dimension == 0 {
			c.Dimension = 1536
		}
		if c.TimeoutSecs == 0 {
			c.TimeoutSecs = 15
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "qdrant"
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		q := cfg.VectorStore.Qdrant
		if q.APIKeyEnv == "" {
			q.APIKeyEnv = "QDRANT_API_KEY"
		}
		if q.IncidentsCollection == "" {
			q.IncidentsCollection = "office_incidents"
		}
		if q.SolutionsCollection == "" {
			q.SolutionsCollection = "solutions_guide"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}
	if cfg.LLM.Type == "" {
		cfg.LLM.Type = "groq"
	}
	if cfg.LLM.Type == "groq" {
		if cfg.LLM.Groq == nil {
			cfg.LLM.Groq = &GroqConfig{}
		}
		g := cfg.LLM.Groq
		if g.BaseURL == "" {
			g.BaseURL = "https://api.groq.com/openai/v1"
		}
		if g.APIKeyEnv == "" {
			g.APIKeyEnv = "GROQ_API_KEY"
		}
		if g.Model == "" {
			g.Model = "llama3-70b-8192"
		}
		if g.Temperature == 0 {
			g.Temperature = 0.3
		}
		if g.MaxTokens == 0 {
			g.MaxTokens = 2048
		}
		if g.TimeoutSecs == 0 {
			g.TimeoutSecs = 30
		}
	}
	if cfg.Pipeline.ThresholdFloor == nil {
		cfg.Pipeline.ThresholdFloor = ptr(0.6)
	}
	if cfg.Pipeline.ThresholdMultiplier == 0 {
		cfg.Pipeline.ThresholdMultiplier = 0.7
	}
	if cfg.Pipeline.KeywordMatchRatio == nil {
		cfg.Pipeline.KeywordMatchRatio = ptr(0.3)
	}
	if cfg.Pipeline.MinKeywordLength == 0 {
		cfg.Pipeline.MinKeywordLength = 3
	}
	if cfg.Pipeline.TopResolvers == 0 {
		cfg.Pipeline.TopResolvers = 10
	}
	if cfg.Pipeline.TopGroups == 0 {
		cfg.Pipeline.TopGroups = 8
	}
	if cfg.Pipeline.TopCIClasses == 0 {
		cfg.Pipeline.TopCIClasses = 6
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 10
	}
	if cfg.Retrieval.SolutionTopK == 0 {
		cfg.Retrieval.SolutionTopK = 1
	}
	if cfg.Chunker.WordsPerChunk == 0 {
		cfg.Chunker.WordsPerChunk = 500
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 10
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}
