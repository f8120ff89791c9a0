package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Summarizer    SummarizerConfig    `yaml:"summarizer"`
	Notion        NotionConfig        `yaml:"notion"`
	Paths         PathsConfig         `yaml:"paths"`
	Logging       LoggingConfig       `yaml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance"`
	Metrics       MetricsConfig       `yaml:"metrics"`

	Secrets Secrets `yaml:"-"`
}

type PipelineConfig struct {
	PollIntervalSeconds int  `yaml:"poll_interval_seconds"`
	PollDeadlineSeconds int  `yaml:"poll_deadline_seconds"`
	ChunkMaxChars       int  `yaml:"chunk_max_chars"`
	SpeakerDiarization  bool `yaml:"speaker_diarization"`
}

type TranscriptionConfig struct {
	BaseURL string `yaml:"base_url"`
}

type SummarizerConfig struct {
	Model string `yaml:"model"`
}

type NotionConfig struct {
	BaseURL    string `yaml:"base_url"`
	DatabaseID string `yaml:"database_id"`
}

type PathsConfig struct {
	New        string `yaml:"new"`
	Processing string `yaml:"processing"`
	Completed  string `yaml:"completed"`
	Failed     string `yaml:"failed"`
	Output     string `yaml:"output"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Secrets are read from the environment only, never from the config file.
type Secrets struct {
	TranscriptionAPIKey string   `envconfig:"ASSEMBLYAI_API_KEY"`
	GeminiAPIKeys       []string `envconfig:"GEMINI_API_KEYS"`
	NotionToken         string   `envconfig:"NOTION_API_TOKEN"`
}

// Load reads the YAML config file, merges environment secrets and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := envconfig.Process("", &cfg.Secrets); err != nil {
		return nil, fmt.Errorf("read secrets from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.New == "" {
		return fmt.Errorf("paths.new is required")
	}
	if c.Paths.Processing == "" {
		return fmt.Errorf("paths.processing is required")
	}
	if c.Paths.Completed == "" {
		return fmt.Errorf("paths.completed is required")
	}
	if c.Paths.Failed == "" {
		return fmt.Errorf("paths.failed is required")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id is required")
	}
	if c.Pipeline.ChunkMaxChars < 0 {
		return fmt.Errorf("pipeline.chunk_max_chars must be positive")
	}

	if c.Pipeline.PollIntervalSeconds == 0 {
		c.Pipeline.PollIntervalSeconds = 30
	}
	if c.Pipeline.PollDeadlineSeconds == 0 {
		c.Pipeline.PollDeadlineSeconds = 600
	}
	if c.Pipeline.ChunkMaxChars == 0 {
		c.Pipeline.ChunkMaxChars = 2000
	}
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://api.assemblyai.com"
	}
	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = "https://api.notion.com"
	}
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "gemini-2.5-flash"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// PollInterval is the wait between transcription status queries.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Pipeline.PollIntervalSeconds) * time.Second
}

// PollDeadline is the total time allowed for a transcription job to finish.
func (c *Config) PollDeadline() time.Duration {
	return time.Duration(c.Pipeline.PollDeadlineSeconds) * time.Second
}
