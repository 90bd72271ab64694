// Package config handles run configuration for the analysis pipeline.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Languages lists the supported target-language selectors.
var Languages = []string{"english", "latin", "swedish", "german"}

// Defaults for unset fields.
const (
	DefaultResultsDir = "results"
	DefaultLanguage   = "english"
)

// Config holds one run's settings.
type Config struct {
	// Language selects which language's embeddings and output files the
	// run operates on. Must be one of Languages.
	Language string `yaml:"language"`

	// EmbeddingsPath is the bulk word-embeddings store produced by the
	// extract step. Defaults to embeddings_<language>.gob when empty.
	EmbeddingsPath string `yaml:"embeddings_path"`

	// ResultsDir receives every output artifact.
	ResultsDir string `yaml:"results_dir"`

	// OneEmbeddingPerSentence keeps only the first occurrence per
	// distinct sentence within a time slice.
	OneEmbeddingPerSentence bool `yaml:"one_embedding_per_sentence"`

	// Preference overrides the affinity propagation preference when
	// PreferenceSet is true; zero is a valid preference, hence the
	// explicit flag.
	Preference    float64 `yaml:"preference"`
	PreferenceSet bool    `yaml:"preference_set"`

	// RunDBSCAN enables the diagnostic density-based strategy.
	RunDBSCAN bool `yaml:"run_dbscan"`
}

// Default returns a config with default settings.
func Default() *Config {
	cfg := &Config{
		Language:   DefaultLanguage,
		ResultsDir: DefaultResultsDir,
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file and applies defaults for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.ResultsDir == "" {
		c.ResultsDir = DefaultResultsDir
	}
	if c.EmbeddingsPath == "" {
		c.EmbeddingsPath = "embeddings_" + c.Language + ".gob"
	}
}

// Validate checks the configuration before any processing starts.
// Violations are fatal: no partial run is attempted on bad settings.
func (c *Config) Validate() error {
	if !validLanguage(c.Language) {
		return fmt.Errorf("language %q not valid, valid choices are: %s",
			c.Language, strings.Join(Languages, ", "))
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("results directory must be set")
	}
	if c.EmbeddingsPath == "" {
		return fmt.Errorf("embeddings path must be set")
	}
	return nil
}

func validLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}
