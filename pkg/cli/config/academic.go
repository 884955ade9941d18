package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/CarlosCampa21/aura-api/pkg/service/chunker"
	"github.com/CarlosCampa21/aura-api/pkg/service/rag"
)

// AcademicConfig is the institution-specific configuration loaded from
// a TOML file: the context string folded into the orchestrator prompt
// plus tuning knobs for chunking, retrieval and rate limiting.
type AcademicConfig struct {
	Department string `toml:"department"`
	Campus     string `toml:"campus"`
	Timezone   string `toml:"timezone"`
	Context    string `toml:"context"`

	Chunking struct {
		MaxChars int `toml:"max_chars"`
		Overlap  int `toml:"overlap"`
	} `toml:"chunking"`

	Retrieval struct {
		TopK int `toml:"top_k"`
	} `toml:"retrieval"`

	RateLimit struct {
		Requests      int `toml:"requests"`
		WindowSeconds int `toml:"window_seconds"`
	} `toml:"rate_limit"`
}

// Validate checks the tuning knobs
func (c *AcademicConfig) Validate() error {
	if c.Chunking.MaxChars < 0 || c.Chunking.Overlap < 0 {
		return goerr.New("chunking parameters must be non-negative",
			goerr.V("max_chars", c.Chunking.MaxChars), goerr.V("overlap", c.Chunking.Overlap))
	}
	if c.Chunking.MaxChars > 0 && c.Chunking.Overlap >= c.Chunking.MaxChars {
		return goerr.New("chunking overlap must be smaller than max_chars",
			goerr.V("max_chars", c.Chunking.MaxChars), goerr.V("overlap", c.Chunking.Overlap))
	}
	if c.Retrieval.TopK < 0 {
		return goerr.New("retrieval top_k must be non-negative", goerr.V("top_k", c.Retrieval.TopK))
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return goerr.Wrap(err, "invalid timezone", goerr.V("timezone", c.Timezone))
		}
	}
	return nil
}

func defaultAcademicConfig() *AcademicConfig {
	cfg := &AcademicConfig{}
	cfg.Chunking.MaxChars = chunker.DefaultMaxChars
	cfg.Chunking.Overlap = chunker.DefaultOverlap
	cfg.Retrieval.TopK = rag.DefaultTopK
	cfg.RateLimit.Requests = 30
	cfg.RateLimit.WindowSeconds = 60
	return cfg
}

// Academic holds the CLI flag pointing at the TOML file
type Academic struct {
	path string
}

// Flags returns CLI flags for the academic configuration
func (a *Academic) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "academic-config",
			Usage:       "Path to the academic configuration TOML file",
			Sources:     cli.EnvVars("AURA_ACADEMIC_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Load parses the configured file, or returns defaults when no file is
// configured.
func (a *Academic) Load() (*AcademicConfig, error) {
	cfg := defaultAcademicConfig()
	if a.path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read academic config", goerr.V("path", a.path))
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse academic config", goerr.V("path", a.path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid academic config", goerr.V("path", a.path))
	}

	if cfg.Chunking.MaxChars == 0 {
		cfg.Chunking.MaxChars = chunker.DefaultMaxChars
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = rag.DefaultTopK
	}
	return cfg, nil
}
