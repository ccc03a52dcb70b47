package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional config file (~/.config/tokeval/config.yaml).
// Values apply only when the corresponding flag was not set explicitly.
type Config struct {
	Model          string `yaml:"model"`
	Name           string `yaml:"name"`
	Corpus         string `yaml:"corpus"`
	FallbackCorpus string `yaml:"fallback_corpus"`
	ModelsDir      string `yaml:"models_dir"`
	Output         string `yaml:"output"`
	TopK           *int64 `yaml:"top_k"`
	ServerAddress  string `yaml:"server_address"`
	LogLevel       string `yaml:"log_level"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tokeval", "config.yaml")
}

// loadConfig reads the config file. Returns a zero Config when the file is
// missing or unreadable.
func loadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

func applyCommonConfig(c *cli.Command, cfg Config) {
	if cfg.Model != "" && !c.IsSet("model") {
		modelPath = cfg.Model
	}
	if cfg.Name != "" && !c.IsSet("name") {
		primaryName = cfg.Name
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
}

func applyEvalConfig(c *cli.Command, cfg Config) {
	applyCommonConfig(c, cfg)
	if cfg.Corpus != "" && !c.IsSet("corpus") {
		corpusPath = cfg.Corpus
	}
	if cfg.FallbackCorpus != "" && !c.IsSet("fallback-corpus") {
		fallbackPath = cfg.FallbackCorpus
	}
	if cfg.ModelsDir != "" && !c.IsSet("models-dir") {
		modelsDir = cfg.ModelsDir
	}
	if cfg.Output != "" && !c.IsSet("out") {
		outPath = cfg.Output
	}
	if cfg.TopK != nil && !c.IsSet("top-k") {
		topK = *cfg.TopK
	}
}
