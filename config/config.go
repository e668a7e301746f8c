package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/enertrack/meterd/core/metrics"
	"github.com/enertrack/meterd/infra/announce"
)

type Config struct {
	Data     DataConfig      `json:"data"`
	Gateway  GatewayConfig   `json:"gateway"`
	Metrics  metrics.Config  `json:"metrics"`
	Announce announce.Config `json:"announce"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("METERD_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "meterd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Data.SetDefaults()
	cfg.Gateway.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Announce.SetDefaults()
	if err := cfg.Data.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Gateway.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Announce.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
