// Package config loads the service configuration from a JSON or YAML file,
// with optional environment overrides (PK_SECTION__KEY).
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

	"github.com/kerhervel/parkplan/core/metrics"
	"github.com/kerhervel/parkplan/core/planlog"
	"github.com/kerhervel/parkplan/core/planner"
	"github.com/kerhervel/parkplan/core/prediction"
	"github.com/kerhervel/parkplan/infra/mqtt"
	"github.com/kerhervel/parkplan/infra/snapshots"
)

type Config struct {
	API        APIConfig         `json:"api"`
	Planner    planner.Config    `json:"planner"`
	Prediction prediction.Config `json:"prediction"`
	Metrics    metrics.Config    `json:"metrics"`
	PlanLog    planlog.Config    `json:"plan_log"`
	MQTT       mqtt.Config       `json:"mqtt"`
	Snapshots  snapshots.Config  `json:"snapshots"`
	RefData    RefDataConfig     `json:"ref_data"`
	Logging    LoggingConfig     `json:"logging"`
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
	if err := k.Load(env.Provider("PK_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pk_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.API.SetDefaults()
	cfg.Planner.SetDefaults()
	cfg.Prediction.SetDefaults()
	cfg.PlanLog.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Snapshots.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.API.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.PlanLog.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Snapshots.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
