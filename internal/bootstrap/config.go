package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	errs "tsumego_lab/internal/errors"
)

type Config struct {
	ServerPort       string        `mapstructure:"SERVER_PORT"`
	KatagoGrpcAddr   string        `mapstructure:"KATAGO_GRPC_ADDR"`
	KatagoGrpcPort   string        `mapstructure:"KATAGO_GRPC_PORT"`
	KatagoEnginePath string        `mapstructure:"KATAGO_ENGINE_PATH"`
	KatagoModelPath  string        `mapstructure:"KATAGO_MODEL_PATH"`
	KatagoConfigPath string        `mapstructure:"KATAGO_CONFIG_PATH"`
	KatagoTimeout    time.Duration `mapstructure:"KATAGO_TIMEOUT"`
	RedisUrl         string        `mapstructure:"REDIS_URL"`
	AnalysisCacheTTL time.Duration `mapstructure:"ANALYSIS_CACHE_TTL"`
	MongoUri         string        `mapstructure:"MONGO_URI"`
	MongoDatabase    string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors      bool          `mapstructure:"LOCAL_CORS"`
	PageLimitTasks   int           `mapstructure:"PAGE_LIMIT_TASKS"`
	TasksRoot        string        `mapstructure:"TASKS_ROOT"`

	KoAllowed          bool    `mapstructure:"KO_ALLOWED"`
	WallDistance       int     `mapstructure:"WALL_DISTANCE"`
	OwnershipThreshold float64 `mapstructure:"OWNERSHIP_THRESHOLD"`
	SuicideAllowed     bool    `mapstructure:"SUICIDE_ALLOWED"`
	MaxVisits          int     `mapstructure:"MAX_VISITS"`
	Rules              string  `mapstructure:"RULES"`
	Komi               float64 `mapstructure:"KOMI"`
}

var defaults = map[string]interface{}{
	"SERVER_PORT":         ":8080",
	"KATAGO_GRPC_ADDR":    "localhost:8082",
	"KATAGO_GRPC_PORT":    ":8082",
	"KATAGO_ENGINE_PATH":  "katago",
	"KATAGO_MODEL_PATH":   "",
	"KATAGO_CONFIG_PATH":  "katago_analysis.cfg",
	"KATAGO_TIMEOUT":      "2m",
	"REDIS_URL":           "",
	"ANALYSIS_CACHE_TTL":  "24h",
	"MONGO_URI":           "",
	"MONGO_DATABASE":      "tsumego_lab",
	"LOCAL_CORS":          false,
	"PAGE_LIMIT_TASKS":    20,
	"TASKS_ROOT":          "tasks",
	"KO_ALLOWED":          false,
	"WALL_DISTANCE":       4,
	"OWNERSHIP_THRESHOLD": 2.0 / 3.0,
	"SUICIDE_ALLOWED":     false,
	"MAX_VISITS":          500,
	"RULES":               "japanese",
	"KOMI":                0.0,
}

// Setup reads a .env style file, lets environment variables override it and
// fills everything else with defaults. A missing file is not an error.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("env")
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the tsumego core cannot work with.
func (c *Config) Validate() error {
	if c.WallDistance < 1 {
		return fmt.Errorf("%w: WALL_DISTANCE must be positive, got %d", errs.ErrMalformedInput, c.WallDistance)
	}
	if c.OwnershipThreshold <= 0 || c.OwnershipThreshold >= 1 {
		return fmt.Errorf("%w: OWNERSHIP_THRESHOLD must lie in (0, 1), got %v", errs.ErrMalformedInput, c.OwnershipThreshold)
	}
	if c.PageLimitTasks < 1 {
		return fmt.Errorf("%w: PAGE_LIMIT_TASKS must be positive, got %d", errs.ErrMalformedInput, c.PageLimitTasks)
	}
	return nil
}
