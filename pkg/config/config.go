package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration. Everything has a workable
// default; only the shopping-search API key is genuinely optional and its
// absence just disables the secondary tier.
type Config struct {
	Port string `env:"PORT" envDefault:"9090"`

	CacheDBPath  string        `env:"CACHE_DB_PATH" envDefault:"./cache.db"`
	DirectoryTTL time.Duration `env:"DIRECTORY_CACHE_TTL" envDefault:"24h"`
	CompareTTL   time.Duration `env:"COMPARE_CACHE_TTL" envDefault:"15m"`

	HistoryDBPath string `env:"HISTORY_DB_PATH"`

	AdapterTimeout time.Duration `env:"ADAPTER_TIMEOUT" envDefault:"12s"`
	DefaultLimit   int           `env:"DEFAULT_LIMIT" envDefault:"20"`

	MuscleKingBaseURL string `env:"MUSCLEKING_BASE_URL" envDefault:"https://www.muscleking.at"`
	PowerFoodBaseURL  string `env:"POWERFOOD_BASE_URL" envDefault:"https://www.powerfood.at"`
	SportProfiBaseURL string `env:"SPORTPROFI_BASE_URL" envDefault:"https://www.sportprofi.at"`
	ShopSearchBaseURL string `env:"SHOPSEARCH_BASE_URL" envDefault:"https://serpapi.com"`
	ShopSearchAPIKey  string `env:"SHOPSEARCH_API_KEY"`
	GymRadarBaseURL   string `env:"GYMRADAR_BASE_URL" envDefault:"https://api.gymradar.at"`
	UrbanFitBaseURL   string `env:"URBANFIT_BASE_URL" envDefault:"https://www.urbanfit.at"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
