package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Workbook WorkbookConfig `yaml:"workbook" mapstructure:"workbook"`
	Places   PlacesConfig   `yaml:"places" mapstructure:"places"`
	Crawl    CrawlConfig    `yaml:"crawl" mapstructure:"crawl"`
	Match    MatchConfig    `yaml:"match" mapstructure:"match"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// WorkbookConfig locates the prospect workbook and its sheets.
type WorkbookConfig struct {
	InputPath     string `yaml:"input_path" mapstructure:"input_path"`
	OutputPath    string `yaml:"output_path" mapstructure:"output_path"`
	ProspectSheet string `yaml:"prospect_sheet" mapstructure:"prospect_sheet"`
	RemovedSheet  string `yaml:"removed_sheet" mapstructure:"removed_sheet"`
	RosterSheet   string `yaml:"roster_sheet" mapstructure:"roster_sheet"`
	HistorySheet  string `yaml:"history_sheet" mapstructure:"history_sheet"`
	MaxRows       int    `yaml:"max_rows" mapstructure:"max_rows"`
}

// PlacesConfig holds Google Places Web Service settings.
type PlacesConfig struct {
	APIKey              string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL             string  `yaml:"base_url" mapstructure:"base_url"`
	Country             string  `yaml:"country" mapstructure:"country"`
	IndustryKeyword     string  `yaml:"industry_keyword" mapstructure:"industry_keyword"`
	SecondaryKeyword    string  `yaml:"secondary_keyword" mapstructure:"secondary_keyword"`
	MaxPages            int     `yaml:"max_pages" mapstructure:"max_pages"`
	MaxResultsPerQuery  int     `yaml:"max_results_per_query" mapstructure:"max_results_per_query"`
	MaxFindPlaceResults int     `yaml:"max_findplace_results" mapstructure:"max_findplace_results"`
	PageTokenDelayMs    int     `yaml:"page_token_delay_ms" mapstructure:"page_token_delay_ms"`
	RequestsPerSecond   float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// HasAPIKey reports whether a usable Places API key is configured.
func (p PlacesConfig) HasAPIKey() bool {
	return p.APIKey != "" && p.APIKey != "YOUR_KEY_HERE"
}

// CrawlConfig configures the contact-page scraper.
type CrawlConfig struct {
	MaxPages          int     `yaml:"max_pages" mapstructure:"max_pages"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// MatchConfig holds the matching thresholds. The fuzzy thresholds are
// empirically tuned against the production workbook; override with care.
type MatchConfig struct {
	AcceptScore           float64 `yaml:"accept_score" mapstructure:"accept_score"`
	DedupeThreshold       float64 `yaml:"dedupe_threshold" mapstructure:"dedupe_threshold"`
	LastPurchaseThreshold float64 `yaml:"lastpurchase_threshold" mapstructure:"lastpurchase_threshold"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("workbook.input_path", "Prospeccao Novos Clientes.xlsx")
	v.SetDefault("workbook.output_path", "Prospeccao Novos Clientes - preenchido.xlsx")
	v.SetDefault("workbook.prospect_sheet", "Clientes")
	v.SetDefault("workbook.removed_sheet", "Removidos")
	v.SetDefault("workbook.roster_sheet", "BASE REPRESENTANTES")
	v.SetDefault("workbook.history_sheet", "CURVA ABC")
	v.SetDefault("workbook.max_rows", 0)
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("places.country", "Brasil")
	v.SetDefault("places.industry_keyword", "embalagens")
	v.SetDefault("places.secondary_keyword", "papelão ondulado")
	v.SetDefault("places.max_pages", 3)
	v.SetDefault("places.max_results_per_query", 40)
	v.SetDefault("places.max_findplace_results", 12)
	v.SetDefault("places.page_token_delay_ms", 2200)
	v.SetDefault("places.requests_per_second", 4)
	v.SetDefault("crawl.max_pages", 12)
	v.SetDefault("crawl.timeout_secs", 25)
	v.SetDefault("crawl.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120 Safari/537.36")
	v.SetDefault("crawl.requests_per_second", 6)
	v.SetDefault("match.accept_score", 6.0)
	v.SetDefault("match.dedupe_threshold", 0.78)
	v.SetDefault("match.lastpurchase_threshold", 0.72)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
