package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither the -config flag nor CONFIG_PATH is set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Output   Output   `yaml:"output"`
	Sources  Sources  `yaml:"sources"`
	HTTP     HTTP     `yaml:"http"`
	Schedule Schedule `yaml:"schedule"`
	Metrics  Metrics  `yaml:"metrics"`
	Telegram Telegram `yaml:"telegram"`
	Log      Log      `yaml:"log"`
}

type Output struct {
	JSONPath string `yaml:"json_path" default:"indices_acumulados.json" validate:"required"`
	XLSXPath string `yaml:"xlsx_path"`
}

type Sources struct {
	IPEA IPEA `yaml:"ipea"`
	IBGE IBGE `yaml:"ibge"`
	FIPE FIPE `yaml:"fipe"`
}

// IPEA configures the IPEADATA OData rate source.
type IPEA struct {
	BaseURL    string        `yaml:"base_url" default:"http://www.ipeadata.gov.br/api/odata4" validate:"required,url"`
	Timeout    time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
	DateField  string        `yaml:"date_field" default:"VALDATA" validate:"required"`
	ValueField string        `yaml:"value_field" default:"VALVALOR" validate:"required"`
}

// IBGE configures the SIDRA aggregates API.
type IBGE struct {
	BaseURL     string        `yaml:"base_url" default:"https://servicodados.ibge.gov.br/api/v3/agregados" validate:"required,url"`
	Timeout     time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
	StartPeriod string        `yaml:"start_period" default:"200612" validate:"required,len=6,numeric"`
}

// FIPE configures the IPC-FIPE table source.
type FIPE struct {
	BaseURL           string        `yaml:"base_url" default:"https://www.fipe.org.br/IndicesConsulta-IPCPesquisa" validate:"required,url"`
	Timeout           time.Duration `yaml:"timeout" default:"15s" validate:"gt=0"`
	StartYear         int           `yaml:"start_year" default:"2006" validate:"gte=1994"`
	RequestsPerSecond float64       `yaml:"requests_per_second" default:"2" validate:"gt=0"`
	YearField         string        `yaml:"year_field" default:"Ano" validate:"required"`
	MonthField        string        `yaml:"month_field" default:"Mes" validate:"required"`
	ValueField        string        `yaml:"value_field" default:"Geral" validate:"required"`
}

type HTTP struct {
	Proxy     string        `yaml:"proxy" validate:"omitempty,url"`
	UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
	CacheTTL  time.Duration `yaml:"cache_ttl" validate:"gte=0"`
}

type Schedule struct {
	Cron string `yaml:"cron" default:"0 0 6 * * *" validate:"required"`
}

type Metrics struct {
	TextfilePath string `yaml:"textfile_path"`
}

type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
}

type Log struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
}

// Enabled reports whether run summaries should be sent to Telegram.
func (t Telegram) Enabled() bool { return t.BotToken != "" && t.ChatID != "" }

var validate = validator.New()

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		cfg.Output.JSONPath = v
	}
	if v := os.Getenv("XLSX_PATH"); v != "" {
		cfg.Output.XLSXPath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.HTTP.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SCHEDULE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.TextfilePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed on %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}
