package platform

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when no LLM credential is configured.
var ErrMissingAPIKey = errors.New("LLM_API_KEY (or GOOGLE_API_KEY) is not set")

// Config 包含进程启动所需的全部配置
type Config struct {
	Port       string
	CORSOrigin string
	LogPath    string

	DB  DBConfig
	LLM LLMConfig

	FAQPath      string
	HistoryLimit int

	Mail       MailConfig
	ReportCron string
}

// DBConfig 包含数据库连接的配置信息
type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

type LLMConfig struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type MailConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	From         string
	SupportEmail string
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.From != "" && m.SupportEmail != ""
}

// LoadConfig loads .env (if present) and reads the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Println("failed to load the env file")
	}
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds a Config from a lookup function.
func ConfigFromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:       get("PORT", "8080"),
		CORSOrigin: get("CORS_ORIGIN", "http://localhost"),
		LogPath:    get("LOG_PATH", "./log"),
		DB: DBConfig{
			Driver:     strings.ToLower(get("DB_DRIVER", "mysql")),
			Host:       get("SQL_HOST", "127.0.0.1"),
			Port:       get("SQL_PORT", ""),
			User:       get("SQL_USER", ""),
			Password:   getenv("SQL_PASSWORD"),
			DBName:     get("SQL_DBNAME", "supportchat"),
			SQLitePath: get("SQLITE_PATH", "supportchat.db"),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(get("LLM_PROVIDER", "gemini")),
			BaseURL:  get("LLM_BASE_URL", ""),
			APIKey:   get("LLM_API_KEY", get("GOOGLE_API_KEY", "")),
			Model:    get("LLM_MODEL", "gemini-2.0-flash"),
		},
		FAQPath: get("FAQ_PATH", ""),
		Mail: MailConfig{
			Host:         get("SMTP_HOST", ""),
			Port:         get("SMTP_PORT", "587"),
			User:         get("SMTP_USER", ""),
			Password:     getenv("SMTP_PASSWORD"),
			From:         get("MAIL_FROM", ""),
			SupportEmail: get("SUPPORT_EMAIL", ""),
		},
		ReportCron: get("REPORT_CRON", "0 0 * * *"),
	}
	if getenv("REPORT_CRON") == "off" {
		cfg.ReportCron = ""
	}

	timeout, err := time.ParseDuration(get("LLM_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}
	cfg.LLM.Timeout = timeout

	limit, err := strconv.Atoi(get("HISTORY_LIMIT", "0"))
	if err != nil || limit < 0 {
		return nil, fmt.Errorf("invalid HISTORY_LIMIT %q", getenv("HISTORY_LIMIT"))
	}
	cfg.HistoryLimit = limit

	switch cfg.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	switch cfg.LLM.Provider {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLM.Provider)
	}

	if cfg.LLM.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return cfg, nil
}
