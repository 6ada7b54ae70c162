package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Telegram TelegramConfig
	Sheets   SheetsConfig
	Storage  StorageConfig
	Kafka    KafkaConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

// TelegramConfig holds bot settings
type TelegramConfig struct {
	Token       string
	PollTimeout time.Duration
	Debug       bool
}

// SheetsConfig holds spreadsheet settings
type SheetsConfig struct {
	SpreadsheetID    string
	SpreadsheetName  string
	Credentials      []byte // service account JSON
	ValueInputOption string
	LedgerTable      string
	SalesTable       string
}

// StorageConfig selects where rows are appended
type StorageConfig struct {
	Backend     string // sheets, postgres, memory
	DatabaseURL string
}

// KafkaConfig holds event publishing settings. No brokers disables events.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// HTTPConfig holds the health endpoint settings. An empty port disables it.
type HTTPConfig struct {
	Port string
}

// Error reports a setting that is missing or invalid.
type Error struct {
	Setting string
	Reason  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s %s", e.Setting, e.Reason)
}

// Load reads configuration from an optional .env file and the environment.
// Variables already present in the environment win over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: error loading .env file: %v", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram_poll_timeout", "60s")
	v.SetDefault("sheet_name", "Laporan_Keuangan_Full_Auto")
	v.SetDefault("google_credentials_file", "credentials.json")
	v.SetDefault("sheets_value_input", "RAW")
	v.SetDefault("ledger_table", "Transaksi")
	v.SetDefault("sales_table", "Penjualan Bisnis")
	v.SetDefault("storage_backend", BackendSheets)
	v.SetDefault("kafka_topic", "ledger.recorded")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_output", "stdout")
}

func fromViper(v *viper.Viper) (*Config, error) {
	pollTimeout, err := parseSeconds(v.GetString("telegram_poll_timeout"))
	if err != nil {
		return nil, &Error{Setting: "TELEGRAM_POLL_TIMEOUT", Reason: "must be a duration such as 60s"}
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:       strings.TrimSpace(v.GetString("telegram_token")),
			PollTimeout: pollTimeout,
			Debug:       v.GetBool("telegram_debug"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:    strings.TrimSpace(v.GetString("sheet_id")),
			SpreadsheetName:  strings.TrimSpace(v.GetString("sheet_name")),
			ValueInputOption: strings.ToUpper(v.GetString("sheets_value_input")),
			LedgerTable:      v.GetString("ledger_table"),
			SalesTable:       v.GetString("sales_table"),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(strings.TrimSpace(v.GetString("storage_backend"))),
			DatabaseURL: strings.TrimSpace(v.GetString("database_url")),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("kafka_brokers")),
			Topic:   v.GetString("kafka_topic"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
			Output: v.GetString("log_output"),
		},
		HTTP: HTTPConfig{
			Port: strings.TrimSpace(v.GetString("port")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Backend == BackendSheets {
		creds, err := loadCredentials(v.GetString("google_credentials"), v.GetString("google_credentials_file"))
		if err != nil {
			return nil, err
		}
		cfg.Sheets.Credentials = creds
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return &Error{Setting: "TELEGRAM_TOKEN", Reason: "is required"}
	}
	if c.Telegram.PollTimeout < time.Second {
		return &Error{Setting: "TELEGRAM_POLL_TIMEOUT", Reason: "must be at least 1s"}
	}

	switch c.Storage.Backend {
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" && c.Sheets.SpreadsheetName == "" {
			return &Error{Setting: "SHEET_NAME", Reason: "or SHEET_ID is required"}
		}
		if c.Sheets.ValueInputOption != "RAW" && c.Sheets.ValueInputOption != "USER_ENTERED" {
			return &Error{Setting: "SHEETS_VALUE_INPUT", Reason: "must be RAW or USER_ENTERED"}
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return &Error{Setting: "DATABASE_URL", Reason: "is required for the postgres backend"}
		}
	case BackendMemory:
	default:
		return &Error{Setting: "STORAGE_BACKEND", Reason: fmt.Sprintf("has unknown value %q", c.Storage.Backend)}
	}

	if strings.TrimSpace(c.Sheets.LedgerTable) == "" {
		return &Error{Setting: "LEDGER_TABLE", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Sheets.SalesTable) == "" {
		return &Error{Setting: "SALES_TABLE", Reason: "must not be empty"}
	}
	if c.Sheets.LedgerTable == c.Sheets.SalesTable {
		return &Error{Setting: "SALES_TABLE", Reason: "must differ from LEDGER_TABLE"}
	}
	return nil
}

// parseSeconds reads a bare integer as seconds, anything else as a Go
// duration string.
func parseSeconds(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

// loadCredentials prefers the inline JSON and falls back to the file.
func loadCredentials(inline, path string) ([]byte, error) {
	if inline = strings.TrimSpace(inline); inline != "" {
		if !json.Valid([]byte(inline)) {
			return nil, &Error{Setting: "GOOGLE_CREDENTIALS", Reason: "is not valid JSON"}
		}
		return []byte(inline), nil
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &Error{Setting: "GOOGLE_CREDENTIALS", Reason: "or GOOGLE_CREDENTIALS_FILE is required"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Setting: "GOOGLE_CREDENTIALS", Reason: fmt.Sprintf("is not set and GOOGLE_CREDENTIALS_FILE could not be read: %v", err)}
	}
	if !json.Valid(data) {
		return nil, &Error{Setting: "GOOGLE_CREDENTIALS_FILE", Reason: "does not contain valid JSON"}
	}
	return data, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
