package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCredentials = `{"type":"service_account","client_email":"bot@example.iam.gserviceaccount.com"}`

// clearEnv unsets every variable Load reads so the host environment does
// not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_TOKEN", "TELEGRAM_POLL_TIMEOUT", "TELEGRAM_DEBUG",
		"SHEET_ID", "SHEET_NAME", "GOOGLE_CREDENTIALS", "GOOGLE_CREDENTIALS_FILE",
		"SHEETS_VALUE_INPUT", "LEDGER_TABLE", "SALES_TABLE",
		"STORAGE_BACKEND", "DATABASE_URL", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "PORT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func configError(t *testing.T, err error) *Error {
	t.Helper()
	var cerr *Error
	require.True(t, errors.As(err, &cerr), "expected *config.Error, got %v", err)
	return cerr
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("GOOGLE_CREDENTIALS", testCredentials)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, 60*time.Second, cfg.Telegram.PollTimeout)
	assert.False(t, cfg.Telegram.Debug)
	assert.Equal(t, "Laporan_Keuangan_Full_Auto", cfg.Sheets.SpreadsheetName)
	assert.Empty(t, cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "RAW", cfg.Sheets.ValueInputOption)
	assert.Equal(t, "Transaksi", cfg.Sheets.LedgerTable)
	assert.Equal(t, "Penjualan Bisnis", cfg.Sheets.SalesTable)
	assert.JSONEq(t, testCredentials, string(cfg.Sheets.Credentials))
	assert.Equal(t, BackendSheets, cfg.Storage.Backend)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "ledger.recorded", cfg.Kafka.Topic)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.HTTP.Port)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_POLL_TIMEOUT", "15s")
	t.Setenv("TELEGRAM_DEBUG", "true")
	t.Setenv("SHEET_ID", "sheet-123")
	t.Setenv("SHEETS_VALUE_INPUT", "user_entered")
	t.Setenv("GOOGLE_CREDENTIALS", testCredentials)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("PORT", "10000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Telegram.PollTimeout)
	assert.True(t, cfg.Telegram.Debug)
	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "USER_ENTERED", cfg.Sheets.ValueInputOption)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "10000", cfg.HTTP.Port)
}

func TestLoad_CredentialsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(testCredentials), 0o600))

	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("GOOGLE_CREDENTIALS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.JSONEq(t, testCredentials, string(cfg.Sheets.Credentials))
}

func TestLoad_Errors(t *testing.T) {
	missingFile := filepath.Join(t.TempDir(), "nope.json")

	tests := []struct {
		name    string
		env     map[string]string
		setting string
	}{
		{
			name:    "missing token",
			env:     map[string]string{"GOOGLE_CREDENTIALS": testCredentials},
			setting: "TELEGRAM_TOKEN",
		},
		{
			name:    "missing credentials",
			env:     map[string]string{"TELEGRAM_TOKEN": "t", "GOOGLE_CREDENTIALS_FILE": missingFile},
			setting: "GOOGLE_CREDENTIALS",
		},
		{
			name:    "invalid inline credentials",
			env:     map[string]string{"TELEGRAM_TOKEN": "t", "GOOGLE_CREDENTIALS": "{oops"},
			setting: "GOOGLE_CREDENTIALS",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"TELEGRAM_TOKEN": "t", "STORAGE_BACKEND": "postgres"},
			setting: "DATABASE_URL",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"TELEGRAM_TOKEN": "t", "STORAGE_BACKEND": "excel"},
			setting: "STORAGE_BACKEND",
		},
		{
			name:    "bad value input option",
			env:     map[string]string{"TELEGRAM_TOKEN": "t", "GOOGLE_CREDENTIALS": testCredentials, "SHEETS_VALUE_INPUT": "FORMATTED"},
			setting: "SHEETS_VALUE_INPUT",
		},
		{
			name:    "sub-second poll timeout",
			env:     map[string]string{"TELEGRAM_TOKEN": "t", "STORAGE_BACKEND": "memory", "TELEGRAM_POLL_TIMEOUT": "500ms"},
			setting: "TELEGRAM_POLL_TIMEOUT",
		},
		{
			name:    "zero poll timeout",
			env:     map[string]string{"TELEGRAM_TOKEN": "t", "STORAGE_BACKEND": "memory", "TELEGRAM_POLL_TIMEOUT": "0"},
			setting: "TELEGRAM_POLL_TIMEOUT",
		},
		{
			name:    "unparsable poll timeout",
			env:     map[string]string{"TELEGRAM_TOKEN": "t", "STORAGE_BACKEND": "memory", "TELEGRAM_POLL_TIMEOUT": "soon"},
			setting: "TELEGRAM_POLL_TIMEOUT",
		},
		{
			name:    "same table twice",
			env:     map[string]string{"TELEGRAM_TOKEN": "t", "STORAGE_BACKEND": "memory", "SALES_TABLE": "Transaksi"},
			setting: "SALES_TABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Nil(t, cfg)
			assert.Equal(t, tt.setting, configError(t, err).Setting)
		})
	}
}

func TestLoad_PollTimeoutInSeconds(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "t")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("TELEGRAM_POLL_TIMEOUT", "60")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.Telegram.PollTimeout)
}

func TestLoad_NonSheetsBackendsSkipCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "t")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger?sslmode=disable")
	t.Setenv("GOOGLE_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "absent.json"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Nil(t, cfg.Sheets.Credentials)
}
