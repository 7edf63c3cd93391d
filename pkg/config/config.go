package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	xdgAppName = "tasklog"
	configFile = "config.json"

	DefaultListenAddr = ":8080"
)

// Environment variable names.
const (
	EnvSheetID         = "GOOGLE_SHEET_ID"
	EnvSheetName       = "GOOGLE_SHEET_NAME"
	EnvCredentialsJSON = "GOOGLE_SERVICE_ACCOUNT_CREDENTIALS_JSON"
	EnvSlackBotToken   = "SLACK_BOT_TOKEN"
	EnvSlackChannelID  = "SLACK_CHANNEL_ID"
	EnvListenAddr      = "TASKLOG_ADDR"
	EnvTimezone        = "TASKLOG_TIMEZONE"
	EnvConfigPath      = "TASKLOG_CONFIG"
)

// Config is the runtime configuration. Only the non-secret fields are
// persisted to the settings file; secrets come from the environment.
type Config struct {
	SheetName  string `json:"sheet_name,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`
	Timezone   string `json:"timezone,omitempty"`

	SheetID         string `json:"-"`
	CredentialsJSON string `json:"-"`
	SlackBotToken   string `json:"-"`
	SlackChannelID  string `json:"-"`
}

// GetConfigPath returns the settings file path, honouring TASKLOG_CONFIG.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

// Load builds the configuration. A .env file in the working directory is
// loaded first without overriding variables already set. Environment values
// win over the settings file, which wins over defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}

	overrideFromEnv(&cfg.SheetName, EnvSheetName)
	overrideFromEnv(&cfg.ListenAddr, EnvListenAddr)
	overrideFromEnv(&cfg.Timezone, EnvTimezone)
	cfg.SheetID = os.Getenv(EnvSheetID)
	cfg.CredentialsJSON = os.Getenv(EnvCredentialsJSON)
	cfg.SlackBotToken = os.Getenv(EnvSlackBotToken)
	cfg.SlackChannelID = os.Getenv(EnvSlackChannelID)

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	return cfg, nil
}

// LoadFile reads only the settings file. A missing file yields an empty Config.
func LoadFile() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Save writes the non-secret settings to the settings file.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// Missing lists the required environment variables that are empty.
func (c *Config) Missing() []string {
	var missing []string
	for _, kv := range []struct{ key, val string }{
		{EnvSheetID, c.SheetID},
		{EnvSheetName, c.SheetName},
		{EnvCredentialsJSON, c.CredentialsJSON},
		{EnvSlackBotToken, c.SlackBotToken},
		{EnvSlackChannelID, c.SlackChannelID},
	} {
		if kv.val == "" {
			missing = append(missing, kv.key)
		}
	}
	return missing
}
