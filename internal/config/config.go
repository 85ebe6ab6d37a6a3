package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the companion.
type Config struct {
	// Service settings
	ServiceName string `env:"SERVICE_NAME" envDefault:"lcu-companion"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// LCU session
	LockfilePath string `env:"LCU_LOCKFILE" envDefault:""`

	// Feature toggles (seed values for runtime settings)
	AnnounceCommands bool   `env:"ANNOUNCE_CMDS" envDefault:"true"`
	SilentGroup      bool   `env:"SILENT_GROUP" envDefault:"false"`
	Quiet            bool   `env:"QUIET" envDefault:"false"`
	AutoReady        bool   `env:"AUTO_READY" envDefault:"false"`
	FallbackClick    bool   `env:"AUTO_READY_FALLBACK_CLICK" envDefault:"false"`
	AutoPickEnabled  bool   `env:"AUTO_PICK_ENABLED" envDefault:"false"`
	AutoPickLock     bool   `env:"AUTO_PICK_LOCK" envDefault:"true"`
	AutoPickList     string `env:"AUTO_PICK" envDefault:""`
	GroupIncludeSelf bool   `env:"GROUP_INCLUDE_SELF" envDefault:"true"`

	// Watcher intervals
	DMPollInterval         time.Duration `env:"DM_POLL_INTERVAL" envDefault:"2s"`
	DMRecentWindow         time.Duration `env:"DM_RECENT_WINDOW" envDefault:"120s"`
	GroupPollInterval      time.Duration `env:"GROUP_POLL_INTERVAL" envDefault:"800ms"`
	LobbyPollInterval      time.Duration `env:"LOBBY_POLL_INTERVAL" envDefault:"1s"`
	ReadyCheckPollInterval time.Duration `env:"READY_CHECK_POLL_INTERVAL" envDefault:"250ms"`
	ChampSelectInterval    time.Duration `env:"CHAMP_SELECT_POLL_INTERVAL" envDefault:"250ms"`
	FollowerInterval       time.Duration `env:"LOBBY_CHAT_FOLLOW_INTERVAL" envDefault:"2s"`

	// Telegram bridge
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN" envDefault:""`
	TelegramOwnerID  int64  `env:"TELEGRAM_OWNER_ID" envDefault:"0"`
	TelegramForumID  int64  `env:"TELEGRAM_FORUM_ID" envDefault:"0"`
	TopicsPath       string `env:"TELEGRAM_TOPICS_PATH" envDefault:"topics.json"`
	BridgeRequired   bool   `env:"BRIDGE_REQUIRED" envDefault:"false"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if cfg.BridgeRequired {
		if strings.TrimSpace(cfg.TelegramBotToken) == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required when BRIDGE_REQUIRED is true")
		}
		if cfg.TelegramOwnerID == 0 {
			return nil, fmt.Errorf("TELEGRAM_OWNER_ID is required when BRIDGE_REQUIRED is true")
		}
	}

	return cfg, nil
}

// BridgeConfigured reports whether the Telegram bridge credentials are present.
func (c *Config) BridgeConfigured() bool {
	return strings.TrimSpace(c.TelegramBotToken) != "" && c.TelegramOwnerID != 0
}

// LoadEnvFiles loads .env files from the usual relative locations before
// the environment is parsed. Missing files are skipped.
func LoadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
