package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofiber/fiber/v2/log"
)

var (
	cfgFile = "movecheck/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ServerConfig struct {
	ListenAddr   string   `json:"listen_addr"`
	AllowOrigins []string `json:"allow_origins"`
}

type WebSocketConfig struct {
	ReadBufferSize  int `json:"read_buffer_size"`
	WriteBufferSize int `json:"write_buffer_size"`
}

type MatchmakingConfig struct {
	IntervalMillis int `json:"interval_ms"`
}

type Config struct {
	Server      ServerConfig      `json:"server"`
	WebSocket   WebSocketConfig   `json:"websocket"`
	Matchmaking MatchmakingConfig `json:"matchmaking"`
	LogLevel    string            `json:"log_level"`
}

// InitConfig starts from DefaultConfig and overlays the user's config file when one exists.
func InitConfig() (*Config, error) {
	config := DefaultConfig()
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
		log.Infof("loaded config from %s", absPath)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return &InvalidConfig{"listen_addr must be set"}
	}
	if c.WebSocket.ReadBufferSize <= 0 || c.WebSocket.WriteBufferSize <= 0 {
		return &InvalidConfig{"websocket buffer sizes must be positive"}
	}
	if c.Matchmaking.IntervalMillis <= 0 {
		return &InvalidConfig{"matchmaking interval must be positive"}
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.LogLevel)}
	}
	return nil
}

func (c *Config) MatchmakingInterval() time.Duration {
	return time.Duration(c.Matchmaking.IntervalMillis) * time.Millisecond
}

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Level returns the fiber log level named by LogLevel. Validate must have passed.
func (c *Config) Level() log.Level {
	return logLevels[strings.ToLower(c.LogLevel)]
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm os.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
