package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Banh-Canh/cinedeck/data"
	"github.com/Banh-Canh/cinedeck/internal/utils"
)

const (
	AppName            = "cinedeck"
	ConfigFileName     = "config.yaml"
	DefaultCatalogFile = "catalog.yaml"
	LogFileName        = "cinedeck.log"
)

type Config struct {
	LogLevel     string         `mapstructure:"logLevel" yaml:"logLevel"`
	Catalog      CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Playback     PlaybackConfig `mapstructure:"playback" yaml:"playback"`
	Serve        ServeConfig    `mapstructure:"serve" yaml:"serve"`
	ImageFilter  string         `mapstructure:"image_filter" yaml:"image_filter"`
	ImageQuality int            `mapstructure:"image_quality" yaml:"image_quality"`
}

type CatalogConfig struct {
	// Path is the catalog file. Relative paths are resolved against the config directory.
	Path     string `mapstructure:"path" yaml:"path"`
	Featured int    `mapstructure:"featured" yaml:"featured"`
}

type PlaybackConfig struct {
	Provider    string `mapstructure:"provider" yaml:"provider"`
	Command     string `mapstructure:"command" yaml:"command"`
	URLTemplate string `mapstructure:"url_template" yaml:"url_template"`
	Autoplay    bool   `mapstructure:"autoplay" yaml:"autoplay"`
	Controls    bool   `mapstructure:"controls" yaml:"controls"`
}

// Argv splits the player command line on whitespace.
func (p PlaybackConfig) Argv() []string {
	return strings.Fields(p.Command)
}

type ServeConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	// Provider overrides playback.provider for the web page, which can only
	// use embedded players.
	Provider string `mapstructure:"provider" yaml:"provider"`
}

// SetDefaults registers default values for every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("catalog.path", DefaultCatalogFile)
	viper.SetDefault("catalog.featured", 6)
	viper.SetDefault("playback.provider", "dailymotion")
	viper.SetDefault("playback.command", "mpv --title=cinedeck-player --force-window=immediate")
	viper.SetDefault("playback.url_template", "https://www.dailymotion.com/video/%s")
	viper.SetDefault("playback.autoplay", true)
	viper.SetDefault("playback.controls", false)
	viper.SetDefault("serve.addr", "127.0.0.1:8080")
	viper.SetDefault("serve.provider", "")
	viper.SetDefault("image_filter", "lanczos3")
	viper.SetDefault("image_quality", 85)
}

// Creates the YAML config file
func CreateDefaultConfigFile(filePath string) {
	SetDefaults()
	viper.SetConfigType("yaml")
	viper.SafeWriteConfigAs(filePath) // nolint:all
}

// CreateSampleCatalog writes the bundled catalog to filePath unless a file is
// already there.
func CreateSampleCatalog(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check catalog file: %w", err)
	}
	if err := os.WriteFile(filePath, data.SampleCatalog, 0o644); err != nil {
		return fmt.Errorf("failed to write sample catalog: %w", err)
	}
	utils.Logger.Info("Wrote sample catalog", zap.String("filePath", filePath))
	return nil
}

func GetConfigDirPath() (string, error) {
	// Construct the directory path to the config directory
	configDirPath := filepath.Join(xdg.ConfigHome, AppName)
	if err := os.MkdirAll(configDirPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDirPath, nil
}

// GetCacheDirPath returns the directory used for generated thumbnails.
func GetCacheDirPath() (string, error) {
	cacheDirPath := filepath.Join(xdg.CacheHome, AppName)
	if err := os.MkdirAll(cacheDirPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return cacheDirPath, nil
}

func ReadConfig(filePath string) error {
	// Set up Viper to read from the config file
	viper.SetConfigFile(filePath)
	utils.Logger.Debug("Reading config file...", zap.String("filePath", filePath))
	// Read the config file
	if err := viper.ReadInConfig(); err != nil {
		utils.Logger.Error("Failed to read config file.", zap.Error(err))
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load decodes the current viper state into a Config.
func Load() (Config, error) {
	SetDefaults()
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ImageQuality < 1 || c.ImageQuality > 100 {
		return fmt.Errorf("image_quality must be between 1 and 100, got %d", c.ImageQuality)
	}
	if c.Catalog.Featured < 0 {
		return fmt.Errorf("catalog.featured must not be negative, got %d", c.Catalog.Featured)
	}
	return nil
}

// CatalogPath resolves the catalog location against configDir.
func (c Config) CatalogPath(configDir string) string {
	p := strings.TrimSpace(c.Catalog.Path)
	if p == "" {
		p = DefaultCatalogFile
	}
	if strings.HasPrefix(p, "~/") {
		p = filepath.Join(xdg.Home, p[2:])
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(configDir, p)
}

// WebProvider is the provider used by the web page.
func (c Config) WebProvider() string {
	if c.Serve.Provider != "" {
		return c.Serve.Provider
	}
	return c.Playback.Provider
}
