/*
Copyright © 2024 Victor Hang
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Banh-Canh/cinedeck/internal/config"
	"github.com/Banh-Canh/cinedeck/internal/nav"
	"github.com/Banh-Canh/cinedeck/internal/utils"
	"github.com/Banh-Canh/cinedeck/pkg/catalog"
	"github.com/Banh-Canh/cinedeck/pkg/playback"
)

var (
	cfgFile   string
	configDir string
	cfg       config.Config
)

var RootCmd = &cobra.Command{
	Use:   "cinedeck",
	Short: "Browse a movie catalog and play its trailers",
	Long: `
cinedeck browses a movie catalog file, lets you search it, filter it by theme
or category, and plays trailers through an embed provider or an external player.

Run "cinedeck browse" for the terminal UI or "cinedeck serve" for the web page.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		utils.SyncLogger() // nolint:all
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/cinedeck/config.yaml)")
	RootCmd.PersistentFlags().String("catalog", "", "catalog file, YAML or JSON")
	RootCmd.PersistentFlags().String("provider", "", "video provider: "+fmt.Sprint(playback.ProviderNames()))
	viper.BindPFlag("catalog.path", RootCmd.PersistentFlags().Lookup("catalog"))         // nolint:all
	viper.BindPFlag("playback.provider", RootCmd.PersistentFlags().Lookup("provider")) // nolint:all
}

func initConfig() error {
	dir, err := config.GetConfigDirPath()
	if err != nil {
		return err
	}
	configDir = dir
	utils.InitializeLogger(zapcore.InfoLevel, filepath.Join(configDir, config.LogFileName))

	path := cfgFile
	if path == "" {
		path = filepath.Join(configDir, config.ConfigFileName)
		config.CreateDefaultConfigFile(path)
		if err := config.CreateSampleCatalog(filepath.Join(configDir, config.DefaultCatalogFile)); err != nil {
			utils.Logger.Warn("Could not write sample catalog", zap.Error(err))
		}
	}
	if err := config.ReadConfig(path); err != nil {
		return err
	}

	cfg, err = config.Load()
	if err != nil {
		utils.Logger.Error("Invalid configuration", zap.Error(err))
		return err
	}
	level, err := utils.ParseLevel(cfg.LogLevel)
	if err != nil {
		utils.Logger.Warn("Falling back to info level", zap.Error(err))
	}
	utils.SetLevel(level)
	utils.Logger.Debug("Configuration loaded", zap.String("config", path))
	return nil
}

// loadCatalog reads the configured catalog once. Failure is reported before any
// UI starts.
func loadCatalog() (*catalog.Catalog, error) {
	path := cfg.CatalogPath(configDir)
	c, err := catalog.Load(path)
	if err != nil {
		utils.Logger.Error("Failed to load catalog", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	for _, w := range c.Warnings() {
		utils.Logger.Warn("Catalog data issue", zap.String("path", path), zap.String("issue", w))
	}
	utils.Logger.Info("Catalog loaded",
		zap.String("path", path),
		zap.Int("titles", c.Len()),
		zap.Int("themes", len(c.Themes())))
	return c, nil
}

func newProvider(name string) (playback.Provider, error) {
	return playback.NewProviderBuilder().
		WithName(name).
		WithCommand(cfg.Playback.Argv()).
		WithURLTemplate(cfg.Playback.URLTemplate).
		Build()
}

func playbackOptions() playback.Options {
	opts := playback.DefaultOptions()
	opts.Autoplay = cfg.Playback.Autoplay
	opts.Controls = cfg.Playback.Controls
	return opts
}

// locationFlags are the navigation flags shared by browse and list.
type locationFlags struct {
	search   string
	theme    string
	category string
	location string
}

func (f *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "start with a search term")
	cmd.Flags().StringVarP(&f.theme, "theme", "t", "", "start on the theme page filtered by theme")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "start filtered by category (title type)")
	cmd.Flags().StringVarP(&f.location, "location", "l", "", `start at an address such as "/theme?theme=Action"`)
}

func (f *locationFlags) resolve() (nav.Location, error) {
	if f.location != "" {
		return nav.ParseLocation(f.location)
	}
	loc := nav.Location{Page: nav.HomePage, Search: f.search, Theme: f.theme, Category: f.category}
	if f.theme != "" {
		loc.Page = nav.ThemePage
	}
	return loc, nil
}
