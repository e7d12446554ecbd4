/*
Copyright © 2024 Victor Hang
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Banh-Canh/cinedeck/internal/ui"
)

var browseFlags locationFlags

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the movie catalog",
	Long: `
Browse the movie catalog using an interactive TUI.

Type / to search, t to pick a theme, c to pick a category, a for all movies.
Use arrow keys or jk to move, Enter/p to play, Backspace to go back.`,
	Run: func(cmd *cobra.Command, args []string) {
		start, err := browseFlags.resolve()
		if err != nil {
			fmt.Printf("❌ Invalid location: %v\n", err)
			os.Exit(1)
		}
		cat, err := loadCatalog()
		if err != nil {
			fmt.Printf("❌ Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		provider, err := newProvider(cfg.Playback.Provider)
		if err != nil {
			fmt.Printf("❌ Error creating video provider: %v\n", err)
			os.Exit(1)
		}

		err = ui.Browse(ui.Options{
			Catalog:       cat,
			Provider:      provider,
			Playback:      playbackOptions(),
			Start:         start,
			FeaturedCount: cfg.Catalog.Featured,
			ImageFilter:   cfg.ImageFilter,
			ImageQuality:  cfg.ImageQuality,
		})
		if err != nil {
			fmt.Printf("❌ Error running browser: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	browseFlags.register(browseCmd)
	RootCmd.AddCommand(browseCmd)
}
