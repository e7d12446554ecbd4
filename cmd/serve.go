/*
Copyright © 2024 Victor Hang
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Banh-Canh/cinedeck/internal/utils"
	"github.com/Banh-Canh/cinedeck/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the movie catalog as a web page",
	Long: `
Serve the movie catalog over HTTP.

The page supports search with suggestions, theme and category filters, and plays
trailers in a modal through an embedded player (dailymotion, youtube, iframe or tiktok).`,
	Run: func(cmd *cobra.Command, args []string) {
		cat, err := loadCatalog()
		if err != nil {
			fmt.Printf("❌ Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		provider, err := newProvider(cfg.WebProvider())
		if err != nil {
			fmt.Printf("❌ Error creating video provider: %v\n", err)
			os.Exit(1)
		}
		srv, err := web.NewServer(web.Options{
			Catalog:       cat,
			Provider:      provider,
			Playback:      playbackOptions(),
			FeaturedCount: cfg.Catalog.Featured,
			Logger:        utils.Logger,
		})
		if err != nil {
			fmt.Printf("❌ Error creating server: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr := cfg.Serve.Addr
		fmt.Printf("🎬 Serving %d titles on http://%s\n", cat.Len(), addr)
		if err := srv.ListenAndServe(ctx, addr); err != nil {
			utils.Logger.Error("Server failed", zap.Error(err))
			fmt.Printf("❌ Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from serve.addr)")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr")) // nolint:all
	RootCmd.AddCommand(serveCmd)
}
