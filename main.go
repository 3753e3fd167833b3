// main.go

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"groco-backend/internal/config"
	"groco-backend/internal/kv"
	"groco-backend/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "groco",
	Short: "Groco grocery storefront backend",
	Long: `Groco serves a grocery storefront: product browsing, one shopping cart,
checkout and order history, with a single signed-in session.

All state lives in four values of a key-value backend (sqlite, mongo,
postgres or memory).`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "groco.yaml", "Path to the YAML config file")
	rootCmd.AddCommand(serveCmd, productsCmd, ordersCmd, configCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.Level, cfg.Logging.Development)
}

func openBackend(ctx context.Context, cfg *config.Config) (kv.Backend, error) {
	return kv.Open(ctx, kv.Options{
		Driver:   cfg.Storage.Driver,
		Path:     cfg.Storage.Path,
		URL:      cfg.Storage.URL,
		Database: cfg.Storage.Database,
	})
}
