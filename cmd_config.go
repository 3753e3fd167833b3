package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"groco-backend/internal/config"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the groco config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file with a fresh JWT secret",
	Example: `  groco config init
  groco --config /etc/groco.yaml config init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := writeDefaultConfig(configPath, forceInit); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Wrote "+configPath))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	cfg := config.DefaultConfig()
	cfg.Auth.JWTSecret = uuid.NewString()
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.Save(path)
}
