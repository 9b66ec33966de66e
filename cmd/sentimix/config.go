package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gauthierbraillon/sentimix/internal/config"
)

// newConfigCmd creates the config subcommand.
func newConfigCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `View or create the sentimix configuration.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (SENTIMIX_*, YOUTUBE_API_KEY)
3. Config file (~/.sentimix/config.yaml)
4. Defaults`,
	}

	cmd.AddCommand(newConfigShowCmd(v))
	cmd.AddCommand(newConfigInitCmd(cfgFile))

	return cmd
}

func newConfigShowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (API key masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			if path := v.ConfigFileUsed(); path != "" && fileExists(path) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", path)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults and environment)\n\n")
			}

			data, err := cfg.Masked().YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))

			if !cfg.VideoEnabled() {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nNo YouTube API key set: video analysis is disabled (set %s)\n", config.APIKeyEnv)
			}
			return nil
		},
	}
}

func newConfigInitCmd(cfgFile *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		// The target file does not exist yet, so the root hook must not read it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *cfgFile
			if path == "" {
				defaultPath, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}

			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
