// Package main provides the sentimix CLI entry point.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gauthierbraillon/sentimix/internal/config"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(ldflags string, info *debug.BuildInfo) string {
	if ldflags != "dev" {
		return ldflags
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

// newRootCmd creates the root command for sentimix CLI.
func newRootCmd() *cobra.Command {
	var cfgFile string
	var verbose bool

	v := viper.New()
	config.SetDefaults(v)

	info, _ := debug.ReadBuildInfo()
	rootCmd := &cobra.Command{
		Use:   "sentimix",
		Short: "Public sentiment about a person from news and YouTube",
		Long: `Sentimix gathers recent news articles and YouTube videos about a public figure,
scores the sentiment of each one and summarizes the overall picture.`,
		Version:       resolveVersion(version, info),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v, cfgFile, verbose)
		},
	}

	rootCmd.SetVersionTemplate("sentimix version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.sentimix/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newAnalyzeCmd(v))
	rootCmd.AddCommand(newConfigCmd(v, &cfgFile))

	return rootCmd
}

// initConfig reads in config file and ENV variables.
func initConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string, verbose bool) error {
	path := cfgFile
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}
	v.SetConfigFile(path)

	// Read in environment variables that match SENTIMIX_* and YOUTUBE_API_KEY
	config.BindEnv(v)
	if verbose {
		v.Set("log.level", "debug")
	}

	// The default file is optional; an explicit --config must exist.
	if _, err := os.Stat(path); err != nil && cfgFile == "" {
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", v.ConfigFileUsed())
	}
	return nil
}
