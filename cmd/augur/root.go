package main

import (
	"github.com/spf13/cobra"

	"github.com/augur-dev/augur/pkg/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:     "augur",
	Short:   "Object-oriented inheritance metrics CLI",
	Version: version,
	Long: `Augur computes the MOOD metrics suite (DIT, NOC, MHF, AHF, MIF, AIF,
POF) over the class inheritance graph of a codebase.

Supports: Java, Python, TypeScript, JavaScript, C#, C++, Ruby, PHP`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
}

// loadConfig resolves the effective configuration, honoring --config.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadOrDefault(), nil
}
