package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iafisher/batchop/pkg/display"
	"github.com/iafisher/batchop/pkg/undo"
)

// initConfig wires flags, environment variables (BATCHOP_*), and the
// optional ~/.config/batchop/config.yaml together. Precedence: flag over
// env over config file over default.
func initConfig(cmd *cobra.Command) {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "batchop"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BATCHOP")

	if def, err := undo.DefaultDataDir(); err == nil {
		viper.SetDefault("data_dir", def)
	}
	viper.SetDefault("color", "auto")

	_ = viper.BindPFlag("data_dir", cmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("color", cmd.PersistentFlags().Lookup("color"))

	// Missing config file is not an error.
	_ = viper.ReadInConfig()
}

func resolvedDataDir() string {
	return viper.GetString("data_dir")
}

func resolvedPalette() *display.Palette {
	switch viper.GetString("color") {
	case "always":
		return display.New(true)
	case "never":
		return display.New(false)
	default:
		return display.Detect(os.Stdout)
	}
}
