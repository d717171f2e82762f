package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simivar/sprite-picker/src/app"
)

const defaultTimeout = 10 * time.Second

var (
	OutputPath string
	Timeout    time.Duration
	LogFile    string

	cfgFile           string
	debugMode         bool
	humanReadableLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "spritepick",
	Short: "Sprite Picker browses, picks and exports sprites from map style sprite sheets",
	Long: `Sprite Picker loads a sprite sheet (<base>.json + <base>.png) and lets you
			browse it from the terminal, pick a sprite name or export every sprite as PNG.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Show help by default when no subcommand is provided
		return cmd.Help()
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initDebugMode)
	cobra.OnInitialize(initHumanOutput)
	cobra.OnInitialize(initSettingsFromViper)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.spritepick.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug mode")
	rootCmd.PersistentFlags().BoolVar(&humanReadableLogs, "human", false, "enable human readable mode")
	rootCmd.PersistentFlags().DurationVar(&Timeout, "timeout", defaultTimeout, "timeout for each sprite sheet request")
	rootCmd.PersistentFlags().StringVarP(&OutputPath, "output", "o", defaultOutputPath(), "path where to save exported sprites")
	rootCmd.PersistentFlags().StringVar(&LogFile, "log-file", "", "file receiving logs while the interactive picker runs")

	// Bind persistent flags to Viper keys
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("human", rootCmd.PersistentFlags().Lookup("human"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".spritepick" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".spritepick")
	}

	viper.SetEnvPrefix("SPRITEPICK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		log.Info().Msgf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func initDebugMode() {
	if viper.GetBool("debug") || debugMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func initHumanOutput() {
	if humanLogs() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func humanLogs() bool {
	return viper.GetBool("human") || humanReadableLogs
}

func initSettingsFromViper() {
	// Sync our derived variables from Viper so config/env are respected
	if v := viper.GetString("output"); v != "" {
		OutputPath = app.ExpandPath(v)
	}
	if v := viper.GetDuration("timeout"); v > 0 {
		Timeout = v
	}
	if v := viper.GetString("log-file"); v != "" {
		LogFile = app.ExpandPath(v)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLoader() *app.Loader {
	return app.NewLoader(app.DefaultOpener(Timeout))
}

// commandContext is cmd's context, or Background when the command was invoked
// directly rather than through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func defaultOutputPath() string {
	return app.ExpandPath(
		"./output/sprites",
	)
}
