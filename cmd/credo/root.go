package main

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/metalagman/credo/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	debug   bool
	rootCmd = &cobra.Command{
		Use:   "credo",
		Short: "credo guides credit-risk model runs from configuration to final contract",
	}
)

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", filepath.Join(".credo", "config.json"), "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		logging.Init(debug)
	}
	rootCmd.AddCommand(configsCmd())
	rootCmd.AddCommand(fieldsCmd())
	rootCmd.AddCommand(answerCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(compileCmd())
	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(uiCmd())
	return rootCmd.Execute()
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = filepath.Join(".credo", "config.json")
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("json")
}
