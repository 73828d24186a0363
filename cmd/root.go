// Package cmd contains the checklist command tree.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"checklist/internal/config"
	"checklist/internal/repository"
	"checklist/store"
)

const (
	configName = ".checklist"
	envPrefix  = "CHECKLIST"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables debug logging.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "checklist",
	Short:   "checklist manages to-do lists backed by a single JSON file",
	Long:    `checklist is a to-do list manager: task lists and tasks persisted to one JSON document, served over a REST API and manageable from the command line.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.checklist.yaml or $HOME/.checklist.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("data-file", "", "path to the JSON data file")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag(config.KeyDataFile, rootCmd.PersistentFlags().Lookup("data-file"))
}

// InitConfig reads the config file and environment variables.
func InitConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	config.SetDefaults()

	if config.Verbose() {
		log.SetLevel(log.DebugLevel)
	}
}

// newLogger returns the process logger configured from the verbose flag.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "checklist",
	})
	if config.Verbose() {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// GetStore initializes the document store from configuration.
func GetStore(logger *log.Logger) (store.DocumentStore, error) {
	path := config.DataFilePath()
	st, err := store.NewFileDocumentStore(afero.NewOsFs(), path, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize store at %s: %w", path, err)
	}
	return st, nil
}

// GetRepositories builds the repositories over a freshly opened store.
func GetRepositories(logger *log.Logger) (*repository.Repositories, store.DocumentStore, error) {
	st, err := GetStore(logger)
	if err != nil {
		return nil, nil, err
	}
	return repository.New(st, logger), st, nil
}
