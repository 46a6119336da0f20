// Package cmd implements the chronicle command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chronicle-archive/chronicle"
	"github.com/chronicle-archive/chronicle/internal/cmd/globals"
	"github.com/chronicle-archive/chronicle/pkg/logging"
)

var (
	configFile  string
	dataDir     string
	repoRoot    string
	layoutFile  string
	globalFlags *globals.Flags

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chronicle",
	Short: "Pending-batch merge engine for the archive datasets",
	Long: `Chronicle folds append-only CSV batch files into the canonical
archive datasets: the master timeline, the verified people-at-events
record, and the unverified lead queues.

Merges are idempotent and deterministic: duplicate rows are dropped in
favor of what the canonical files already say, output ordering is stable,
and consumed batch files are archived with a processing timestamp.`,
}

// Execute runs the root command and returns the process exit code.
func Execute(version, commit, date string) int {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.chronicle.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "root of the data directory layout")
	rootCmd.PersistentFlags().StringVar(&repoRoot, "repo-root", ".", "repository root for CHANGELOG.md, CHECKLIST.md, and badges")
	rootCmd.PersistentFlags().StringVar(&layoutFile, "layout", "", "YAML file with data layout overrides")
	globalFlags = globals.AddFlags(rootCmd)

	if err := viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir")); err != nil {
		panic(fmt.Sprintf("Failed to bind data-dir flag: %v", err))
	}
	if err := viper.BindPFlag("repo_root", rootCmd.PersistentFlags().Lookup("repo-root")); err != nil {
		panic(fmt.Sprintf("Failed to bind repo-root flag: %v", err))
	}
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("Failed to bind verbose flag: %v", err))
	}
	if err := viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(fmt.Sprintf("Failed to bind quiet flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".chronicle")
	}

	// .env files load before viper env binding; .env.local overrides .env.
	for _, envFile := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envFile); err == nil && globalFlags != nil && globalFlags.Verbose {
			fmt.Fprintf(os.Stderr, "Loaded %s\n", envFile)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil && globalFlags != nil && globalFlags.Verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	configureLogging()
}

// configureLogging sets up the logging system based on configuration.
func configureLogging() {
	level := zerolog.InfoLevel
	if globalFlags != nil && globalFlags.Verbose || viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	if globalFlags != nil && globalFlags.Quiet || viper.GetBool("quiet") {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	config := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		AddCaller: level <= zerolog.DebugLevel,
	}
	if config.Format == "" {
		config.Format = "auto"
	}
	if config.Output == "" {
		config.Output = "stderr"
	}

	logging.Configure(config)
}

// newChronicle builds the facade from the resolved global configuration.
func newChronicle() (chronicle.Chronicle, error) {
	opts := []chronicle.Option{
		chronicle.WithDataDir(resolved("data_dir", dataDir)),
		chronicle.WithRepoRoot(resolved("repo_root", repoRoot)),
	}
	if layoutFile != "" {
		opts = append(opts, chronicle.WithLayoutFile(layoutFile))
	}
	return chronicle.New(opts...)
}

// resolved prefers the viper value so config files and env vars can supply
// defaults the flags did not override.
func resolved(key, flagValue string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return flagValue
}
