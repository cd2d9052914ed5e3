package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/starboard-dev/starboard/internal/dashboard"
	"github.com/starboard-dev/starboard/internal/github"
	"github.com/starboard-dev/starboard/internal/output"
	"github.com/starboard-dev/starboard/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui   *output.UI
	dash *dashboard.Dashboard
	repo store.Repository

	verbose bool
	dryRun  bool

	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   "starboard",
	Short: "Starboard - bookmark and annotate GitHub repositories",
	Long: `starboard keeps a local list of GitHub repository bookmarks.
It discovers repositories via GitHub search, attaches them with extended
metadata (languages, contributors, releases), and lets you browse, filter,
and annotate the list with colored categories.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return listRun("", nil)
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/starboard/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "starboard")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("STARBOARD")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "starboard")

	viper.SetDefault("state_dir", defaultConfigDir)
	viper.SetDefault("store.backend", "sqlite")
	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "starboard.db"))
	viper.SetDefault("data_dir", filepath.Join(defaultConfigDir, "data"))
	viper.SetDefault("github.token", "")
	viper.SetDefault("port", 8080)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// The dashboard is initialized lazily, only when a command needs it.
	// This allows config/version commands to run without touching the store.
}

// getDashboard returns the shared dashboard, opening the repository and
// loading state on first call.
func getDashboard() (*dashboard.Dashboard, error) {
	if dash != nil {
		return dash, nil
	}

	ctx := context.Background()

	r, err := openRepository(ctx)
	if err != nil {
		return nil, err
	}
	repo = r

	d := dashboard.New(r)
	if err := d.Load(ctx); err != nil {
		_ = r.Close()
		return nil, err
	}

	dash = d
	return dash, nil
}

func openRepository(ctx context.Context) (store.Repository, error) {
	switch backend := viper.GetString("store.backend"); backend {
	case "sqlite":
		s, err := store.NewSQLiteRepository(viper.GetString("db_path"))
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		return s, nil
	case "file":
		f, err := store.NewFileRepository(viper.GetString("data_dir"))
		if err != nil {
			return nil, fmt.Errorf("open data directory: %w", err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (expected sqlite or file)", backend)
	}
}

// getGitHub returns a GitHub client using the configured token, if any.
func getGitHub() github.Client {
	return github.NewClient(context.Background(), viper.GetString("github.token"))
}
