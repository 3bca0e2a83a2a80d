package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scholarai/scholar/internal/config"
)

// v holds the resolved settings: flags over SCHOLAR_* environment over
// scholar.yaml over defaults.
var v = config.NewViper()

var rootCmd = &cobra.Command{
	Use:          "scholar",
	Short:        "Terminal client for ScholarAI",
	Long:         "Scholar turns your PDFs into exams: upload documents, generate assessments, take them and review the graded report.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
		if _, err := config.ReadConfigFile(v); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	d := config.Default()
	f := rootCmd.PersistentFlags()
	f.String(config.KeyAPIURL, d.API.BaseURL, "Assessment API base URL")
	f.String(config.KeyAPIPrefix, d.API.Prefix, "Path prefix of the assessment API")
	f.String(config.KeyAuthURL, "", "Auth gateway URL (required)")
	f.String(config.KeyAuthKey, "", "Auth gateway public key (required)")
	f.String(config.KeyDB, "", "Path to the SQLite database file (default: XDG data dir)")
	f.String(config.KeyLogFile, "", "Write logs to this file")
	f.String(config.KeyLogLevel, d.Log.Level, "Log level: debug, info, warn, error")
	f.Duration(config.KeyRequestTimeout, d.API.RequestTimeout, "Timeout of each API request")
	f.Duration(config.KeyPollInterval, d.Poll.Interval, "First delay between generation status checks")
	f.Duration(config.KeyPollMaxInterval, d.Poll.MaxInterval, "Longest delay between generation status checks")
	f.Duration(config.KeyPollTimeout, d.Poll.Timeout, "Give up waiting for a generation after this long")

	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves and validates the configuration bound to v.
func loadConfig(v *viper.Viper) (config.Config, error) {
	cfg := config.Load(v)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
