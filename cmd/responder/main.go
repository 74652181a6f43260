package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/intent-responder/internal/config"
	"github.com/danielpatrickdp/intent-responder/internal/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile string
	v       = config.NewViper()

	cfg    *config.Config
	logger *zap.Logger
)

// #region root
var rootCmd = &cobra.Command{
	Use:   "responder",
	Short: "Intent-classification responder that learns from its users",
	Long: `responder answers short user messages from an intent corpus. A TF-IDF
logistic regression classifier picks the intent; low-confidence domain
questions are handed back to the user, who can teach the correct answer.
Taught answers always win over the classifier on the next exact match.

Run without arguments to start an interactive chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		logger, err = logging.NewLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if used := v.ConfigFileUsed(); used != "" {
			logger.Debug("config loaded", zap.String("file", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./responder.yaml)")
	pf.Bool("debug", false, "enable debug logging on stderr")
	pf.String("corpus", "", "intent corpus file (.json, .yaml)")
	pf.String("db", "", "SQLite database for history, training runs and sqlite-backed knowledge")
	pf.String("learned-backend", "", "learned knowledge backend: json or sqlite")
	pf.String("learned-path", "", "learned knowledge JSON file")
	pf.Float64("threshold", 0, "minimum confidence for domain answers")

	bindFlag("debug", "debug")
	bindFlag("corpus_path", "corpus")
	bindFlag("db_path", "db")
	bindFlag("learned.backend", "learned-backend")
	bindFlag("learned.path", "learned-path")
	bindFlag("threshold", "threshold")

	rootCmd.AddCommand(chatCmd, serveCmd, mcpCmd, trainCmd, teachCmd, forgetCmd, learnedCmd, historyCmd, replayCmd)
}

// bindFlag binds a persistent flag to a config key. Unset flags leave the
// file and environment values in place.
func bindFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// #endregion root

// #region main
func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main
