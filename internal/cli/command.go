package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vocabdeck/internal"
	"codeberg.org/snonux/vocabdeck/internal/config"
	"codeberg.org/snonux/vocabdeck/internal/logger"
	"codeberg.org/snonux/vocabdeck/internal/processor"
)

// Runner executes the commands once flags and configuration are resolved
type Runner interface {
	Create(ctx context.Context, cfg *config.Config, opts processor.CreateOptions) error
	Update(ctx context.Context, cfg *config.Config, opts processor.UpdateOptions) error
	ListModels(ctx context.Context, cfg *config.Config, w io.Writer) error
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, runner Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vocabdeck",
		Short: "Translated Vocabulary Anki Deck Generator",
		Long: `vocabdeck turns a tab-separated vocabulary list into an Anki deck.

Every phrase is translated by OpenAI and Google Gemini, the results are
merged into deduplicated variants, back-translated for verification and
pronounced with text-to-speech. A snapshot archive written next to the
deck allows later updates to translate only new and changed entries.

Examples:
  vocabdeck create --vocab-path words.tsv --target-language el --deck-id 1700000000
  vocabdeck update --vocab-path words.tsv --deck-zip-path Output/en_el_24_03_05_14_30_15.zip
  vocabdeck models
  vocabdeck config init`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Configure(logger.Options{
				Level: viper.GetString("log.level"),
				File:  viper.GetString("log.file"),
			})
		},
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newCreateCommand(flags, runner),
		newUpdateCommand(flags, runner),
		newModelsCommand(flags, runner),
		newConfigCommand(flags),
	)
	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.vocabdeck.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info or error")
	cmd.PersistentFlags().DurationVar(&flags.Timeout, "timeout", 0, "Abort the run after this duration (e.g. 30m, 0 disables)")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
}

func newCreateCommand(flags *Flags, runner Runner) *cobra.Command {
	f := &flags.Create
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new deck from a vocabulary file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			opts := processor.CreateOptions{
				VocabPath:            f.VocabPath,
				SourceLanguage:       f.SourceLanguage,
				TargetLanguage:       f.TargetLanguage,
				VerificationLanguage: f.VerificationLanguage,
				DeckID:               f.DeckID,
				DeckName:             f.DeckName,
				AddReverseCards:      f.AddReverseCards,
				OutputDir:            f.OutputDir,
			}
			if !cmd.Flags().Changed("source-language") {
				opts.SourceLanguage = cfg.Languages.DefaultSource
			}
			if !cmd.Flags().Changed("output-dir") {
				opts.OutputDir = cfg.Output.Directory
			}

			ctx, cancel := runContext(cmd.Context(), flags.Timeout)
			defer cancel()
			return runner.Create(ctx, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&f.VocabPath, "vocab-path", "", "Tab-separated vocabulary file (id, phrase, tags...)")
	cmd.Flags().StringVar(&f.SourceLanguage, "source-language", "", "Language of the vocabulary (default from config, \"en\")")
	cmd.Flags().StringVar(&f.TargetLanguage, "target-language", "", "Language to translate into")
	cmd.Flags().StringVar(&f.VerificationLanguage, "verification-language", "", "Language of the back-translation (default: source language)")
	cmd.Flags().Int64Var(&f.DeckID, "deck-id", 0, "Numeric Anki deck id, keep it stable across updates")
	cmd.Flags().StringVar(&f.DeckName, "deck-name", "", "Deck name (default: \"Translated <target> vocabulary\")")
	cmd.Flags().BoolVar(&f.AddReverseCards, "add-reverse-cards", f.AddReverseCards, "Also create target -> source cards")
	cmd.Flags().StringVar(&f.OutputDir, "output-dir", f.OutputDir, "Output directory")
	cmd.MarkFlagRequired("vocab-path")
	cmd.MarkFlagRequired("target-language")
	cmd.MarkFlagRequired("deck-id")

	return cmd
}

func newUpdateCommand(flags *Flags, runner Runner) *cobra.Command {
	f := &flags.Update
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a deck from its snapshot archive and a changed vocabulary file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			opts := processor.UpdateOptions{
				VocabPath:       f.VocabPath,
				DeckZipPath:     f.DeckZipPath,
				AddReverseCards: f.AddReverseCards,
				OutputDir:       f.OutputDir,
			}
			if !cmd.Flags().Changed("output-dir") {
				opts.OutputDir = cfg.Output.Directory
			}

			ctx, cancel := runContext(cmd.Context(), flags.Timeout)
			defer cancel()
			return runner.Update(ctx, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&f.VocabPath, "vocab-path", "", "Tab-separated vocabulary file (id, phrase, tags...)")
	cmd.Flags().StringVar(&f.DeckZipPath, "deck-zip-path", "", "Snapshot archive written by a previous run")
	cmd.Flags().BoolVar(&f.AddReverseCards, "add-reverse-cards", f.AddReverseCards, "Also create target -> source cards")
	cmd.Flags().StringVar(&f.OutputDir, "output-dir", f.OutputDir, "Output directory")
	cmd.MarkFlagRequired("vocab-path")
	cmd.MarkFlagRequired("deck-zip-path")

	return cmd
}

func newModelsCommand(flags *Flags, runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the OpenAI and Gemini models available for the configured API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := runContext(cmd.Context(), flags.Timeout)
			defer cancel()
			return runner.ListModels(ctx, cfg, cmd.OutOrStdout())
		},
	}
}

func newConfigCommand(flags *Flags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.ConfigPath
			if path == "" {
				var err error
				if path, err = DefaultConfigPath(); err != nil {
					return err
				}
			}

			if err := config.WriteDefault(path, flags.ForceConfig); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&flags.ConfigPath, "path", "", "Where to write the file (default is $HOME/.vocabdeck.yaml)")
	initCmd.Flags().BoolVar(&flags.ForceConfig, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

func runContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(parent, timeout)
	}
	return context.WithCancel(parent)
}

// DefaultConfigPath returns $HOME/.vocabdeck.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(home, ".vocabdeck.yaml"), nil
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".vocabdeck" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vocabdeck")
	}

	// Environment variables, e.g. VOCABDECK_TRANSLATION_WORKERS
	viper.SetEnvPrefix("VOCABDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
