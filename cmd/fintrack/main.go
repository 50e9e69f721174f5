package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// logToFile marks commands that own the terminal, so logs go to logging.file.
const logToFile = "log-to-file"

// session is the state shared by every command of one invocation.
type session struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
	logFile io.Closer
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	cfgFile string
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	s := &session{v: viper.New(), in: in, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "fintrack",
		Short: cli.WalletIcon + " Personal finance tracker",
		Long: `fintrack: keep track of what you earn and what you spend.

Entries belong to categories. Both can be managed from the command line,
from the terminal UI (fintrack ui) or through the REST backend (fintrack serve).`,
		SilenceUsage:       true,
		PersistentPreRunE:  s.initConfig,
		PersistentPostRunE: s.close,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&s.cfgFile, "config", "", "config file (default: $HOME/.config/fintrack/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("api", "", "backend base URL (default: http://localhost:3000)")
	rootCmd.PersistentFlags().String("locale", "", "message locale (en, pt-BR)")

	_ = s.v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = s.v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = s.v.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api"))
	_ = s.v.BindPFlag("ui.locale", rootCmd.PersistentFlags().Lookup("locale"))

	rootCmd.AddCommand(categoriesCmd(s))
	rootCmd.AddCommand(entriesCmd(s))
	rootCmd.AddCommand(serveCmd(s))
	rootCmd.AddCommand(uiCmd(s))
	rootCmd.AddCommand(versionCmd(s))

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	cancel()

	if err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			fmt.Fprintln(os.Stderr, cli.FormatError(userErr.UserMessage))
		} else {
			fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		}
		os.Exit(1)
	}
}

func (s *session) initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	if s.cfgFile != "" {
		s.v.SetConfigFile(s.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		s.v.AddConfigPath(filepath.Join(home, ".config", "fintrack"))
		s.v.AddConfigPath(".")
		s.v.SetConfigName("config")
		s.v.SetConfigType("yaml")
	}

	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(s.v)
	if err != nil {
		return err
	}
	s.cfg = cfg

	if err := s.setupLogging(cmd.Annotations[logToFile] != ""); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	s.logger.Debug("Configuration loaded", "config_file", s.v.ConfigFileUsed(), "api", cfg.API.BaseURL)
	return nil
}

func (s *session) setupLogging(toFile bool) error {
	level, err := common.ParseLevel(s.cfg.Logging.Level)
	if err != nil {
		return err
	}

	w := s.errOut
	if toFile {
		if err := os.MkdirAll(filepath.Dir(s.cfg.Logging.File), 0o750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(s.cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		s.logFile = f
		w = f
	}

	s.logger, err = common.SetupLogger(w, level, s.cfg.Logging.Format)
	return err
}

func (s *session) close(_ *cobra.Command, _ []string) error {
	if s.logFile == nil {
		return nil
	}
	err := s.logFile.Close()
	s.logFile = nil
	return err
}

func versionCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(s.out, "fintrack %s\n", version)
		},
	}
}
