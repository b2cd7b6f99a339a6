package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/v0xg/remotedriver/internal/browser"
	"github.com/v0xg/remotedriver/internal/config"
	"github.com/v0xg/remotedriver/internal/executor"
	"github.com/v0xg/remotedriver/internal/observability"
	"github.com/v0xg/remotedriver/internal/wire"
)

var (
	cfgFile string
	verbose bool
	headful bool
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	if err := newRootCmd(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "remotedriver",
		Short: "Send touch gestures and timeouts to a WebDriver session",
		Long: `remotedriver encodes touch gestures and timeout settings for either the
legacy JSON Wire Protocol or W3C WebDriver and sends them to a running
session, or to a local headless browser with --browser.

Example:
  remotedriver --remote http://localhost:4444/wd/hub --session 5c1e... tap 0.1-3
  remotedriver --browser --url https://m.example.com tap "#menu"`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./remotedriver.yaml)")
	flags.String("dialect", "w3c", "Wire dialect: legacy, w3c")
	flags.String("remote", "", "WebDriver server URL")
	flags.String("session", "", "WebDriver session id")
	flags.Bool("browser", false, "Drive a local browser instead of a remote session")
	flags.String("url", "", "Page to open in browser mode")
	flags.BoolVar(&headful, "headful", false, "Show the browser window in browser mode")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every command sent")

	bind := map[string]string{
		"remote.dialect":    "dialect",
		"remote.url":        "remote",
		"remote.session_id": "session",
		"browser.enabled":   "browser",
		"browser.url":       "url",
	}
	for key, flag := range bind {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(gestureCommands(v)...)
	rootCmd.AddCommand(newTimeoutsCmd(v), newTargetsCmd(v))
	return rootCmd
}

// session is everything a subcommand needs to reach the remote end
type session struct {
	dialect wire.Dialect
	exec    wire.Executor
	logger  *zap.Logger
	browser *browser.Browser
}

func openSession(v *viper.Viper) (*session, error) {
	if verbose {
		v.Set("logger.level", "debug")
	}
	if headful {
		v.Set("browser.headless", false)
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}
	logger := observability.NewLogger(cfg.Logger)

	s := &session{dialect: dialect, logger: logger}
	if cfg.Browser.Enabled {
		b, err := browser.Launch(browser.Options{
			URL:        cfg.Browser.URL,
			Width:      cfg.Browser.Width,
			Height:     cfg.Browser.Height,
			Headless:   cfg.Browser.Headless,
			ProfileDir: cfg.Browser.ProfileDir,
		})
		if err != nil {
			return nil, err
		}
		s.browser = b
		s.exec = executor.WithLogging(executor.NewRod(b.Page(), executor.Options{}), logger)
		logger.Debug("browser session ready", zap.String("url", cfg.Browser.URL), zap.Stringer("dialect", dialect))
		return s, nil
	}

	s.exec = executor.WithLogging(executor.NewHTTP(executor.HTTPOptions{
		BaseURL:   cfg.Remote.URL,
		SessionID: cfg.Remote.SessionID,
		Dialect:   dialect,
		Timeout:   cfg.Remote.RequestTimeout,
	}), logger)
	logger.Debug("remote session ready",
		zap.String("url", cfg.Remote.URL),
		zap.String("session_id", cfg.Remote.SessionID),
		zap.Stringer("dialect", dialect))
	return s, nil
}

// element resolves an element argument through the session's executor. In
// browser mode the id is a CSS selector, otherwise a wire element id.
func (s *session) element(id string) wire.Element {
	return browser.NewRemoteElement(id, s.exec, s.dialect)
}

func (s *session) Close() {
	if s.browser != nil {
		s.browser.Close()
	}
	_ = s.logger.Sync()
}

// withSession runs fn against a freshly opened session, canceled on SIGINT/SIGTERM
func withSession(v *viper.Viper, fn func(ctx context.Context, s *session) error) error {
	s, err := openSession(v)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fn(ctx, s); err != nil {
		fmt.Println("✗", err)
		return err
	}
	return nil
}
