package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ZebulonRouseFrantzich/swissknife"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/config"
)

// Viper keys, bound to the persistent flags of the same name and to
// SWISSKNIFE_<KEY> environment variables.
const (
	keyConfig    = "config"
	keyCacheRoot = "cache-root"
	keyLogLevel  = "log-level"
)

// app holds the state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper

	cfg    *config.Config
	logger *slog.Logger
	client *swissknife.Client
}

func newApp(stdout, stderr io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix("SWISSKNIFE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &app{stdout: stdout, stderr: stderr, v: v}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "swissknife",
		Short: "Windows desktop automation from the command line",
		Long: titleStyle.Render("swissknife") + ` - Windows desktop automation from the command line

Speech, volume, screenshots, dialogs, notifications, window actions, beeps
and MP3 playback, driven through the bundled NirCmd and cmdmp3 helpers.
The helpers are written to a per-user cache directory on first use.

Settings are read from ` + config.DefaultPath() + ` (Lua) and can be
overridden with flags or SWISSKNIFE_CACHE_ROOT, SWISSKNIFE_LOG_LEVEL and
SWISSKNIFE_CONFIG.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.String(keyConfig, "", "config file (default "+config.DefaultPath()+")")
	flags.String(keyCacheRoot, "", "directory helpers are written to")
	flags.String(keyLogLevel, "", "log level: debug, info, warn, error")

	for _, key := range []string{keyConfig, keyCacheRoot, keyLogLevel} {
		// Lookup cannot return nil for a flag defined just above.
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		newSpeakCmd(a),
		newVolumeCmd(a),
		newMuteCmd(a),
		newUnmuteCmd(a),
		newBeepCmd(a),
		newWinBeepCmd(a),
		newPlayCmd(a),
		newScreenshotCmd(a),
		newQuestionCmd(a),
		newInfoCmd(a),
		newNotifyCmd(a),
		newWinCmd(a),
		newInstallCmd(a),
		newStatusCmd(a),
		newCacheCmd(a),
	)

	return root
}

// setup loads configuration, applies flag and environment overrides and
// builds the client.
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(ctx, config.LoadOptions{Path: a.v.GetString(keyConfig)})
	if err != nil {
		return err
	}

	if root := a.v.GetString(keyCacheRoot); root != "" {
		cfg.CacheRoot = root
	}
	if level := a.v.GetString(keyLogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(a.stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		logger.Debug("loaded config", "path", cfg.Source)
	}

	client, err := swissknife.New(ctx, swissknife.Config{
		CacheRoot: cfg.CacheRoot,
		Speak: swissknife.SpeakOptions{
			Rate:   cfg.Speak.Rate,
			Volume: cfg.Speak.Volume,
		},
		Notification: swissknife.NotificationOptions{
			Icon:    cfg.Notification.Icon,
			Timeout: time.Duration(cfg.Notification.TimeoutMs) * time.Millisecond,
		},
		Logger: logger,
		Stderr: a.stderr,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.client = client

	return nil
}
