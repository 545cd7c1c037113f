package swissknife

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/binary"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/config"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/invoke"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/platform"
)

// QuestionYes is the exit code NirCmd's qboxcom returns when the user
// answers yes, given the "returnval 0x30" arguments QuestionBox passes.
const QuestionYes = 48

// Logger receives structured debug output. *slog.Logger satisfies it.
type Logger = config.Logger

// HelperStatus describes a materialized helper.
type HelperStatus = binary.Status

// Config configures a Client. The zero value is ready to use.
type Config struct {
	// CacheRoot is where helpers are written. Empty derives it from the
	// home directory: AppData/Local/bin/swissknife under USERPROFILE on
	// Windows, .cache/bin/swissknife (Linux) or Library/Caches/bin/swissknife
	// (macOS) under HOME.
	CacheRoot string
	// Speak holds the defaults for zero SpeakOptions fields.
	Speak SpeakOptions
	// Notification holds the defaults for zero NotificationOptions fields.
	Notification NotificationOptions
	// Logger receives debug output. Nil discards it.
	Logger Logger
	// Stderr receives the unsupported-platform diagnostic. Defaults to
	// os.Stderr.
	Stderr io.Writer
}

// helperRunner runs a named helper and returns its exit code.
type helperRunner interface {
	RunHelper(ctx context.Context, b binary.Binary, args ...string) (invoke.ExitCode, error)
}

// Client runs swissknife commands. It is safe for concurrent use.
type Client struct {
	runner  helperRunner
	manager *binary.Manager
	info    *platform.Info

	speak        SpeakOptions
	notification NotificationOptions
}

// New detects the host platform and returns a Client for it.
func New(ctx context.Context, cfg Config) (*Client, error) {
	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}
	return newWithInfo(info, cfg), nil
}

func newWithInfo(info *platform.Info, cfg Config) *Client {
	cacheRoot := cfg.CacheRoot
	if cacheRoot == "" {
		cacheRoot = platform.CacheRootFromEnv(info.Family, os.Getenv)
	}

	manager := binary.NewManager(binary.Config{
		CacheRoot: cacheRoot,
		Logger:    cfg.Logger,
	})
	invoker := invoke.New(invoke.Options{
		Family: info.Family,
		HostOS: info.OS,
		Stderr: cfg.Stderr,
		Logger: cfg.Logger,
	})

	c := newClient(invoke.NewRunner(manager, invoker), cfg)
	c.manager = manager
	c.info = info
	return c
}

func newClient(runner helperRunner, cfg Config) *Client {
	c := &Client{
		runner: runner,
		speak: SpeakOptions{
			Rate:   config.DefaultSpeakRate,
			Volume: config.DefaultSpeakVolume,
		},
		notification: NotificationOptions{
			Icon:    config.DefaultNotificationIcon,
			Timeout: time.Duration(config.DefaultNotificationTimeout) * time.Millisecond,
		},
	}
	if cfg.Speak.Rate != 0 {
		c.speak.Rate = cfg.Speak.Rate
	}
	if cfg.Speak.Volume != 0 {
		c.speak.Volume = cfg.Speak.Volume
	}
	if cfg.Notification.Icon != 0 {
		c.notification.Icon = cfg.Notification.Icon
	}
	if cfg.Notification.Timeout != 0 {
		c.notification.Timeout = cfg.Notification.Timeout
	}
	return c
}

// Platform returns the detected host platform.
func (c *Client) Platform() *platform.Info {
	return c.info
}

// CacheRoot returns the directory helpers are written to, empty when the
// home directory is unknown.
func (c *Client) CacheRoot() string {
	if c.manager == nil {
		return ""
	}
	return c.manager.CacheRoot()
}

// Install writes every helper to the cache root ahead of first use.
func (c *Client) Install(ctx context.Context) error {
	if c.manager == nil {
		return binary.ErrNoCacheRoot
	}
	return c.manager.InstallAll(ctx)
}

// Status reports the state of every helper.
func (c *Client) Status() ([]*HelperStatus, error) {
	if c.manager == nil {
		return nil, binary.ErrNoCacheRoot
	}
	out := make([]*HelperStatus, 0, len(binary.All))
	for _, b := range binary.All {
		st, err := c.manager.Status(b)
		if err != nil {
			return nil, fmt.Errorf("status %s: %w", b, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// Clean removes materialized helpers and returns the removed paths.
func (c *Client) Clean() ([]string, error) {
	if c.manager == nil {
		return nil, binary.ErrNoCacheRoot
	}
	return c.manager.Clean()
}

func (c *Client) nircmd(ctx context.Context, args ...string) (int, error) {
	code, err := c.runner.RunHelper(ctx, binary.Nircmd, args...)
	return int(code), err
}

// Speak reads text aloud with the system voice and returns the exit code.
func (c *Client) Speak(ctx context.Context, text string, opts SpeakOptions) (int, error) {
	if opts.Rate == 0 {
		opts.Rate = c.speak.Rate
	}
	if opts.Volume == 0 {
		opts.Volume = c.speak.Volume
	}
	if opts.Rate < config.MinSpeakRate || opts.Rate > config.MaxSpeakRate {
		return 0, invalidf("speak rate %d out of range [%d, %d]", opts.Rate, config.MinSpeakRate, config.MaxSpeakRate)
	}
	if opts.Volume < config.MinVolume || opts.Volume > config.MaxVolume {
		return 0, invalidf("speak volume %d out of range [%d, %d]", opts.Volume, config.MinVolume, config.MaxVolume)
	}

	return c.nircmd(ctx, "speak", "text", text, strconv.Itoa(opts.Rate), strconv.Itoa(opts.Volume))
}

// SetVolume sets the system volume from 0 (silent) to 100 and returns the
// exit code. Values outside that range are not forwarded to nircmd; they
// fail with ErrInvalidArgument and no helper is started.
func (c *Client) SetVolume(ctx context.Context, volume int) (int, error) {
	if volume < config.MinVolume || volume > config.MaxVolume {
		return 0, invalidf("volume %d out of range [%d, %d]", volume, config.MinVolume, config.MaxVolume)
	}
	level := int(math.Floor(655.35 * float64(volume)))
	return c.nircmd(ctx, "setsysvolume", strconv.Itoa(level))
}

// Mute mutes the system sound and returns the exit code.
func (c *Client) Mute(ctx context.Context) (int, error) {
	return c.nircmd(ctx, "mutesysvolume", "1")
}

// Unmute unmutes the system sound and returns the exit code.
func (c *Client) Unmute(ctx context.Context) (int, error) {
	return c.nircmd(ctx, "mutesysvolume", "0")
}

// Screenshot saves a PNG of the selected monitor, optionally cropped to
// region. It returns path when the helper exits 0 and
// "Error: exit code N" otherwise.
func (c *Client) Screenshot(ctx context.Context, path string, monitor Monitor, region *Region) (string, error) {
	cmd, err := monitor.command()
	if err != nil {
		return "", err
	}

	args := []string{cmd, path}
	if region != nil {
		if region.Width <= 0 || region.Height <= 0 {
			return "", invalidf("screenshot region %dx%d must have positive size", region.Width, region.Height)
		}
		args = append(args,
			strconv.Itoa(region.X),
			strconv.Itoa(region.Y),
			strconv.Itoa(region.Width),
			strconv.Itoa(region.Height),
		)
	}

	code, err := c.nircmd(ctx, args...)
	if err != nil {
		return "", err
	}
	if code != 0 {
		return fmt.Sprintf("Error: exit code %d", code), nil
	}
	return path, nil
}

// QuestionBox shows a yes/no dialog and reports whether the user chose yes.
func (c *Client) QuestionBox(ctx context.Context, title, text string) (bool, error) {
	code, err := c.nircmd(ctx, "qboxcom", text, title, "returnval", "0x30")
	if err != nil {
		return false, err
	}
	return code == QuestionYes, nil
}

// InfoBox shows a message box and returns the exit code.
func (c *Client) InfoBox(ctx context.Context, title, text string) (int, error) {
	return c.nircmd(ctx, "infobox", text, title)
}

// Beep plays a tone of frequency Hz for duration milliseconds and returns
// the exit code. A non-positive frequency or negative duration fails with
// ErrInvalidArgument instead of being passed through to nircmd.
func (c *Client) Beep(ctx context.Context, frequency, durationMs int) (int, error) {
	if frequency <= 0 {
		return 0, invalidf("beep frequency %d must be positive", frequency)
	}
	if durationMs < 0 {
		return 0, invalidf("beep duration %d must not be negative", durationMs)
	}
	return c.nircmd(ctx, "beep", strconv.Itoa(frequency), strconv.Itoa(durationMs))
}

// WinBeep plays the standard Windows notification sound and returns the
// exit code.
func (c *Client) WinBeep(ctx context.Context) (int, error) {
	return c.nircmd(ctx, "stdbeep")
}

// Notification shows a tray balloon and returns the exit code.
func (c *Client) Notification(ctx context.Context, title, text string, opts NotificationOptions) (int, error) {
	if opts.Icon == 0 {
		opts.Icon = c.notification.Icon
	}
	if opts.Timeout == 0 {
		opts.Timeout = c.notification.Timeout
	}
	if opts.Icon < 0 {
		return 0, invalidf("notification icon %d must not be negative", opts.Icon)
	}
	if opts.Timeout < 0 {
		return 0, invalidf("notification timeout %s must not be negative", opts.Timeout)
	}

	return c.nircmd(ctx,
		"trayballoon",
		title,
		text,
		"shell32.dll,"+strconv.Itoa(opts.Icon),
		strconv.FormatInt(opts.Timeout.Milliseconds(), 10),
	)
}

// WinAction applies action to the windows whose title matches title under
// find, for example WinAction(ctx, "Untit", Contains, Flash).
func (c *Client) WinAction(ctx context.Context, title string, find FindMode, action WinAction) (int, error) {
	selector, err := find.selector()
	if err != nil {
		return 0, err
	}
	if action == "" {
		return 0, invalidf("window action is empty")
	}
	return c.nircmd(ctx, "win", strings.ToLower(string(action)), selector, title)
}

// PlayMP3 plays a local MP3 file to the end and reports whether the player
// exited 0.
func (c *Client) PlayMP3(ctx context.Context, path string) (bool, error) {
	code, err := c.runner.RunHelper(ctx, binary.Cmdmp3, path)
	if err != nil {
		return false, err
	}
	return code.IsSuccess(), nil
}
