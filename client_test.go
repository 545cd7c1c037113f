package swissknife

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/swissknife/internal/binary"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/invoke"
	"github.com/ZebulonRouseFrantzich/swissknife/internal/platform"
)

// fakeRunner records helper invocations and returns a fixed result.
type fakeRunner struct {
	mu    sync.Mutex
	calls []fakeCall
	code  invoke.ExitCode
	err   error
}

type fakeCall struct {
	Binary binary.Binary
	Args   []string
}

func (f *fakeRunner) RunHelper(_ context.Context, b binary.Binary, args ...string) (invoke.ExitCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{Binary: b, Args: args})
	return f.code, f.err
}

func (f *fakeRunner) last(t *testing.T) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no helper was run")
	}
	return f.calls[len(f.calls)-1]
}

func TestClientArgv(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func(c *Client) error
		binary binary.Binary
		want   string
	}{
		{
			name:   "speak_defaults",
			call:   func(c *Client) error { _, err := c.Speak(ctx, "Hello from the other world", SpeakOptions{}); return err },
			binary: binary.Nircmd,
			want:   "speak|text|Hello from the other world|0|50",
		},
		{
			name:   "speak_options",
			call:   func(c *Client) error { _, err := c.Speak(ctx, "hi", SpeakOptions{Rate: -3, Volume: 80}); return err },
			binary: binary.Nircmd,
			want:   "speak|text|hi|-3|80",
		},
		{
			name:   "set_volume",
			call:   func(c *Client) error { _, err := c.SetVolume(ctx, 90); return err },
			binary: binary.Nircmd,
			want:   "setsysvolume|58981",
		},
		{
			name:   "set_volume_max",
			call:   func(c *Client) error { _, err := c.SetVolume(ctx, 100); return err },
			binary: binary.Nircmd,
			want:   "setsysvolume|65535",
		},
		{
			name:   "set_volume_zero",
			call:   func(c *Client) error { _, err := c.SetVolume(ctx, 0); return err },
			binary: binary.Nircmd,
			want:   "setsysvolume|0",
		},
		{
			name:   "mute",
			call:   func(c *Client) error { _, err := c.Mute(ctx); return err },
			binary: binary.Nircmd,
			want:   "mutesysvolume|1",
		},
		{
			name:   "unmute",
			call:   func(c *Client) error { _, err := c.Unmute(ctx); return err },
			binary: binary.Nircmd,
			want:   "mutesysvolume|0",
		},
		{
			name: "screenshot_single",
			call: func(c *Client) error {
				_, err := c.Screenshot(ctx, `c:\shots\a.png`, Single, nil)
				return err
			},
			binary: binary.Nircmd,
			want:   `savescreenshot|c:\shots\a.png`,
		},
		{
			name: "screenshot_default_monitor",
			call: func(c *Client) error {
				_, err := c.Screenshot(ctx, "a.png", "", nil)
				return err
			},
			binary: binary.Nircmd,
			want:   "savescreenshot|a.png",
		},
		{
			name: "screenshot_dual",
			call: func(c *Client) error {
				_, err := c.Screenshot(ctx, "a.png", Dual, nil)
				return err
			},
			binary: binary.Nircmd,
			want:   "savescreenshotfull|a.png",
		},
		{
			name: "screenshot_window_region",
			call: func(c *Client) error {
				_, err := c.Screenshot(ctx, "a.png", Window, &Region{X: 10, Y: 30, Width: 200, Height: 150})
				return err
			},
			binary: binary.Nircmd,
			want:   "savescreenshotwin|a.png|10|30|200|150",
		},
		{
			name:   "question_box",
			call:   func(c *Client) error { _, err := c.QuestionBox(ctx, "A Question", "Quit?"); return err },
			binary: binary.Nircmd,
			want:   "qboxcom|Quit?|A Question|returnval|0x30",
		},
		{
			name:   "info_box",
			call:   func(c *Client) error { _, err := c.InfoBox(ctx, "Go", "Go is great!"); return err },
			binary: binary.Nircmd,
			want:   "infobox|Go is great!|Go",
		},
		{
			name:   "beep",
			call:   func(c *Client) error { _, err := c.Beep(ctx, 500, 1000); return err },
			binary: binary.Nircmd,
			want:   "beep|500|1000",
		},
		{
			name:   "win_beep",
			call:   func(c *Client) error { _, err := c.WinBeep(ctx); return err },
			binary: binary.Nircmd,
			want:   "stdbeep",
		},
		{
			name: "notification_defaults",
			call: func(c *Client) error {
				_, err := c.Notification(ctx, "My Title", "Hello Notification", NotificationOptions{})
				return err
			},
			binary: binary.Nircmd,
			want:   "trayballoon|My Title|Hello Notification|shell32.dll,77|5000",
		},
		{
			name: "notification_options",
			call: func(c *Client) error {
				_, err := c.Notification(ctx, "T", "x", NotificationOptions{Icon: 12, Timeout: 2 * time.Second})
				return err
			},
			binary: binary.Nircmd,
			want:   "trayballoon|T|x|shell32.dll,12|2000",
		},
		{
			name:   "win_action_contains",
			call:   func(c *Client) error { _, err := c.WinAction(ctx, "Untit", Contains, Flash); return err },
			binary: binary.Nircmd,
			want:   "win|flash|ititle|Untit",
		},
		{
			name:   "win_action_equals",
			call:   func(c *Client) error { _, err := c.WinAction(ctx, "Calculator", Equals, Close); return err },
			binary: binary.Nircmd,
			want:   "win|close|title|Calculator",
		},
		{
			name:   "win_action_starts_with",
			call:   func(c *Client) error { _, err := c.WinAction(ctx, "Note", StartsWith, Max); return err },
			binary: binary.Nircmd,
			want:   "win|max|stitle|Note",
		},
		{
			name:   "win_action_ends_with",
			call:   func(c *Client) error { _, err := c.WinAction(ctx, "pad", EndsWith, WinAction("SetTopMost")); return err },
			binary: binary.Nircmd,
			want:   "win|settopmost|etitle|pad",
		},
		{
			name:   "play_mp3",
			call:   func(c *Client) error { _, err := c.PlayMP3(ctx, `c:\music\sound.mp3`); return err },
			binary: binary.Cmdmp3,
			want:   `c:\music\sound.mp3`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			c := newClient(runner, Config{})

			if err := tt.call(c); err != nil {
				t.Fatalf("call error = %v", err)
			}

			got := runner.last(t)
			if got.Binary != tt.binary {
				t.Errorf("binary = %s, want %s", got.Binary, tt.binary)
			}
			if argv := strings.Join(got.Args, "|"); argv != tt.want {
				t.Errorf("argv = %q, want %q", argv, tt.want)
			}
		})
	}
}

func TestClientConfiguredDefaults(t *testing.T) {
	runner := &fakeRunner{}
	c := newClient(runner, Config{
		Speak:        SpeakOptions{Rate: 2, Volume: 80},
		Notification: NotificationOptions{Icon: 5, Timeout: time.Second},
	})
	ctx := context.Background()

	if _, err := c.Speak(ctx, "hi", SpeakOptions{Volume: 10}); err != nil {
		t.Fatal(err)
	}
	if argv := strings.Join(runner.last(t).Args, "|"); argv != "speak|text|hi|2|10" {
		t.Errorf("speak argv = %q", argv)
	}

	if _, err := c.Notification(ctx, "T", "x", NotificationOptions{}); err != nil {
		t.Fatal(err)
	}
	if argv := strings.Join(runner.last(t).Args, "|"); argv != "trayballoon|T|x|shell32.dll,5|1000" {
		t.Errorf("notification argv = %q", argv)
	}
}

func TestQuestionBoxMapping(t *testing.T) {
	tests := []struct {
		code invoke.ExitCode
		want bool
	}{
		{code: QuestionYes, want: true},
		{code: 0, want: false},
		{code: 1, want: false},
		{code: 49, want: false},
		{code: invoke.ExitUnsupported, want: false},
	}

	for _, tt := range tests {
		c := newClient(&fakeRunner{code: tt.code}, Config{})
		got, err := c.QuestionBox(context.Background(), "t", "q")
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("QuestionBox() with exit %d = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestScreenshotMapping(t *testing.T) {
	tests := []struct {
		code invoke.ExitCode
		want string
	}{
		{code: 0, want: `c:\shots\a.png`},
		{code: 1, want: "Error: exit code 1"},
		{code: 5, want: "Error: exit code 5"},
		{code: invoke.ExitUnsupported, want: "Error: exit code -1"},
	}

	for _, tt := range tests {
		c := newClient(&fakeRunner{code: tt.code}, Config{})
		got, err := c.Screenshot(context.Background(), `c:\shots\a.png`, Single, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("Screenshot() with exit %d = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestPlayMP3Mapping(t *testing.T) {
	for code, want := range map[invoke.ExitCode]bool{0: true, 1: false, invoke.ExitUnsupported: false} {
		c := newClient(&fakeRunner{code: code}, Config{})
		got, err := c.PlayMP3(context.Background(), "a.mp3")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("PlayMP3() with exit %d = %v, want %v", code, got, want)
		}
	}
}

func TestExitCodePassthrough(t *testing.T) {
	c := newClient(&fakeRunner{code: 7}, Config{})
	got, err := c.InfoBox(context.Background(), "t", "x")
	if err != nil {
		t.Fatal(err)
	}
	if got != 7 {
		t.Errorf("InfoBox() = %d, want 7", got)
	}
}

func TestInvalidArguments(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{}
	c := newClient(runner, Config{})

	tests := []struct {
		name string
		call func() error
	}{
		{"volume_negative", func() error { _, err := c.SetVolume(ctx, -1); return err }},
		{"volume_too_high", func() error { _, err := c.SetVolume(ctx, 101); return err }},
		{"speak_rate", func() error { _, err := c.Speak(ctx, "x", SpeakOptions{Rate: 11}); return err }},
		{"speak_volume", func() error { _, err := c.Speak(ctx, "x", SpeakOptions{Volume: 200}); return err }},
		{"beep_frequency", func() error { _, err := c.Beep(ctx, 0, 100); return err }},
		{"beep_duration", func() error { _, err := c.Beep(ctx, 500, -1); return err }},
		{"notification_timeout", func() error {
			_, err := c.Notification(ctx, "t", "x", NotificationOptions{Timeout: -time.Second})
			return err
		}},
		{"screenshot_monitor", func() error { _, err := c.Screenshot(ctx, "a.png", Monitor("Triple"), nil); return err }},
		{"screenshot_region", func() error { _, err := c.Screenshot(ctx, "a.png", Single, &Region{Width: 0, Height: 10}); return err }},
		{"win_find_mode", func() error { _, err := c.WinAction(ctx, "x", FindMode("Regex"), Close); return err }},
		{"win_action_empty", func() error { _, err := c.WinAction(ctx, "x", Equals, ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}

	if len(runner.calls) != 0 {
		t.Errorf("helper ran %d times for invalid arguments", len(runner.calls))
	}
}

func TestRunnerErrorPropagates(t *testing.T) {
	spawnErr := &invoke.SpawnError{Path: "nircmd.exe", Err: errors.New("not found")}
	c := newClient(&fakeRunner{err: spawnErr}, Config{})

	if _, err := c.WinBeep(context.Background()); !errors.Is(err, invoke.ErrSpawn) {
		t.Errorf("WinBeep() error = %v, want ErrSpawn", err)
	}
	if _, err := c.Screenshot(context.Background(), "a.png", Single, nil); !errors.Is(err, invoke.ErrSpawn) {
		t.Errorf("Screenshot() error = %v, want ErrSpawn", err)
	}
	if _, err := c.QuestionBox(context.Background(), "t", "q"); !errors.Is(err, invoke.ErrSpawn) {
		t.Errorf("QuestionBox() error = %v, want ErrSpawn", err)
	}
}

func TestUnsupportedPlatform(t *testing.T) {
	var stderr bytes.Buffer
	cacheRoot := t.TempDir()
	c := newWithInfo(&platform.Info{OS: "linux", Family: platform.Linux}, Config{
		CacheRoot: cacheRoot,
		Stderr:    &stderr,
	})

	code, err := c.Beep(context.Background(), 500, 10)
	if err != nil {
		t.Fatalf("Beep() error = %v", err)
	}
	if code != -1 {
		t.Errorf("Beep() = %d, want -1", code)
	}
	if !strings.Contains(stderr.String(), "only Windows is supported (host: linux)") {
		t.Errorf("stderr = %q", stderr.String())
	}

	yes, err := c.QuestionBox(context.Background(), "t", "q")
	if err != nil || yes {
		t.Errorf("QuestionBox() = %v, %v; want false, nil", yes, err)
	}

	statuses, err := c.Status()
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range statuses {
		if st.Installed {
			t.Errorf("%s was materialized on an unsupported platform", st.Binary)
		}
	}
}

func TestNewWithInfo_CacheRootFromEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c := newWithInfo(&platform.Info{OS: "linux", Family: platform.Linux}, Config{})
	want := platform.CacheRoot(platform.Linux, home)
	if c.CacheRoot() != want {
		t.Errorf("CacheRoot() = %q, want %q", c.CacheRoot(), want)
	}
}

func TestParseMonitorAndFindMode(t *testing.T) {
	if m, err := ParseMonitor("dual"); err != nil || m != Dual {
		t.Errorf("ParseMonitor(dual) = %q, %v", m, err)
	}
	if _, err := ParseMonitor("triple"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseMonitor(triple) error = %v", err)
	}
	if f, err := ParseFindMode("STARTSWITH"); err != nil || f != StartsWith {
		t.Errorf("ParseFindMode(STARTSWITH) = %q, %v", f, err)
	}
	if _, err := ParseFindMode("regex"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseFindMode(regex) error = %v", err)
	}
}
