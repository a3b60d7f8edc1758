package opener

import (
	"errors"
	"testing"
)

func TestCmd_UsesEnvOpenerWithArgs(t *testing.T) {
	t.Setenv("IAV_OPENER", "mpv --loop")
	o := NewEnvOpener()

	cmd, err := o.Cmd("/tmp/a.mp4")
	if err != nil {
		t.Fatalf("cmd failed: %v", err)
	}
	want := []string{"mpv", "--loop", "/tmp/a.mp4"}
	if len(cmd.Args) != len(want) {
		t.Fatalf("unexpected args: %v", cmd.Args)
	}
	for i := range want {
		if cmd.Args[i] != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, cmd.Args[i], want[i])
		}
	}
}

func TestCmd_PlatformFallback(t *testing.T) {
	t.Setenv("IAV_OPENER", "")

	mac := &EnvOpener{goos: "darwin"}
	cmd, err := mac.Cmd("/tmp/a.png")
	if err != nil || cmd.Args[0] != "open" {
		t.Fatalf("expected open on darwin, got %v %v", cmd, err)
	}

	linux := &EnvOpener{goos: "linux", lookPath: func(string) (string, error) { return "/usr/bin/xdg-open", nil }}
	cmd, err = linux.Cmd("/tmp/a.png")
	if err != nil || cmd.Args[0] != "xdg-open" {
		t.Fatalf("expected xdg-open, got %v %v", cmd, err)
	}

	bare := &EnvOpener{goos: "linux", lookPath: func(string) (string, error) { return "", errors.New("missing") }}
	if _, err := bare.Cmd("/tmp/a.png"); !errors.Is(err, ErrNoViewer) {
		t.Fatalf("expected ErrNoViewer, got %v", err)
	}
}

func TestCmd_RejectsEmptyPath(t *testing.T) {
	if _, err := NewEnvOpener().Cmd("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
