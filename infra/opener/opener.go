package opener

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoViewer is returned when no viewer command can be determined.
var ErrNoViewer = errors.New("no media viewer configured")

// EnvOpener prepares an external viewer command for a local media file using
// $IAV_OPENER, falling back to the platform opener. It does not run the
// command; callers hand it to tea.ExecProcess so the terminal is restored.
type EnvOpener struct {
	goos     string
	lookPath func(string) (string, error)
}

func NewEnvOpener() *EnvOpener {
	return &EnvOpener{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// Cmd returns the command that opens path.
func (o *EnvOpener) Cmd(path string) (*exec.Cmd, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("empty media path")
	}
	if v := strings.Fields(os.Getenv("IAV_OPENER")); len(v) > 0 {
		args := append(v[1:], path)
		return exec.Command(v[0], args...), nil
	}
	name := o.platformOpener()
	if name == "" {
		return nil, ErrNoViewer
	}
	return exec.Command(name, path), nil
}

func (o *EnvOpener) platformOpener() string {
	switch o.goos {
	case "darwin":
		return "open"
	case "windows":
		return ""
	}
	if _, err := o.lookPath("xdg-open"); err != nil {
		return ""
	}
	return "xdg-open"
}
