package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/iav/blob"
	"github.com/CrestNiraj12/iav/domain"
	"github.com/CrestNiraj12/iav/gallery"
	"github.com/CrestNiraj12/iav/infra/archive"
	"github.com/CrestNiraj12/iav/infra/auth"
	"github.com/CrestNiraj12/iav/infra/config"
	"github.com/CrestNiraj12/iav/infra/logging"
	"github.com/CrestNiraj12/iav/infra/opener"
	"github.com/CrestNiraj12/iav/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliLogout
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	case "--logout", "logout":
		return cliLogout, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: " + domain.AppName + " [--version|-version|-v] [--help|-h] [--logout]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("%s %s\ncommit: %s\nbuilt: %s\n", domain.AppTitle, v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	if err := run(mode); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", domain.AppName, err)
		os.Exit(1)
	}
}

func run(mode cliMode) error {
	// 1. Load config from environment.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	session := auth.NewSession(auth.NewFileTokenStore(cfg.TokenPath), log)
	if mode == cliLogout {
		if err := session.Logout(); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	}

	// 2. Build infrastructure.
	client := archive.NewClient(cfg.APIURL, cfg.HTTPTimeout, log)
	mediaSvc := archive.NewMediaService(client)
	store := gallery.NewStore(mediaSvc, log)

	// Cached responses and the listing belong to one credential.
	session.OnChange(func(string) {
		client.ResetCache()
		store.Invalidate()
	})

	pool, err := blob.NewPool(cfg.CacheDir, log)
	if err != nil {
		return fmt.Errorf("media cache: %w", err)
	}
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warn("releasing media handles", zap.Error(err))
		}
	}()

	// 3. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Session:     session,
		Auth:        archive.NewAuthService(client),
		Media:       mediaSvc,
		Connections: archive.NewConnectionService(client),
		Hashtags:    archive.NewHashtagService(client),
		Upload:      archive.NewUploadService(client),
		Store:       store,
		Pool:        pool,
		Opener:      opener.NewEnvOpener(),
		Log:         log,
		PageSize:    cfg.PageSize,
	})

	log.Info("starting", zap.String("api", cfg.APIURL), zap.Int("page_size", cfg.PageSize))

	// 4. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
