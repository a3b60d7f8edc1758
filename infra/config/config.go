package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/CrestNiraj12/iav/domain"
)

// Config holds application-level configuration.
type Config struct {
	APIURL      string        // e.g. "http://localhost:8080"
	AuthDir     string        // Directory holding the persisted token
	TokenPath   string        // AuthDir/token
	LogPath     string        // zap JSON log file
	CacheDir    string        // Parent directory for fetched media handles
	HTTPTimeout time.Duration // Per-request timeout for API calls
	PageSize    int           // Media items visible (and loading) at once
	Debug       bool          // Log at debug level
}

// Load reads configuration from environment variables.
//
//	IAV_API_URL       archive API base URL (default: http://localhost:8080)
//	IAV_AUTH_DIR      token directory (default: ~/.config/iav)
//	IAV_LOG_PATH      log file (default: <auth dir>/iav.log)
//	IAV_CACHE_DIR     media handle directory parent (default: OS temp dir)
//	IAV_HTTP_TIMEOUT  request timeout (default: 30s)
//	IAV_PAGE_SIZE     visible gallery items (default: 6)
//	IAV_DEBUG         any non-empty value enables debug logging
func Load() (Config, error) {
	apiURL := os.Getenv("IAV_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid IAV_API_URL: must be an absolute URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Config{}, fmt.Errorf("invalid IAV_API_URL: scheme must be http or https")
	}
	apiURL = strings.TrimRight(parsed.String(), "/")

	authDir := os.Getenv("IAV_AUTH_DIR")
	if authDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		authDir = filepath.Join(home, ".config", domain.AppName)
	}

	logPath := os.Getenv("IAV_LOG_PATH")
	if logPath == "" {
		logPath = filepath.Join(authDir, domain.AppName+".log")
	}

	cacheDir := os.Getenv("IAV_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}

	timeout := 30 * time.Second
	if v, ok := os.LookupEnv("IAV_HTTP_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid IAV_HTTP_TIMEOUT %q: must be a positive duration", v)
		}
		timeout = d
	}

	pageSize := 6
	if v, ok := os.LookupEnv("IAV_PAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 48 {
			return Config{}, fmt.Errorf("invalid IAV_PAGE_SIZE %q: must be between 1 and 48", v)
		}
		pageSize = n
	}

	return Config{
		APIURL:      apiURL,
		AuthDir:     authDir,
		TokenPath:   filepath.Join(authDir, "token"),
		LogPath:     logPath,
		CacheDir:    cacheDir,
		HTTPTimeout: timeout,
		PageSize:    pageSize,
		Debug:       os.Getenv("IAV_DEBUG") != "",
	}, nil
}
