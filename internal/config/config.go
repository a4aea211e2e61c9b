// Package config resolves quizdeck settings from defaults, an optional .env
// file and QUIZDECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/quizdeck/internal/store"
	"github.com/abhisek/quizdeck/internal/tamper"
)

// Environment variables.
const (
	EnvDB              = "QUIZDECK_DB"
	EnvAPI             = "QUIZDECK_API"
	EnvUser            = "QUIZDECK_USER"
	EnvListen          = "QUIZDECK_LISTEN"
	EnvAPITimeout      = "QUIZDECK_API_TIMEOUT"
	EnvTamperThreshold = "QUIZDECK_TAMPER_THRESHOLD"
	EnvTamperShortcuts = "QUIZDECK_TAMPER_SHORTCUTS"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Config holds resolved settings.
type Config struct {
	// DBPath is the SQLite database used in local mode and by the server.
	DBPath string
	// APIURL switches the TUI to a remote quiz server when set.
	APIURL string
	// UserID identifies the learner.
	UserID string
	// ListenAddr is the server's listen address.
	ListenAddr string
	// APITimeout bounds each request to a remote quiz server.
	APITimeout time.Duration
	// Tamper configures the attempt screen's tamper monitor.
	Tamper tamper.Config
}

// Remote reports whether the TUI should use a remote quiz server.
func (c Config) Remote() bool {
	return c.APIURL != ""
}

// Default returns the built-in configuration.
func Default() (Config, error) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return Config{}, err
	}
	return Config{
		DBPath:     dbPath,
		UserID:     defaultUser(),
		ListenAddr: ":8080",
		APITimeout: 10 * time.Second,
		Tamper:     tamper.DefaultConfig(),
	}, nil
}

// Load resolves the configuration. Values from envFile are used only where
// the process environment does not set the same variable. A missing envFile
// is not an error.
func Load(envFile string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	fileEnv := map[string]string{}
	if envFile != "" {
		fileEnv, err = godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
		if fileEnv == nil {
			fileEnv = map[string]string{}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvDB); ok {
		cfg.DBPath = v
	}
	if v, ok := lookup(EnvAPI); ok {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v, ok := lookup(EnvUser); ok {
		cfg.UserID = v
	}
	if v, ok := lookup(EnvListen); ok {
		cfg.ListenAddr = v
	}
	if v, ok := lookup(EnvAPITimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%s: invalid duration %q", EnvAPITimeout, v)
		}
		cfg.APITimeout = d
	}
	if v, ok := lookup(EnvTamperThreshold); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: invalid threshold %q", EnvTamperThreshold, v)
		}
		cfg.Tamper.Threshold = n
	}
	if v, ok := lookup(EnvTamperShortcuts); ok {
		cfg.Tamper.Shortcuts = splitList(v)
	}

	return cfg, nil
}

func defaultUser() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "local"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
