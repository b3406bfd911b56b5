// Package config loads client settings from defaults, a .diary.yaml file,
// DIARY_ environment variables and command line flags, in rising priority.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/diary/pkg/diary"
)

const (
	envPrefix  = "DIARY"
	configName = ".diary" // .yaml is implicit
	pathEnv    = "DIARY_CONFIG_PATH"

	KeyServerURL       = "server.url"
	KeyLogLevel        = "log.level"
	KeyLogPath         = "log.path"
	KeyAutosaveDelay   = "autosave.delay"
	KeyCheckDelay      = "check.delay"
	KeyOverlayDuration = "overlay.duration"
	KeyStatusReset     = "status.reset"
	KeyUnloadTimeout   = "unload.timeout"

	defaultServerURL     = "http://localhost:5000"
	defaultLogLevel      = "info"
	defaultLogPath       = "~/.diary/diary.log"
	defaultUnloadTimeout = 3 * time.Second
)

// Config is the resolved client configuration.
type Config struct {
	ServerURL       string        `json:"server_url"`
	LogLevel        string        `json:"log_level"`
	LogPath         string        `json:"log_path"`
	AutosaveDelay   time.Duration `json:"autosave_delay"`
	CheckDelay      time.Duration `json:"check_delay"`
	OverlayDuration time.Duration `json:"overlay_duration"`
	StatusReset     time.Duration `json:"status_reset"`
	UnloadTimeout   time.Duration `json:"unload_timeout"`

	// File is the config file that was read, empty when none was found.
	File string `json:"file,omitempty"`
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults configures defaults, env bindings and the config file search
// path on v.
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	timings := diary.DefaultTimings()
	v.SetDefault(KeyServerURL, defaultServerURL)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogPath, defaultLogPath)
	v.SetDefault(KeyAutosaveDelay, timings.SaveDelay)
	v.SetDefault(KeyCheckDelay, timings.CheckDelay)
	v.SetDefault(KeyOverlayDuration, timings.OverlayDuration)
	v.SetDefault(KeyStatusReset, timings.StatusReset)
	v.SetDefault(KeyUnloadTimeout, defaultUnloadTimeout)

	v.SetConfigName(configName)
	if override := os.Getenv(pathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
}

// ReadFile reads the config file if one exists. A missing file is not an
// error; a file given with SetConfigFile must exist.
func ReadFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

// Load parses runtime configuration from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		ServerURL:       strings.TrimSpace(v.GetString(KeyServerURL)),
		LogLevel:        v.GetString(KeyLogLevel),
		LogPath:         v.GetString(KeyLogPath),
		AutosaveDelay:   v.GetDuration(KeyAutosaveDelay),
		CheckDelay:      v.GetDuration(KeyCheckDelay),
		OverlayDuration: v.GetDuration(KeyOverlayDuration),
		StatusReset:     v.GetDuration(KeyStatusReset),
		UnloadTimeout:   v.GetDuration(KeyUnloadTimeout),
		File:            v.ConfigFileUsed(),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("%s is required", KeyServerURL)
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", KeyServerURL, c.ServerURL)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%s must be one of debug, info, warn, error, got %q", KeyLogLevel, c.LogLevel)
	}
	durations := []struct {
		key string
		d   time.Duration
	}{
		{KeyAutosaveDelay, c.AutosaveDelay},
		{KeyCheckDelay, c.CheckDelay},
		{KeyOverlayDuration, c.OverlayDuration},
		{KeyStatusReset, c.StatusReset},
		{KeyUnloadTimeout, c.UnloadTimeout},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be a positive duration", d.key)
		}
	}
	return nil
}

// Timings returns the controller delays.
func (c Config) Timings() diary.Timings {
	return diary.Timings{
		SaveDelay:       c.AutosaveDelay,
		StatusReset:     c.StatusReset,
		CheckDelay:      c.CheckDelay,
		OverlayDuration: c.OverlayDuration,
	}
}

// Watch reloads the config whenever the file changes on disk and hands the
// result to onChange. Invalid edits are reported as errors and the previous
// values stay in effect for the caller. It reports whether a watch was
// started, which needs a config file to have been read.
func Watch(v *viper.Viper, onChange func(Config, error)) bool {
	if v.ConfigFileUsed() == "" {
		return false
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		onChange(Load(v))
	})
	v.WatchConfig()
	return true
}
