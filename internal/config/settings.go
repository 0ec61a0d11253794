package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Overwrite policies applied when the destination file already exists.
const (
	OverwriteAsk    = "ask"
	OverwriteAlways = "always"
	OverwriteNever  = "never"
)

// Playlist formats written after a batch.
const (
	PlaylistNone = "none"
	PlaylistM3U  = "m3u"
	PlaylistPLS  = "pls"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	SaveDir    string  `json:"save_dir" envconfig:"NETEASE_DL_SAVE_DIR"`
	MaxRetries int     `json:"max_retries" envconfig:"NETEASE_DL_MAX_RETRIES"`
	RetryDelay float64 `json:"retry_delay" envconfig:"NETEASE_DL_RETRY_DELAY"`
	PaceDelay  float64 `json:"pace_delay" envconfig:"NETEASE_DL_PACE_DELAY"`
	Overwrite  string  `json:"overwrite" envconfig:"NETEASE_DL_OVERWRITE"`
	ChunkSize  int     `json:"chunk_size" envconfig:"NETEASE_DL_CHUNK_SIZE"`

	// Timeouts, in seconds
	ProbeTimeout    float64 `json:"probe_timeout" envconfig:"NETEASE_DL_PROBE_TIMEOUT"`
	FetchTimeout    float64 `json:"fetch_timeout" envconfig:"NETEASE_DL_FETCH_TIMEOUT"`
	MetadataTimeout float64 `json:"metadata_timeout" envconfig:"NETEASE_DL_METADATA_TIMEOUT"`
	APITimeout      float64 `json:"api_timeout" envconfig:"NETEASE_DL_API_TIMEOUT"`

	// Remote service
	BaseURL   string `json:"base_url" envconfig:"NETEASE_DL_BASE_URL"`
	UserAgent string `json:"user_agent" envconfig:"NETEASE_DL_USER_AGENT"`

	// Tag settings
	WriteTags    bool `json:"write_tags" envconfig:"NETEASE_DL_WRITE_TAGS"`
	EmbedCover   bool `json:"embed_cover" envconfig:"NETEASE_DL_EMBED_COVER"`
	CoverMaxSize int  `json:"cover_max_size" envconfig:"NETEASE_DL_COVER_MAX_SIZE"`

	// Playlist settings
	PlaylistFormat string `json:"playlist_format" envconfig:"NETEASE_DL_PLAYLIST_FORMAT"`

	LogLevel string `json:"log_level" envconfig:"NETEASE_DL_LOG_LEVEL"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		SaveDir:    "downloads",
		MaxRetries: 3,
		RetryDelay: 2,
		PaceDelay:  1,
		Overwrite:  OverwriteAsk,
		ChunkSize:  8192,

		ProbeTimeout:    10,
		FetchTimeout:    30,
		MetadataTimeout: 5,
		APITimeout:      10,

		BaseURL:   "https://music.163.com",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",

		WriteTags:    false,
		EmbedCover:   true,
		CoverMaxSize: 500,

		PlaylistFormat: PlaylistNone,

		LogLevel: "WARN",
	}
}

// Load reads settings from a JSON file.
// A missing file is not an error; defaults are returned instead.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from NETEASE_DL_* environment variables.
// Variables that are not set leave the current value untouched.
//
// The tags carry the full variable names and no prefix is passed, so
// envconfig never falls back to unprefixed names such as BASE_URL.
func (s *Settings) ApplyEnv() error {
	if err := envconfig.Process("", s); err != nil {
		return fmt.Errorf("error processing env: %w", err)
	}
	return nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.SaveDir) == "" {
		return fmt.Errorf("save_dir must not be empty")
	}
	if s.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", s.MaxRetries)
	}
	if s.RetryDelay < 0 || s.PaceDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if s.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", s.ChunkSize)
	}
	switch s.Overwrite {
	case OverwriteAsk, OverwriteAlways, OverwriteNever:
	default:
		return fmt.Errorf("unknown overwrite policy %q", s.Overwrite)
	}
	switch s.PlaylistFormat {
	case "", PlaylistNone, PlaylistM3U, PlaylistPLS:
	default:
		return fmt.Errorf("unknown playlist format %q", s.PlaylistFormat)
	}
	return nil
}

// RetryDelayDuration returns the fixed pause between download attempts.
func (s *Settings) RetryDelayDuration() time.Duration { return seconds(s.RetryDelay) }

// PaceDelayDuration returns the pause after every batch item.
func (s *Settings) PaceDelayDuration() time.Duration { return seconds(s.PaceDelay) }

// ProbeTimeoutDuration returns the timeout of the HEAD probe.
func (s *Settings) ProbeTimeoutDuration() time.Duration { return seconds(s.ProbeTimeout) }

// FetchTimeoutDuration returns how long to wait for the body response headers.
func (s *Settings) FetchTimeoutDuration() time.Duration { return seconds(s.FetchTimeout) }

// MetadataTimeoutDuration returns the timeout of song detail lookups.
func (s *Settings) MetadataTimeoutDuration() time.Duration { return seconds(s.MetadataTimeout) }

// APITimeoutDuration returns the timeout of API list and search requests.
func (s *Settings) APITimeoutDuration() time.Duration { return seconds(s.APITimeout) }

// SlogLevel maps LogLevel to a slog.Level, defaulting to WARN.
func (s *Settings) SlogLevel() slog.Level {
	switch strings.ToUpper(s.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
