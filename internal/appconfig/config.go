package appconfig

import (
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	SSH           SSHConfig     `mapstructure:"ssh" yaml:"ssh"`
	Store         StoreConfig   `mapstructure:"store" yaml:"store"`
	Markers       MarkersConfig `mapstructure:"markers" yaml:"markers"`
	Session       SessionConfig `mapstructure:"session" yaml:"session"`
	Logging       LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// SSHConfig controls the ssh client that is spawned.
type SSHConfig struct {
	Binary     string   `mapstructure:"binary" yaml:"binary"`
	Args       []string `mapstructure:"args" yaml:"args"`
	ConfigPath string   `mapstructure:"config_path" yaml:"config_path"`
	// Env holds KEY=VALUE entries set for the ssh process on top of the
	// inherited environment.
	Env []string `mapstructure:"env" yaml:"env"`
}

// StoreConfig locates the encrypted credential store.
type StoreConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// MarkersConfig overrides the prompt texts the password capture matches.
// Empty values keep the built-in OpenSSH markers.
type MarkersConfig struct {
	Prompt         string `mapstructure:"prompt" yaml:"prompt"`
	Denied         string `mapstructure:"denied" yaml:"denied"`
	LoginBanner    string `mapstructure:"login_banner" yaml:"login_banner"`
	OutdatedNotice string `mapstructure:"outdated_notice" yaml:"outdated_notice"`
}

// SessionConfig tunes the PTY session.
type SessionConfig struct {
	Term                  string `mapstructure:"term" yaml:"term"`
	InputQueueSize        int    `mapstructure:"input_queue_size" yaml:"input_queue_size"`
	ReadChunkSize         int    `mapstructure:"read_chunk_size" yaml:"read_chunk_size"`
	OutputTranscriptLimit int    `mapstructure:"output_transcript_limit" yaml:"output_transcript_limit"`
	InputTranscriptLimit  int    `mapstructure:"input_transcript_limit" yaml:"input_transcript_limit"`
	PollIntervalMS        int    `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
	ExitGraceMS           int    `mapstructure:"exit_grace_ms" yaml:"exit_grace_ms"`
}

// LoggingConfig controls the log file. The terminal belongs to the session,
// so logs never go to stdout or stderr while it runs.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return Config{}, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}

	return Config{
		ConfigVersion: CurrentConfigVersion,
		SSH: SSHConfig{
			Binary:     "ssh",
			Args:       []string{},
			Env:        []string{},
			ConfigPath: filepath.Join(home, ".ssh", "config"),
		},
		Store: StoreConfig{
			Dir: dir,
		},
		Session: SessionConfig{
			Term:                  "xterm-256color",
			InputQueueSize:        32,
			ReadChunkSize:         1024,
			OutputTranscriptLimit: 1024,
			InputTranscriptLimit:  4096,
			PollIntervalMS:        10,
			ExitGraceMS:           500,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dir, "fssh.log"),
		},
	}, nil
}

// DefaultDir returns the per-user fssh directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "fssh"), nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
