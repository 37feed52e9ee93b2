package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("ssh.binary", cfg.SSH.Binary)
	v.SetDefault("ssh.args", cfg.SSH.Args)
	v.SetDefault("ssh.config_path", cfg.SSH.ConfigPath)
	v.SetDefault("ssh.env", cfg.SSH.Env)
	v.SetDefault("store.dir", cfg.Store.Dir)
	v.SetDefault("markers.prompt", cfg.Markers.Prompt)
	v.SetDefault("markers.denied", cfg.Markers.Denied)
	v.SetDefault("markers.login_banner", cfg.Markers.LoginBanner)
	v.SetDefault("markers.outdated_notice", cfg.Markers.OutdatedNotice)
	v.SetDefault("session.term", cfg.Session.Term)
	v.SetDefault("session.input_queue_size", cfg.Session.InputQueueSize)
	v.SetDefault("session.read_chunk_size", cfg.Session.ReadChunkSize)
	v.SetDefault("session.output_transcript_limit", cfg.Session.OutputTranscriptLimit)
	v.SetDefault("session.input_transcript_limit", cfg.Session.InputTranscriptLimit)
	v.SetDefault("session.poll_interval_ms", cfg.Session.PollIntervalMS)
	v.SetDefault("session.exit_grace_ms", cfg.Session.ExitGraceMS)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.SSH.Binary) == "" {
		return fmt.Errorf("ssh.binary must not be empty")
	}
	if strings.TrimSpace(cfg.Store.Dir) == "" {
		return fmt.Errorf("store.dir must not be empty")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported logging.level %q", cfg.Logging.Level)
	}
	for _, entry := range cfg.SSH.Env {
		if key, _, ok := strings.Cut(entry, "="); !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("ssh.env entry %q must be KEY=VALUE", entry)
		}
	}
	s := cfg.Session
	if s.InputQueueSize < 0 || s.ReadChunkSize < 0 || s.OutputTranscriptLimit < 0 ||
		s.InputTranscriptLimit < 0 || s.PollIntervalMS < 0 || s.ExitGraceMS < 0 {
		return fmt.Errorf("session values must not be negative")
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.SSH.Binary = expandEnv(cfg.SSH.Binary)
	cfg.SSH.ConfigPath = expandEnv(cfg.SSH.ConfigPath)
	cfg.Store.Dir = expandEnv(cfg.Store.Dir)
	cfg.Logging.File = expandEnv(cfg.Logging.File)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, strings.TrimPrefix(value, "~"))
		}
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
