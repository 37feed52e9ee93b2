package terminal

import "time"

// Markers are the literal substrings the password heuristic looks for.
//
// They match OpenSSH's English prompts. Other locales or prompt texts simply
// never match, which disables capture without failing the session.
type Markers struct {
	// Prompt is the password prompt. The leading letter is omitted so both
	// "Password: " and "user@host's password: " match.
	Prompt string
	// Denied marks an authentication failure right after an injected password.
	Denied string
	// LoginBanner marks a successful login.
	LoginBanner string
	// OutdatedNotice replaces the denial text on screen.
	OutdatedNotice string
}

// DefaultMarkers returns the markers used by OpenSSH in English locales.
func DefaultMarkers() Markers {
	return Markers{
		Prompt:         "assword: ",
		Denied:         "ermission denied",
		LoginBanner:    "Last login",
		OutdatedNotice: "\x1b[1;4mCached password is outdated, please input it again.\x1b[0m\r\n",
	}
}

func (m Markers) withDefaults() Markers {
	def := DefaultMarkers()
	if m.Prompt == "" {
		m.Prompt = def.Prompt
	}
	if m.Denied == "" {
		m.Denied = def.Denied
	}
	if m.LoginBanner == "" {
		m.LoginBanner = def.LoginBanner
	}
	if m.OutdatedNotice == "" {
		m.OutdatedNotice = def.OutdatedNotice
	}
	return m
}

// Config controls a Session. Zero values fall back to defaults.
type Config struct {
	Logger           Logger
	EnvProvider      EnvProvider
	TranscriptFilter TranscriptFilter
	TerminalEnv      TerminalEnv
	Markers          Markers

	// InputQueueSize bounds pending keystrokes; producers block when it is full.
	InputQueueSize int
	// ReadChunkSize is the PTY read buffer size.
	ReadChunkSize int
	// OutputTranscriptLimit stops transcript appends from the output reader.
	OutputTranscriptLimit int
	// InputTranscriptLimit stops transcript appends from the input writer.
	InputTranscriptLimit int

	PollInterval time.Duration
	// DrainDelay is slept after EOF so the last bytes get rendered.
	DrainDelay time.Duration
	// ExitGrace is how long the supervisor waits for the reader after the child
	// exits before it closes the master to unblock it.
	ExitGrace time.Duration
}

// TerminalEnv defines environment variables applied to the child process.
type TerminalEnv struct {
	Term      string
	ColorTerm string
	Lang      string
}

// DefaultTerminalEnv returns a baseline environment configuration.
func DefaultTerminalEnv() TerminalEnv {
	return TerminalEnv{
		Term:      "xterm-256color",
		ColorTerm: "truecolor",
	}
}

// applyDefaults ensures unset Config fields are filled with safe defaults.
func (cfg Config) applyDefaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = NopLogger{}
	}
	if cfg.EnvProvider == nil {
		cfg.EnvProvider = DefaultEnvProvider{}
	}
	if cfg.TranscriptFilter == nil {
		cfg.TranscriptFilter = DefaultTranscriptFilter{}
	}
	if cfg.TerminalEnv == (TerminalEnv{}) {
		cfg.TerminalEnv = DefaultTerminalEnv()
	}
	cfg.Markers = cfg.Markers.withDefaults()
	if cfg.InputQueueSize <= 0 {
		cfg.InputQueueSize = 32
	}
	if cfg.ReadChunkSize <= 0 {
		cfg.ReadChunkSize = 1024
	}
	if cfg.OutputTranscriptLimit <= 0 {
		cfg.OutputTranscriptLimit = 1024
	}
	if cfg.InputTranscriptLimit <= 0 {
		cfg.InputTranscriptLimit = 4096
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Millisecond
	}
	if cfg.DrainDelay <= 0 {
		cfg.DrainDelay = 10 * time.Millisecond
	}
	if cfg.ExitGrace <= 0 {
		cfg.ExitGrace = 500 * time.Millisecond
	}
	return cfg
}
