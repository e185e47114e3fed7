package config

import "fmt"

const (
	DefaultModelName    = "base.en"
	DefaultListen       = "127.0.0.1:4620"
	DefaultGeminiModel  = "gemini-2.5-flash"
	DefaultGeminiRPM    = 10
	DefaultChunkSeconds = 600
)

type Config struct {
	FFmpegPath     string `yaml:"ffmpeg_path" toml:"ffmpeg_path"`
	FFprobePath    string `yaml:"ffprobe_path" toml:"ffprobe_path"`
	WhisperCLIPath string `yaml:"whispercli_path" toml:"whispercli_path"`
	ModelName      string `yaml:"model_name" toml:"model_name"`

	WatchDirectories []string `yaml:"watch_directories" toml:"watch_directories"`
	Password         string   `yaml:"password,omitempty" toml:"password,omitempty"`

	AllowWhisper   *bool `yaml:"allow_whisper,omitempty" toml:"allow_whisper,omitempty"`
	AllowSubtitles *bool `yaml:"allow_subtitles,omitempty" toml:"allow_subtitles,omitempty"`

	ProcessingSuccessCommand string `yaml:"processing_success_command,omitempty" toml:"processing_success_command,omitempty"`
	ProcessingFailureCommand string `yaml:"processing_failure_command,omitempty" toml:"processing_failure_command,omitempty"`

	StreamChunkSize int `yaml:"stream_chunk_size,omitempty" toml:"stream_chunk_size,omitempty"`

	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	HTTP    HTTPConfig    `yaml:"http" toml:"http"`
	Gemini  GeminiConfig  `yaml:"gemini" toml:"gemini"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type HTTPConfig struct {
	Listen string `yaml:"listen" toml:"listen"`
}

type GeminiConfig struct {
	APIKeys           []string `yaml:"api_keys,omitempty" toml:"api_keys,omitempty"`
	Model             string   `yaml:"model" toml:"model"`
	RequestsPerMinute int      `yaml:"requests_per_minute" toml:"requests_per_minute"`
}

// WhisperEnabled reports the effective allow_whisper value.
func (c *Config) WhisperEnabled() bool {
	return c.AllowWhisper == nil || *c.AllowWhisper
}

// SubtitlesEnabled reports the effective allow_subtitles value.
func (c *Config) SubtitlesEnabled() bool {
	return c.AllowSubtitles == nil || *c.AllowSubtitles
}

// Validate checks field values and fills defaults. It does not require tool
// paths; see RequireTools.
func (c *Config) Validate() error {
	for _, dir := range c.WatchDirectories {
		if !isAbs(dir) {
			return invalid("watch_directories", fmt.Errorf("%q is not absolute", dir))
		}
	}
	if c.StreamChunkSize < 0 {
		return invalid("stream_chunk_size", fmt.Errorf("must not be negative, got %d", c.StreamChunkSize))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return invalid("logging.level", fmt.Errorf("unknown level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return invalid("logging.format", fmt.Errorf("unknown format %q", c.Logging.Format))
	}

	if c.ModelName == "" {
		c.ModelName = DefaultModelName
	}
	if c.StreamChunkSize == 0 {
		c.StreamChunkSize = DefaultChunkSeconds
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.HTTP.Listen == "" {
		c.HTTP.Listen = DefaultListen
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Gemini.RequestsPerMinute == 0 {
		c.Gemini.RequestsPerMinute = DefaultGeminiRPM
	}

	return nil
}

// RequireTools checks the binaries needed for ingestion. whispercli_path is
// only required while allow_whisper is on.
func (c *Config) RequireTools() error {
	if c.FFmpegPath == "" {
		return missing("ffmpeg_path")
	}
	if c.FFprobePath == "" {
		return missing("ffprobe_path")
	}
	if c.WhisperEnabled() && c.WhisperCLIPath == "" {
		return missing("whispercli_path")
	}
	for key, p := range map[string]string{
		"ffmpeg_path":  c.FFmpegPath,
		"ffprobe_path": c.FFprobePath,
	} {
		if !isAbs(p) {
			return invalid(key, fmt.Errorf("%q is not absolute", p))
		}
	}
	if c.WhisperEnabled() && !isAbs(c.WhisperCLIPath) {
		return invalid("whispercli_path", fmt.Errorf("%q is not absolute", c.WhisperCLIPath))
	}
	return nil
}
