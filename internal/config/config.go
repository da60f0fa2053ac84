package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "moodmeter.yaml"

type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
	Log     LogConfig     `yaml:"log"`
	Panel   PanelConfig   `yaml:"panel"`
	Discord DiscordConfig `yaml:"discord"`
	Web     WebConfig     `yaml:"web"`
	AI      AIConfig      `yaml:"ai"`
	Claude  ClaudeConfig  `yaml:"claude"`
	Gemini  GeminiConfig  `yaml:"gemini"`
}

type MonitorConfig struct {
	Interval      time.Duration `yaml:"interval"`
	Backoff       time.Duration `yaml:"backoff"` // wait after a failed cycle
	CPUWindow     time.Duration `yaml:"cpu_window"`
	NetworkWindow int           `yaml:"network_window"` // samples averaged
	NetworkScale  float64       `yaml:"network_scale"`  // percent per MB/s
	DiskPaths     []string      `yaml:"disk_paths"`
}

type LogConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	File       string `yaml:"file"`  // empty disables the file sink
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type PanelConfig struct {
	Title string        `yaml:"title"`
	Tick  time.Duration `yaml:"tick"` // animation frame interval
}

type DiscordConfig struct {
	BotToken      string        `yaml:"bot_token,omitempty"`
	ChannelID     string        `yaml:"channel_id"`
	AlertCooldown time.Duration `yaml:"alert_cooldown"`
}

// Enabled reports whether the Discord surface should start.
func (d DiscordConfig) Enabled() bool {
	return d.BotToken != ""
}

type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type AIConfig struct {
	Provider   string        `yaml:"provider"` // "claude", "gemini", or "" (auto-detect)
	MaxTokens  int64         `yaml:"max_tokens"`
	Timeout    time.Duration `yaml:"timeout"`
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

type ClaudeConfig struct {
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model"`
}

func Load(path string) (*Config, error) {
	cfg := Default()

	loadDotEnv(".env")

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	// Env vars override config file (secrets live in .env or environment)
	if env := os.Getenv("DISCORD_BOT_TOKEN"); env != "" {
		cfg.Discord.BotToken = env
	}
	if env := os.Getenv("DISCORD_CHANNEL_ID"); env != "" {
		cfg.Discord.ChannelID = env
	}
	if env := os.Getenv("ANTHROPIC_API_KEY"); env != "" {
		cfg.Claude.APIKey = env
	}
	if env := os.Getenv("GOOGLE_API_KEY"); env != "" {
		cfg.Gemini.APIKey = env
	}
	if env := os.Getenv("AI_PROVIDER"); env != "" {
		cfg.AI.Provider = env
	}
	if env := os.Getenv("MOODMETER_LOG_LEVEL"); env != "" {
		cfg.Log.Level = env
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Write saves cfg as YAML. Secrets are left out; they belong in .env.
func Write(path string, cfg *Config) error {
	out := *cfg
	out.Discord.BotToken = ""
	out.Claude.APIKey = ""
	out.Gemini.APIKey = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// loadDotEnv reads a .env file and sets env vars that aren't already set.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		// Strip surrounding quotes
		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') ||
				(val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}

		if os.Getenv(key) == "" && val != "" {
			os.Setenv(key, val)
		}
	}
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Monitor: MonitorConfig{
			Interval:      3 * time.Second,
			Backoff:       5 * time.Second,
			CPUWindow:     500 * time.Millisecond,
			NetworkWindow: 10,
			NetworkScale:  10,
			DiskPaths:     []string{"/", `C:\`},
		},
		Log: LogConfig{
			Level:      "info",
			File:       "moodmeter.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
		Panel: PanelConfig{
			Title: "Performance Police",
			Tick:  80 * time.Millisecond,
		},
		Discord: DiscordConfig{
			AlertCooldown: 10 * time.Minute,
		},
		Web: WebConfig{
			Addr: "127.0.0.1:8787",
		},
		AI: AIConfig{
			MaxTokens:  120,
			Timeout:    8 * time.Second,
			RateLimit:  6,
			RateWindow: time.Hour,
		},
		Claude: ClaudeConfig{
			Model: "claude-sonnet-4-5-20250929",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
	}
}

func validate(cfg *Config) error {
	m := cfg.Monitor
	if m.Interval <= 0 || m.Backoff <= 0 {
		return errors.New("monitor.interval and monitor.backoff must be positive")
	}
	if m.CPUWindow <= 0 {
		return errors.New("monitor.cpu_window must be positive")
	}
	if m.NetworkWindow < 1 {
		return fmt.Errorf("monitor.network_window must be at least 1, got %d", m.NetworkWindow)
	}
	if m.NetworkScale <= 0 {
		return errors.New("monitor.network_scale must be positive")
	}
	if cfg.Panel.Tick <= 0 {
		return errors.New("panel.tick must be positive")
	}
	if cfg.Discord.BotToken != "" && cfg.Discord.ChannelID == "" {
		return errors.New("missing DISCORD_CHANNEL_ID: a bot token needs a channel to post to")
	}
	switch cfg.AI.Provider {
	case "", "claude", "gemini":
	default:
		return fmt.Errorf("ai.provider must be claude or gemini, got %q", cfg.AI.Provider)
	}
	return nil
}
