package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Markets   []string  `yaml:"markets"`
	Universe  Universe  `yaml:"universe"`
	Collector Collector `yaml:"collector"`
	Threshold Threshold `yaml:"threshold"`
	Lexicon   Lexicon   `yaml:"lexicon"`
	Briefing  Briefing  `yaml:"briefing"`
	Telegram  Telegram  `yaml:"telegram"`
	Output    Output    `yaml:"output"`
	Server    Server    `yaml:"server"`
	Logging   Logging   `yaml:"logging"`
}

type Universe struct {
	Limit           int      `yaml:"limit"`
	ProbeCap        int      `yaml:"probe_cap"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

type Collector struct {
	CutoffHour  int    `yaml:"cutoff_hour"`
	MaxPages    int    `yaml:"max_pages"`
	MaxPosts    int    `yaml:"max_posts"`
	PageDelayMs int    `yaml:"page_delay_ms"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	Timezone    string `yaml:"timezone"`
}

type Threshold struct {
	Rules   []ThresholdRule `yaml:"rules"`
	Default int             `yaml:"default"`
}

// ThresholdRule applies to hours in [From, To).
type ThresholdRule struct {
	From     int `yaml:"from"`
	To       int `yaml:"to"`
	MinPosts int `yaml:"min_posts"`
}

type Lexicon struct {
	Positive  []string `yaml:"positive"`
	Negative  []string `yaml:"negative"`
	Stopwords []string `yaml:"stopwords"`
}

type Briefing struct {
	Feeds []Feed `yaml:"feeds"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type Telegram struct {
	Enabled      bool   `yaml:"enabled"`
	TokenEnv     string `yaml:"token_env"`
	ChatIDEnv    string `yaml:"chat_id_env"`
	DashboardURL string `yaml:"dashboard_url"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for trendboard.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "trendboard")
}

// DataDir returns the XDG data directory for trendboard.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "trendboard")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/trendboard/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'trendboard init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	cfg, _ := parse(DefaultConfigYAML)
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Markets: []string{"KOSPI", "KOSDAQ"},
		Universe: Universe{
			Limit:    100,
			ProbeCap: 30,
			ExcludeKeywords: []string{
				"KODEX", "TIGER", "ETN", "KBSTAR", "ACE",
				"KOSEF", "SOL", "HANARO", "ARIRANG",
			},
		},
		Collector: Collector{
			CutoffHour:  9,
			MaxPages:    20,
			MaxPosts:    800,
			PageDelayMs: 500,
			TimeoutSec:  10,
			Timezone:    "Asia/Seoul",
		},
		Threshold: Threshold{
			Rules: []ThresholdRule{
				{From: 9, To: 12, MinPosts: 20},
				{From: 12, To: 14, MinPosts: 40},
				{From: 14, To: 24, MinPosts: 60},
			},
			Default: 10,
		},
		Lexicon: Lexicon{
			Positive: []string{
				"상승", "급등", "호재", "대박", "매수", "가즈아", "축하", "수익", "기대", "찬티",
			},
			Negative: []string{
				"하락", "폭락", "악재", "손절", "매도", "망", "개미털기", "설거지", "폭망", "안티",
			},
			Stopwords: []string{
				"오늘", "진짜", "ㅋㅋ", "ㅋㅋㅋ", "ㅎㅎ", "결국", "근데", "지금", "어제",
			},
		},
		Telegram: Telegram{
			Enabled:   true,
			TokenEnv:  "TELEGRAM_BOT_TOKEN",
			ChatIDEnv: "TELEGRAM_CHAT_ID",
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
