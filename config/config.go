package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIs      APIsConfig      `yaml:"apis"`
	LLM       LLMConfig       `yaml:"llm"`
	Script    ScriptConfig    `yaml:"script"`
	TTS       TTSConfig       `yaml:"tts"`
	Trends    TrendsConfig    `yaml:"trends"`
	Media     MediaConfig     `yaml:"media"`
	Video     VideoConfig     `yaml:"video"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Output    OutputConfig    `yaml:"output"`
	Upload    UploadConfig    `yaml:"upload"`
}

type APIsConfig struct {
	PexelsAPIKey string `yaml:"pexels_api_key"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type ScriptConfig struct {
	TargetDurationMin int    `yaml:"target_duration_min"`
	ChannelName       string `yaml:"channel_name"`
	Style             string `yaml:"style"`
	Language          string `yaml:"language"`
	WordsPerMinute    int    `yaml:"words_per_minute"`
}

type TTSConfig struct {
	Command     string           `yaml:"command"`
	Model       string           `yaml:"model"`
	VoiceSample string           `yaml:"voice_sample"`
	Speaker     string           `yaml:"speaker"`
	Language    string           `yaml:"language"`
	Speed       float64          `yaml:"speed"`
	SampleRate  int              `yaml:"sample_rate"`
	PauseMs     map[string]int   `yaml:"pause_ms"`
	Generation  GenerationConfig `yaml:"generation"`
}

type GenerationConfig struct {
	Temperature       float64 `yaml:"temperature"`
	TopK              int     `yaml:"top_k"`
	TopP              float64 `yaml:"top_p"`
	RepetitionPenalty float64 `yaml:"repetition_penalty"`
}

type TrendsConfig struct {
	Subreddits  []string `yaml:"subreddits"`
	HNQueries   []string `yaml:"hn_queries"`
	HNMinPoints int      `yaml:"hn_min_points"`
	Feeds       []Feed   `yaml:"feeds"`
	GoogleGeo   string   `yaml:"google_geo"`
	MaxTrends   int      `yaml:"max_trends"`
	MinScore    float64  `yaml:"min_score"`
}

type Feed struct {
	URL    string `yaml:"url"`
	Source string `yaml:"source"`
}

type MediaConfig struct {
	ImagesPerScene int    `yaml:"images_per_scene"`
	VideosPerScene int    `yaml:"videos_per_scene"`
	CacheDir       string `yaml:"cache_dir"`
}

type VideoConfig struct {
	Resolution    []int   `yaml:"resolution"`
	FPS           int     `yaml:"fps"`
	TransitionSec float64 `yaml:"transition_sec"`
	MusicFile     string  `yaml:"music_file"`
	MusicVolume   float64 `yaml:"music_volume"`
	SecPerImage   float64 `yaml:"sec_per_image"`
	KenBurnsZoom  float64 `yaml:"ken_burns_zoom"`
}

type ThumbnailConfig struct {
	Font        string `yaml:"font"`
	Logo        string `yaml:"logo"`
	TitleColor  string `yaml:"title_color"`
	AccentColor string `yaml:"accent_color"`
	Subtitle    string `yaml:"subtitle"`
	Badge       string `yaml:"badge"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Prefix   string `yaml:"prefix"`
	KeepTemp bool   `yaml:"keep_temp"`
}

type UploadConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Visibility        string `yaml:"visibility"`
	Schedule          string `yaml:"schedule"`
	CategoryID        string `yaml:"category_id"`
	DefaultLanguage   string `yaml:"default_language"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	MadeForKids       bool   `yaml:"made_for_kids"`
}

// Load reads a YAML config file and applies defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %q not found — copy config.yaml.example to config.yaml and fill in your keys", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with all defaults and no keys set
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "http://localhost:11434/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama3"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.8
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 3000
	}

	if c.Script.TargetDurationMin == 0 {
		c.Script.TargetDurationMin = 5
	}
	if c.Script.ChannelName == "" {
		c.Script.ChannelName = "Ciência & Tech"
	}
	if c.Script.Style == "" {
		c.Script.Style = "educativo e envolvente"
	}
	if c.Script.Language == "" {
		c.Script.Language = "pt-BR"
	}
	if c.Script.WordsPerMinute == 0 {
		c.Script.WordsPerMinute = 130
	}

	if c.TTS.Command == "" {
		c.TTS.Command = "tts"
	}
	if c.TTS.Language == "" {
		c.TTS.Language = "pt"
	}
	if c.TTS.Speed == 0 {
		c.TTS.Speed = 1.0
	}
	if c.TTS.SampleRate == 0 {
		c.TTS.SampleRate = 24000
	}
	if c.TTS.Model == "" {
		c.TTS.Model = "tts_models/multilingual/multi-dataset/xtts_v2"
	}
	if c.TTS.Generation.Temperature == 0 {
		c.TTS.Generation.Temperature = 0.75
	}
	if c.TTS.Generation.TopK == 0 {
		c.TTS.Generation.TopK = 50
	}
	if c.TTS.Generation.TopP == 0 {
		c.TTS.Generation.TopP = 0.85
	}
	if c.TTS.Generation.RepetitionPenalty == 0 {
		c.TTS.Generation.RepetitionPenalty = 1.1
	}

	if len(c.Trends.Subreddits) == 0 {
		c.Trends.Subreddits = []string{"science", "technology", "space"}
	}
	if len(c.Trends.HNQueries) == 0 {
		c.Trends.HNQueries = []string{
			"artificial intelligence", "space astronomy",
			"science discovery", "quantum computing",
		}
	}
	if c.Trends.HNMinPoints == 0 {
		c.Trends.HNMinPoints = 50
	}
	if len(c.Trends.Feeds) == 0 {
		c.Trends.Feeds = []Feed{
			{URL: "https://www.nasa.gov/rss/dyn/breaking_news.rss", Source: "NASA"},
			{URL: "https://spaceflightnow.com/feed/", Source: "SpaceFlightNow"},
		}
	}
	if c.Trends.GoogleGeo == "" {
		c.Trends.GoogleGeo = "BR"
	}
	if c.Trends.MaxTrends == 0 {
		c.Trends.MaxTrends = 15
	}

	if c.Media.ImagesPerScene == 0 {
		c.Media.ImagesPerScene = 3
	}
	if c.Media.VideosPerScene == 0 {
		c.Media.VideosPerScene = 1
	}
	if c.Media.CacheDir == "" {
		c.Media.CacheDir = "assets/media_cache"
	}

	if len(c.Video.Resolution) != 2 {
		c.Video.Resolution = []int{1920, 1080}
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 30
	}
	if c.Video.TransitionSec == 0 {
		c.Video.TransitionSec = 0.5
	}
	if c.Video.MusicVolume == 0 {
		c.Video.MusicVolume = 0.08
	}
	if c.Video.SecPerImage == 0 {
		c.Video.SecPerImage = 5
	}
	if c.Video.KenBurnsZoom == 0 {
		c.Video.KenBurnsZoom = 1.05
	}

	if c.Thumbnail.TitleColor == "" {
		c.Thumbnail.TitleColor = "white"
	}
	if c.Thumbnail.AccentColor == "" {
		c.Thumbnail.AccentColor = "0xCC0000"
	}
	if c.Thumbnail.Subtitle == "" {
		c.Thumbnail.Subtitle = "Ciência & Tecnologia"
	}
	if c.Thumbnail.Badge == "" {
		c.Thumbnail.Badge = "NOVO"
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "export"
	}
	if c.Output.Prefix == "" {
		c.Output.Prefix = "video"
	}

	if c.Upload.Visibility == "" {
		c.Upload.Visibility = "private"
	}
	if c.Upload.CategoryID == "" {
		c.Upload.CategoryID = "28" // Science & Technology
	}
	if c.Upload.DefaultLanguage == "" {
		c.Upload.DefaultLanguage = "pt-BR"
	}
}
