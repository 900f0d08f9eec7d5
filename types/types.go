package types

// Trend is a candidate video topic sourced from an external API
type Trend struct {
	Title       string   `json:"title"`
	Source      string   `json:"source"`
	Score       float64  `json:"score"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	SearchHints []string `json:"search_hints,omitempty"`
}

// Scene is one narrated block of the script
type Scene struct {
	Number           int      `json:"number"`
	Title            string   `json:"title"`
	Narration        string   `json:"narration"`
	MediaKeywords    []string `json:"media_keywords"`
	AudioFile        string   `json:"audio_file,omitempty"`
	AudioDurationSec float64  `json:"audio_duration_sec,omitempty"`
	VisualFile       string   `json:"visual_file,omitempty"`
}

// Script is the full roteiro for one video
type Script struct {
	VideoTitle    string  `json:"video_title"`
	Description   string  `json:"description"`
	Tags          []string `json:"tags"`
	ThumbText     string  `json:"thumb_text"`
	Scenes        []Scene `json:"scenes"`
	FullNarration string  `json:"full_narration"`
}

// SceneMedia holds the downloaded media paths for one scene
type SceneMedia struct {
	Images    []string `json:"images"`
	Videos    []string `json:"videos"`
	QueryUsed string   `json:"query_used"`
}

// Metadata is the sidecar record saved next to the final video
type Metadata struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	ThumbText      string   `json:"thumb_text"`
	Topic          string   `json:"topic"`
	TrendSource    string   `json:"trend_source"`
	CreatedAt      string   `json:"created_at"`
	DurationMin    float64  `json:"duration_min"`
	Channel        string   `json:"channel"`
}

// PipelineState tracks the full state of one pipeline run
type PipelineState struct {
	RunID       string    `json:"run_id"`
	StartedAt   string    `json:"started_at"`
	CompletedAt string    `json:"completed_at"`
	Trend       *Trend    `json:"trend"`
	Script      *Script   `json:"script"`
	VideoFile   string    `json:"video_file,omitempty"`
	ThumbFile   string    `json:"thumb_file,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`
	YouTubeID   string    `json:"youtube_id,omitempty"`
	YouTubeURL  string    `json:"youtube_url,omitempty"`
	Error       string    `json:"error,omitempty"`
}
