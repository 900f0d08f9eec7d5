// Package upload publishes finished videos through the YouTube Data API v3.
// Upload is optional and disabled by default.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ia-video-creator/config"
	"ia-video-creator/types"
)

// Uploader handles YouTube video upload via Data API v3
type Uploader struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Run uploads the video with its metadata and thumbnail. Returns the video
// ID and watch URL.
func (u *Uploader) Run(ctx context.Context, videoFile, thumbFile string, meta *types.Metadata) (string, string, error) {
	log.Println("[upload] Authenticating with YouTube API...")

	client, err := u.oauthClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", "", fmt.Errorf("youtube service: %w", err)
	}

	log.Printf("[upload] Uploading: %q", meta.Title)

	snippet := &youtube.VideoSnippet{
		Title:                meta.Title,
		Description:          meta.Description,
		Tags:                 meta.Tags,
		CategoryId:           u.cfg.Upload.CategoryID,
		DefaultLanguage:      u.cfg.Upload.DefaultLanguage,
		DefaultAudioLanguage: u.cfg.Upload.DefaultLanguage,
	}
	status := buildStatus(u.cfg.Upload)

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		log.Printf("[upload] File size: %.1f MB", float64(fi.Size())/1024/1024)
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, &youtube.Video{
		Snippet: snippet,
		Status:  status,
	})
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube upload: %w", err)
	}

	videoID := uploaded.Id
	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	log.Printf("[upload] ✅ Video ID: %s", videoID)

	if thumbFile != "" {
		if err := u.setThumbnail(svc, videoID, thumbFile); err != nil {
			log.Printf("[upload] ⚠️ Thumbnail upload failed: %v", err)
		}
	}

	return videoID, videoURL, nil
}

// buildStatus maps the upload config onto the video status. A scheduled
// public video must go up private with PublishAt set; YouTube flips it to
// public at the scheduled time.
func buildStatus(cfg config.UploadConfig) *youtube.VideoStatus {
	status := &youtube.VideoStatus{
		PrivacyStatus:           cfg.Visibility,
		SelfDeclaredMadeForKids: cfg.MadeForKids,
		NotifySubscribers:       cfg.NotifySubscribers,
	}
	if cfg.Schedule != "" && cfg.Visibility == "public" {
		status.PrivacyStatus = "private"
		status.PublishAt = cfg.Schedule
		log.Printf("[upload] Scheduled for: %s UTC", cfg.Schedule)
	}
	return status
}

func (u *Uploader) setThumbnail(svc *youtube.Service, videoID, thumbFile string) error {
	f, err := os.Open(thumbFile)
	if err != nil {
		return err
	}
	defer f.Close()

	call := svc.Thumbnails.Set(videoID)
	call.Media(f)
	if _, err := call.Do(); err != nil {
		return err
	}
	log.Printf("[upload] Thumbnail set: %s", filepath.Base(thumbFile))
	return nil
}

// oauthClient builds an OAuth2 HTTP client from env credentials
func (u *Uploader) oauthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}
	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}

// LogUpload records the upload result in the output directory
func LogUpload(videoID, videoURL, videoFile, outputDir string, meta *types.Metadata) error {
	entry := map[string]any{
		"video_id":    videoID,
		"video_url":   videoURL,
		"title":       meta.Title,
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
		"video_file":  videoFile,
	}

	logFile := filepath.Join(outputDir, fmt.Sprintf("upload_%s.json", time.Now().Format("20060102_150405")))
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(logFile, data, 0644); err != nil {
		return err
	}
	log.Printf("[upload] Upload log saved: %s", logFile)
	return nil
}
