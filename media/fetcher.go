// Package media downloads stock images and videos from the Pexels API.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ia-video-creator/config"
	"ia-video-creator/types"
)

const (
	pexelsPhotosURL = "https://api.pexels.com/v1/search"
	pexelsVideosURL = "https://api.pexels.com/videos/search"
)

// Fetcher searches and downloads Pexels media with a local file cache
type Fetcher struct {
	cfg        *config.Config
	httpClient *http.Client
	photosURL  string
	videosURL  string
}

// New creates a Fetcher. A missing or placeholder API key is a hard error.
func New(cfg *config.Config) (*Fetcher, error) {
	key := cfg.APIs.PexelsAPIKey
	if key == "" || strings.Contains(key, "YOUR_KEY") {
		return nil, fmt.Errorf(
			"pexels API key not configured — get a free key at https://www.pexels.com/api/ and set apis.pexels_api_key")
	}
	if err := os.MkdirAll(cfg.Media.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create media cache dir: %w", err)
	}
	return &Fetcher{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		photosURL:  pexelsPhotosURL,
		videosURL:  pexelsVideosURL,
	}, nil
}

type photoResponse struct {
	Photos []struct {
		Src struct {
			Large2x string `json:"large2x"`
			Large   string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

type videoResponse struct {
	Videos []struct {
		VideoFiles []videoFile `json:"video_files"`
	} `json:"videos"`
}

type videoFile struct {
	Link     string `json:"link"`
	Width    int    `json:"width"`
	FileType string `json:"file_type"`
}

// FetchForScenes downloads media for every scene of the script.
// The primary keyword is tried first, then the alternates.
func (f *Fetcher) FetchForScenes(ctx context.Context, scenes []types.Scene) map[int]*types.SceneMedia {
	result := make(map[int]*types.SceneMedia)

	for _, scene := range scenes {
		log.Printf("[media] Scene %d (%s): searching media...", scene.Number, scene.Title)

		primary := "science technology"
		alternate := "innovation"
		if len(scene.MediaKeywords) > 0 {
			primary = scene.MediaKeywords[0]
		}
		if len(scene.MediaKeywords) > 1 {
			alternate = scene.MediaKeywords[1]
		}

		images := f.FetchImages(ctx, primary, f.cfg.Media.ImagesPerScene)
		if len(images) == 0 {
			images = f.FetchImages(ctx, alternate, f.cfg.Media.ImagesPerScene)
		}
		videos := f.FetchVideos(ctx, primary, f.cfg.Media.VideosPerScene)

		result[scene.Number] = &types.SceneMedia{
			Images:    images,
			Videos:    videos,
			QueryUsed: primary,
		}
	}
	return result
}

// FetchImages searches landscape images and returns local file paths
func (f *Fetcher) FetchImages(ctx context.Context, query string, count int) []string {
	queries := []string{query, query + " science", "technology innovation", "science research"}
	var files []string

	for _, q := range queries {
		if len(files) >= count {
			break
		}

		data := f.search(ctx, f.photosURL, q, count+2)
		if data == nil {
			continue
		}
		var result photoResponse
		if err := json.Unmarshal(data, &result); err != nil || len(result.Photos) == 0 {
			continue
		}

		for i, photo := range result.Photos {
			if len(files) >= count {
				break
			}
			imgURL := photo.Src.Large2x
			if imgURL == "" {
				imgURL = photo.Src.Large
			}
			dest := f.cachePath(q, "image", i)
			if f.download(ctx, imgURL, dest) {
				files = append(files, dest)
			}
		}
		time.Sleep(500 * time.Millisecond)
	}

	log.Printf("[media] Images for %q: %d", query, len(files))
	return files
}

// FetchVideos searches landscape HD videos and returns local file paths
func (f *Fetcher) FetchVideos(ctx context.Context, query string, count int) []string {
	queries := []string{query, query + " timelapse", "technology abstract", "science visualization"}
	var files []string

	for _, q := range queries {
		if len(files) >= count {
			break
		}

		data := f.search(ctx, f.videosURL, q, count+2)
		if data == nil {
			continue
		}
		var result videoResponse
		if err := json.Unmarshal(data, &result); err != nil || len(result.Videos) == 0 {
			continue
		}

		for i, video := range result.Videos {
			if len(files) >= count {
				break
			}
			link := bestVideoFile(video.VideoFiles)
			if link == "" {
				continue
			}
			dest := f.cachePath(q, "video", i)
			if f.download(ctx, link, dest) {
				files = append(files, dest)
			}
		}
		time.Sleep(500 * time.Millisecond)
	}

	log.Printf("[media] Videos for %q: %d", query, len(files))
	return files
}

// bestVideoFile prefers the widest mp4 of at least 1280px, falling back to
// the first file available
func bestVideoFile(files []videoFile) string {
	best := ""
	bestWidth := 0
	for _, vf := range files {
		if vf.FileType != "video/mp4" || vf.Width < 1280 {
			continue
		}
		if vf.Width > bestWidth {
			best = vf.Link
			bestWidth = vf.Width
		}
	}
	if best == "" && len(files) > 0 {
		best = files[0].Link
	}
	return best
}

// search performs one Pexels search with retry and 429 handling
func (f *Fetcher) search(ctx context.Context, baseURL, query string, perPage int) []byte {
	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", baseURL, nil)
		if err != nil {
			return nil
		}
		q := req.URL.Query()
		q.Set("query", query)
		q.Set("per_page", fmt.Sprintf("%d", perPage))
		q.Set("orientation", "landscape")
		q.Set("size", "large")
		req.URL.RawQuery = q.Encode()
		req.Header.Set("Authorization", f.cfg.APIs.PexelsAPIKey)

		resp, err := f.httpClient.Do(req)
		if err != nil {
			log.Printf("[media] attempt %d/3 failed: %v", attempt+1, err)
			time.Sleep(2 * time.Second)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			wait := time.Duration(10*(attempt+1)) * time.Second
			log.Printf("[media] Pexels rate limit — waiting %s...", wait)
			time.Sleep(wait)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			log.Printf("[media] attempt %d/3: HTTP %d", attempt+1, resp.StatusCode)
			time.Sleep(2 * time.Second)
			continue
		}
		return body
	}
	return nil
}

// cachePath builds a deterministic cache filename for a query result
func (f *Fetcher) cachePath(query, kind string, idx int) string {
	safe := make([]rune, 0, len(query))
	for _, r := range query {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			safe = append(safe, r)
		} else {
			safe = append(safe, '_')
		}
	}
	name := string(safe)
	if len(name) > 30 {
		name = name[:30]
	}
	ext := "jpg"
	if kind == "video" {
		ext = "mp4"
	}
	return filepath.Join(f.cfg.Media.CacheDir, fmt.Sprintf("%s_%s_%d.%s", kind, name, idx, ext))
}

// download fetches a file unless a non-trivial cached copy already exists
func (f *Fetcher) download(ctx context.Context, fileURL, dest string) bool {
	if fi, err := os.Stat(dest); err == nil && fi.Size() > 1000 {
		log.Printf("[media] Cache hit: %s", filepath.Base(dest))
		return true
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return false
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Printf("[media] download %s: %v", fileURL, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[media] download %s: HTTP %d", fileURL, resp.StatusCode)
		return false
	}

	out, err := os.Create(dest)
	if err != nil {
		return false
	}
	defer out.Close()

	log.Printf("[media] Downloading: %s", filepath.Base(dest))
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return false
	}
	return true
}
