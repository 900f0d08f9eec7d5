package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"ia-video-creator/config"
	"ia-video-creator/types"
)

const hnSearchURL = "https://hn.algolia.com/api/v1/search"

// techKeywords filter generic trending feeds down to science/tech topics
var techKeywords = []string{
	"ia", "ai", "tech", "robo", "espaco", "nasa", "descoberta",
	"ciencia", "fisica", "quimica", "biologia", "computador",
	"internet", "virus", "planeta", "satelite", "energia",
	"cancer", "vacina", "gene", "quantum", "nuclear", "clima",
	"inteligencia", "artificial", "robot", "telescop", "foguete",
}

// Hunter gathers candidate topics from all trend sources
type Hunter struct {
	cfg        *config.Config
	httpClient *http.Client
	hnURL      string
}

// New creates a new trend Hunter
func New(cfg *config.Config) *Hunter {
	return &Hunter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		hnURL:      hnSearchURL,
	}
}

// FetchAll queries every source, merges, scores and returns the top trends
func (h *Hunter) FetchAll(ctx context.Context) []types.Trend {
	var all []types.Trend

	hn, err := h.fetchHackerNews(ctx)
	if err != nil {
		log.Printf("[trends] Hacker News warning: %v", err)
	} else {
		all = append(all, hn...)
		log.Printf("[trends] Hacker News: %d found", len(hn))
	}

	google, err := h.fetchGoogleTrends(ctx)
	if err != nil {
		log.Printf("[trends] Google Trends warning: %v", err)
	} else {
		all = append(all, google...)
		log.Printf("[trends] Google Trends: %d found", len(google))
	}

	rss, err := h.fetchFeeds(ctx)
	if err != nil {
		log.Printf("[trends] RSS warning: %v", err)
	} else {
		all = append(all, rss...)
		log.Printf("[trends] Astronomy RSS: %d found", len(rss))
	}

	reddit, err := h.fetchReddit(ctx)
	if err != nil {
		log.Printf("[trends] Reddit warning: %v", err)
	} else {
		all = append(all, reddit...)
		log.Printf("[trends] Reddit: %d found", len(reddit))
	}

	if min := h.cfg.Trends.MinScore; min > 0 {
		kept := all[:0]
		for _, t := range all {
			if t.Score >= min {
				kept = append(kept, t)
			}
		}
		all = kept
	}

	return Rank(all, h.cfg.Trends.MaxTrends)
}

// Rank sorts trends by score descending and keeps the top n
func Rank(list []types.Trend, n int) []types.Trend {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

// Manual builds a Trend from a user-supplied topic string
func Manual(topic string) types.Trend {
	return types.Trend{
		Title:       topic,
		Source:      "manual",
		Score:       100,
		Description: "topic entered manually",
		SearchHints: []string{topic, topic + " science", topic + " technology"},
	}
}

// --- Hacker News (Algolia search API, no auth) ---

type hnResponse struct {
	Hits []struct {
		Title  string `json:"title"`
		Points int    `json:"points"`
		URL    string `json:"url"`
	} `json:"hits"`
}

func (h *Hunter) fetchHackerNews(ctx context.Context) ([]types.Trend, error) {
	var out []types.Trend
	minPts := h.cfg.Trends.HNMinPoints

	for _, query := range h.cfg.Trends.HNQueries {
		reqURL := fmt.Sprintf("%s?query=%s&tags=story&hitsPerPage=5",
			h.hnURL, url.QueryEscape(query))

		req, _ := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		resp, err := h.httpClient.Do(req)
		if err != nil {
			log.Printf("[trends] HN %q error: %v", query, err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			log.Printf("[trends] HN %q: HTTP %d", query, resp.StatusCode)
			continue
		}

		var result hnResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			continue
		}

		for _, hit := range result.Hits {
			title := strings.TrimSpace(hit.Title)
			if title == "" || hit.Points < minPts {
				continue
			}
			out = append(out, types.Trend{
				Title:       clampTitle(title),
				Source:      "hackernews",
				Score:       minFloat(100, float64(hit.Points)/10),
				Description: fmt.Sprintf("HN — %d points | %s", hit.Points, query),
				URL:         hit.URL,
				SearchHints: []string{firstWords(title, 6)},
			})
		}
		time.Sleep(200 * time.Millisecond) // be polite to the API
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no stories above %d points", minPts)
	}
	return out, nil
}

// --- Google Trends daily RSS ---

func (h *Hunter) fetchGoogleTrends(ctx context.Context) ([]types.Trend, error) {
	feedURL := fmt.Sprintf(
		"https://trends.google.com/trends/trendingsearches/daily/rss?geo=%s",
		url.QueryEscape(h.cfg.Trends.GoogleGeo),
	)

	items, err := h.fetchRSS(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	var out []types.Trend
	for i, item := range items {
		if i >= 20 {
			break
		}
		if !matchesTechKeywords(item.Title) {
			continue
		}
		out = append(out, types.Trend{
			Title:       clampTitle(item.Title),
			Source:      "google_trending",
			Score:       maxFloat(10, 90-float64(i)*2),
			Description: "Trending no Google " + h.cfg.Trends.GoogleGeo,
			URL:         item.Link,
			SearchHints: []string{item.Title, item.Title + " science", item.Title + " technology"},
		})
	}
	return out, nil
}

// --- Astronomy/science RSS feeds ---

func (h *Hunter) fetchFeeds(ctx context.Context) ([]types.Trend, error) {
	var out []types.Trend

	for _, feed := range h.cfg.Trends.Feeds {
		items, err := h.fetchRSS(ctx, feed.URL)
		if err != nil {
			log.Printf("[trends] RSS %s error: %v", feed.Source, err)
			continue
		}

		for i, item := range items {
			if i >= 6 {
				break
			}
			desc := stripHTML(item.Description)
			if r := []rune(desc); len(r) > 200 {
				desc = string(r[:200])
			}
			if desc == "" {
				desc = item.Title
			}
			out = append(out, types.Trend{
				Title:       clampTitle(item.Title),
				Source:      "rss/" + feed.Source,
				Score:       maxFloat(10, 85-float64(i)*5),
				Description: desc,
				URL:         item.Link,
				SearchHints: []string{firstWords(item.Title, 6), "astronomy space"},
			})
		}
		time.Sleep(500 * time.Millisecond)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no items from any feed")
	}
	return out, nil
}

// --- Lightweight RSS parsing (no external deps) ---

type rssItem struct {
	Title       string
	Link        string
	Description string
}

func (h *Hunter) fetchRSS(ctx context.Context, feedURL string) ([]rssItem, error) {
	req, _ := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ia-video-creator/1.0)")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, feedURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseRSSItems(string(body)), nil
}

func parseRSSItems(xml string) []rssItem {
	var items []rssItem
	parts := strings.Split(xml, "<item>")
	for _, part := range parts[1:] {
		item := rssItem{
			Title:       extractXMLTag(part, "title"),
			Link:        extractXMLTag(part, "link"),
			Description: extractXMLTag(part, "description"),
		}
		if item.Title != "" {
			items = append(items, item)
		}
	}
	return items
}

func extractXMLTag(s, tag string) string {
	open := "<" + tag + ">"
	close := "</" + tag + ">"
	start := strings.Index(s, open)
	if start == -1 {
		return ""
	}
	start += len(open)
	end := strings.Index(s[start:], close)
	if end == -1 {
		return ""
	}
	val := s[start : start+end]
	val = strings.TrimPrefix(val, "<![CDATA[")
	val = strings.TrimSuffix(val, "]]>")
	return strings.TrimSpace(val)
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// --- Helpers ---

func matchesTechKeywords(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range techKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func clampTitle(s string) string {
	if r := []rune(s); len(r) > 100 {
		return string(r[:100])
	}
	return s
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
