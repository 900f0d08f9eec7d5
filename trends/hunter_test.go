package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"ia-video-creator/config"
	"ia-video-creator/types"
)

func TestRank(t *testing.T) {
	list := []types.Trend{
		{Title: "low", Score: 10},
		{Title: "high", Score: 90},
		{Title: "mid", Score: 50},
	}
	ranked := Rank(list, 2)

	if len(ranked) != 2 {
		t.Fatalf("got %d trends, want 2", len(ranked))
	}
	if ranked[0].Title != "high" || ranked[1].Title != "mid" {
		t.Errorf("wrong order: %s, %s", ranked[0].Title, ranked[1].Title)
	}
}

func TestRankNoLimit(t *testing.T) {
	list := []types.Trend{{Score: 1}, {Score: 2}}
	if got := Rank(list, 0); len(got) != 2 {
		t.Errorf("n=0 should keep everything, got %d", len(got))
	}
}

func TestManual(t *testing.T) {
	trend := Manual("Buracos Negros")

	if trend.Title != "Buracos Negros" {
		t.Errorf("Title = %q", trend.Title)
	}
	if trend.Source != "manual" {
		t.Errorf("Source = %q, want manual", trend.Source)
	}
	if trend.Score != 100 {
		t.Errorf("Score = %v, want 100", trend.Score)
	}
	if len(trend.SearchHints) == 0 || trend.SearchHints[0] != "Buracos Negros" {
		t.Errorf("SearchHints = %v", trend.SearchHints)
	}
}

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
<title>Feed Title</title>
<item>
<title><![CDATA[NASA announces new telescope discovery]]></title>
<link>https://example.com/1</link>
<description><![CDATA[<p>A <b>major</b> find in deep space.</p>]]></description>
</item>
<item>
<title>Second story about quantum computing</title>
<link>https://example.com/2</link>
<description>Plain description</description>
</item>
<item>
<link>https://example.com/untitled</link>
</item>
</channel>
</rss>`

func TestFetchHackerNewsRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Trends.HNQueries = []string{"quantum computing"}
	h := New(cfg)
	h.hnURL = srv.URL

	got, err := h.fetchHackerNews(context.Background())
	if err == nil {
		t.Fatal("an error body must not count as a successful fetch")
	}
	if len(got) != 0 {
		t.Errorf("got %d trends from an error response", len(got))
	}
}

func TestParseRSSItems(t *testing.T) {
	items := parseRSSItems(sampleRSS)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (untitled item skipped)", len(items))
	}
	if items[0].Title != "NASA announces new telescope discovery" {
		t.Errorf("CDATA title = %q", items[0].Title)
	}
	if items[0].Link != "https://example.com/1" {
		t.Errorf("link = %q", items[0].Link)
	}
	if items[1].Title != "Second story about quantum computing" {
		t.Errorf("plain title = %q", items[1].Title)
	}
}

func TestExtractXMLTag(t *testing.T) {
	if got := extractXMLTag("<title>  Hello </title>", "title"); got != "Hello" {
		t.Errorf("got %q", got)
	}
	if got := extractXMLTag("<title>unclosed", "title"); got != "" {
		t.Errorf("unclosed tag should yield empty, got %q", got)
	}
	if got := extractXMLTag("no tags at all", "title"); got != "" {
		t.Errorf("missing tag should yield empty, got %q", got)
	}
}

func TestStripHTML(t *testing.T) {
	if got := stripHTML("<p>A <b>major</b> find.</p>"); got != "A major find." {
		t.Errorf("got %q", got)
	}
}

func TestMatchesTechKeywords(t *testing.T) {
	yes := []string{
		"NASA lança novo telescópio",
		"Breakthrough in quantum computing",
		"Nova vacina contra o câncer aprovada",
	}
	for _, title := range yes {
		if !matchesTechKeywords(title) {
			t.Errorf("%q should match", title)
		}
	}
	if matchesTechKeywords("Melhores receitas de bolo") {
		t.Error("recipe title should not match")
	}
}

func TestClampTitle(t *testing.T) {
	long := strings.Repeat("a", 150)
	if got := clampTitle(long); len(got) != 100 {
		t.Errorf("len = %d, want 100", len(got))
	}
	if got := clampTitle("short"); got != "short" {
		t.Errorf("got %q", got)
	}

	accented := strings.Repeat("ã", 150)
	got := clampTitle(accented)
	if !utf8.ValidString(got) {
		t.Errorf("clamp split a rune: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 100 {
		t.Errorf("rune count = %d, want 100", n)
	}
}

func TestFirstWords(t *testing.T) {
	if got := firstWords("one two three four", 2); got != "one two" {
		t.Errorf("got %q", got)
	}
	if got := firstWords("one", 5); got != "one" {
		t.Errorf("got %q", got)
	}
}

func TestRedditScore(t *testing.T) {
	if got := redditScore(1000, 200); got != 20 {
		t.Errorf("redditScore(1000, 200) = %v, want 20", got)
	}
	if got := redditScore(100000, 5000); got != 100 {
		t.Errorf("large post should cap at 100, got %v", got)
	}
}
