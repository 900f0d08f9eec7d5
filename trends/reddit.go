package trends

import (
	"context"
	"fmt"
	"log"

	"ia-video-creator/types"

	"github.com/vartanbeno/go-reddit/v2/reddit"
)

// fetchReddit pulls hot posts from the configured science/tech subreddits.
// Uses the read-only client, no account needed.
func (h *Hunter) fetchReddit(ctx context.Context) ([]types.Trend, error) {
	client, err := reddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}

	var out []types.Trend
	for _, sub := range h.cfg.Trends.Subreddits {
		posts, _, err := client.Subreddit.HotPosts(ctx, sub, &reddit.ListOptions{Limit: 10})
		if err != nil {
			log.Printf("[trends] Reddit r/%s error: %v", sub, err)
			continue
		}

		for _, post := range posts {
			if post.Stickied || post.Title == "" {
				continue
			}
			desc := post.Body
			if len(desc) > 200 {
				desc = desc[:200]
			}
			if desc == "" {
				desc = fmt.Sprintf("r/%s — %d upvotes", sub, post.Score)
			}
			out = append(out, types.Trend{
				Title:       clampTitle(post.Title),
				Source:      "reddit/r/" + sub,
				Score:       redditScore(post.Score, post.NumberOfComments),
				Description: desc,
				URL:         "https://www.reddit.com" + post.Permalink,
				SearchHints: []string{firstWords(post.Title, 6)},
			})
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no posts from any subreddit")
	}
	return out, nil
}

// redditScore maps upvotes+comments onto the common 0-100 scale
func redditScore(upvotes, comments int) float64 {
	s := float64(upvotes)/100 + float64(comments)/20
	return minFloat(100, s)
}

