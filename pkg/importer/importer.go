// Package importer populates the local post store from the site RSS feed.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/topicclusters/pkg/domain"
)

//go:generate moq -out mocks/post_writer.go -pkg mocks -skip-ensure -fmt goimports . PostWriter

// PostWriter stores imported posts
type PostWriter interface {
	UpsertPost(ctx context.Context, post *domain.Post) error
}

// Options defines importer settings
type Options struct {
	Timeout     time.Duration
	UserAgent   string
	Concurrency int
}

// Importer fetches feed pages and upserts their items as posts
type Importer struct {
	client      *http.Client
	posts       PostWriter
	userAgent   string
	concurrency int
}

// errPageNotFound marks a missing feed page, the end of pagination
var errPageNotFound = errors.New("feed page not found")

var postIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&](?:p|page_id)=(\d+)`),
	regexp.MustCompile(`(?:^|[/-])post-(\d+)`),
}

// New makes an importer
func New(posts PostWriter, opts Options) *Importer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "topicclusters/1.0"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Importer{
		client:      &http.Client{Timeout: opts.Timeout},
		posts:       posts,
		userAgent:   opts.UserAgent,
		concurrency: opts.Concurrency,
	}
}

// Import fetches up to pages feed pages and stores their items, returns the number of stored posts.
// The first page must be available; a missing later page ends pagination.
func (im *Importer) Import(ctx context.Context, feedURL string, pages int) (int, error) {
	if strings.TrimSpace(feedURL) == "" {
		return 0, &domain.ValidationError{Msg: "feed url is required"}
	}
	if pages <= 0 {
		pages = 1
	}

	results := make([][]*gofeed.Item, pages)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)
	for page := 1; page <= pages; page++ {
		g.Go(func() error {
			pageURL, err := pagedURL(feedURL, page)
			if err != nil {
				return err
			}
			items, err := im.fetchPage(gctx, pageURL)
			if err != nil {
				if page > 1 && errors.Is(err, errPageNotFound) {
					log.Printf("[DEBUG] feed page %d not found, end of feed", page)
					return nil
				}
				return fmt.Errorf("feed page %d: %w", page, err)
			}
			results[page-1] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	seen := map[int64]bool{}
	count := 0
	for _, items := range results {
		for _, item := range items {
			post, ok := toPost(item)
			if !ok {
				log.Printf("[WARN] feed item %q has no post id, skipped", item.Title)
				continue
			}
			if seen[post.ID] {
				continue
			}
			seen[post.ID] = true
			if err := im.posts.UpsertPost(ctx, post); err != nil {
				return count, fmt.Errorf("store post %d: %w", post.ID, err)
			}
			count++
		}
	}
	log.Printf("[INFO] imported %d posts from %s", count, feedURL)
	return count, nil
}

func (im *Importer) fetchPage(ctx context.Context, pageURL string) ([]*gofeed.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", im.userAgent)
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5")

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errPageNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	log.Printf("[DEBUG] fetched %s, %d items", pageURL, len(feed.Items))
	return feed.Items, nil
}

// toPost maps a feed item to a post, false if the item carries no post id
func toPost(item *gofeed.Item) (*domain.Post, bool) {
	id := PostID(item.GUID)
	if id == 0 {
		id = PostID(item.Link)
	}
	if id == 0 {
		return nil, false
	}
	content := item.Content
	if strings.TrimSpace(content) == "" {
		content = item.Description
	}
	return &domain.Post{ID: id, Title: strings.TrimSpace(item.Title), Content: content, URL: item.Link}, true
}

// PostID extracts a numeric post id from a guid or link like "https://example.com/?p=123", 0 if none
func PostID(s string) int64 {
	for _, re := range postIDPatterns {
		m := re.FindStringSubmatch(s)
		if len(m) < 2 {
			continue
		}
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return 0
}

// pagedURL adds the paged query parameter for pages after the first
func pagedURL(feedURL string, page int) (string, error) {
	if page <= 1 {
		return feedURL, nil
	}
	u, err := url.Parse(feedURL)
	if err != nil {
		return "", fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("paged", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
