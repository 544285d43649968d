// Package linker inserts suggested anchor-text links into stored post content.
package linker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/topicclusters/pkg/domain"
)

//go:generate moq -out mocks/post_store.go -pkg mocks -skip-ensure -fmt goimports . PostStore
//go:generate moq -out mocks/link_recorder.go -pkg mocks -skip-ensure -fmt goimports . LinkRecorder

// PostStore provides access to post content
type PostStore interface {
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	UpdateContent(ctx context.Context, id int64, content string) error
}

// LinkRecorder keeps an audit of inserted links
type LinkRecorder interface {
	Record(ctx context.Context, sourceID int64, targetURL, anchor string) error
}

// Service applies link suggestions to posts, one best-effort pass per batch
type Service struct {
	posts  PostStore
	links  LinkRecorder
	policy *bluemonday.Policy
}

// New makes a link insertion service, links recorder is optional
func New(posts PostStore, links LinkRecorder) *Service {
	return &Service{posts: posts, links: links, policy: hrefPolicy()}
}

// InsertLinks applies each suggestion to its source post. Per-item failures are collected
// in the result and never abort the batch; an anchor missing from the content is skipped silently.
func (s *Service) InsertLinks(ctx context.Context, suggestions []domain.Suggestion) (domain.InsertResult, error) {
	if len(suggestions) == 0 {
		return domain.InsertResult{}, &domain.ValidationError{Msg: "no suggestions provided"}
	}

	res := domain.InsertResult{Total: len(suggestions), Errors: []string{}}
	for _, sg := range suggestions {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("post %d: %v", sg.SourceID, err))
			continue
		}
		inserted, err := s.insertOne(ctx, sg)
		if err != nil {
			log.Printf("[WARN] link insertion for post %d failed: %v", sg.SourceID, err)
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		if inserted {
			res.Inserted++
		}
	}
	log.Printf("[INFO] inserted %d of %d links, %d errors", res.Inserted, res.Total, len(res.Errors))
	return res, nil
}

// insertOne returns false without error when there is nothing to link
func (s *Service) insertOne(ctx context.Context, sg domain.Suggestion) (bool, error) {
	if sg.SourceID <= 0 {
		return false, fmt.Errorf("post %d not found", sg.SourceID)
	}
	post, err := s.posts.GetPost(ctx, sg.SourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("post %d not found", sg.SourceID)
		}
		return false, fmt.Errorf("failed to load post %d: %w", sg.SourceID, err)
	}
	anchor := strings.TrimSpace(sg.Anchor())
	if anchor == "" {
		log.Printf("[DEBUG] empty anchor for post %d, skipped", sg.SourceID)
		return false, nil
	}

	updated, ok := InsertLink(post.Content, anchor, sg.TargetURL)
	if !ok {
		log.Printf("[DEBUG] anchor %q not found in post %d, skipped", anchor, sg.SourceID)
		return false, nil
	}
	if !s.validURL(sg.TargetURL) {
		return false, fmt.Errorf("invalid target url for post %d", sg.SourceID)
	}

	if err := s.posts.UpdateContent(ctx, sg.SourceID, updated); err != nil {
		log.Printf("[WARN] update post %d: %v", sg.SourceID, err)
		return false, fmt.Errorf("failed to update post %d", sg.SourceID)
	}

	if s.links != nil {
		if err := s.links.Record(ctx, sg.SourceID, sg.TargetURL, anchor); err != nil {
			log.Printf("[WARN] can't record link for post %d: %v", sg.SourceID, err)
		}
	}
	return true, nil
}

// validURL checks the target against the href policy by sanitizing a sample link
func (s *Service) validURL(u string) bool {
	u = strings.TrimSpace(u)
	if u == "" {
		return false
	}
	sample := `<a href="` + escapeAttr(u) + `">x</a>`
	return strings.Contains(s.policy.Sanitize(sample), "href=")
}

func hrefPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
}
