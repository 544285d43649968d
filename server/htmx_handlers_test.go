package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/topicclusters/pkg/domain"
)

func parseHTML(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func sampleResults() *domain.Results {
	return &domain.Results{
		Topic:                "strength training",
		TotalPosts:           3,
		TotalOpportunities:   2,
		ClusterStrengthStars: 4,
		ClusterStrengthLabel: "Good",
		ClusterAnalysis:      domain.ClusterAnalysis{NumPosts: 3, ExistingLinks: 1, LinkDensityPercent: 16.7, Opportunities: 2},
		Posts: []domain.ClusterPost{
			{ID: 1, Title: "Squats 101", URL: "https://example.com/squats"},
			{ID: 2, Title: "Deadlift form", URL: "https://example.com/deadlift"},
			{ID: 3, Title: "Bench press", URL: "https://example.com/bench"},
		},
		Suggestions: []domain.Suggestion{
			{SourceID: 1, TargetID: 2, TargetURL: "https://example.com/deadlift", PrimaryAnchor: "deadlift", RelevanceScore: 0.82},
			{SourceID: 3, TargetID: 1, TargetURL: "https://example.com/squats", PrimaryAnchor: "squats", RelevanceScore: 0.41},
		},
	}
}

// startSession posts the topic form and returns the mounted session id
func startSession(t *testing.T, srv *Server, form url.Values) string {
	t.Helper()
	w := adminRequest(t, srv, "POST", "/admin/sessions", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	doc := parseHTML(t, w.Body.String())
	sel := doc.Find("#tc-session.tc-progress")
	require.Equal(t, 1, sel.Length(), w.Body.String())
	id, ok := sel.Attr("data-session")
	require.True(t, ok)
	require.NotEmpty(t, id)
	trigger, _ := sel.Attr("hx-trigger")
	assert.Equal(t, "every 10ms", trigger)
	return id
}

// pollFragment fetches the session fragment until it no longer shows progress
func pollFragment(t *testing.T, srv *Server, id string) *goquery.Document {
	t.Helper()
	var doc *goquery.Document
	require.Eventually(t, func() bool {
		w := adminRequest(t, srv, "GET", "/admin/sessions/"+id, nil)
		if w.Code != http.StatusOK {
			return false
		}
		doc = parseHTML(t, w.Body.String())
		return doc.Find("#tc-session.tc-progress").Length() == 0
	}, 2*time.Second, 10*time.Millisecond)
	return doc
}

func TestServer_adminPageHandler(t *testing.T) {
	d := newTestDeps()
	d.store.LastTopicFunc = func(ctx context.Context) (string, error) { return "kettlebells", nil }
	d.store.CountPostsFunc = func(ctx context.Context) (int, error) { return 42, nil }
	d.store.RecentGenerationsFunc = func(ctx context.Context, limit int) ([]domain.Generation, error) {
		return []domain.Generation{
			{ID: "g2", Topic: "yoga", Status: domain.StatusComplete, Progress: 100, CreatedAt: time.Now()},
			{ID: "g1", Topic: "running", Status: domain.StatusError, Error: "boom", Progress: 40, CreatedAt: time.Now()},
		}, nil
	}
	d.store.RecentLinksFunc = func(ctx context.Context, limit int) ([]domain.LinkInsertion, error) {
		return []domain.LinkInsertion{{ID: 7, SourceID: 11, TargetURL: "https://example.com/squat", Anchor: "squat depth",
			InsertedAt: time.Now()}}, nil
	}
	srv := testServer(t, d)

	w := adminRequest(t, srv, "GET", "/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	doc := parseHTML(t, w.Body.String())

	val, _ := doc.Find(`input[name="topic"]`).Attr("value")
	assert.Equal(t, "kettlebells", val)
	size, _ := doc.Find(`input[name="cluster_size"]`).Attr("value")
	assert.Equal(t, "20", size)
	assert.Contains(t, doc.Find(".tc-meta").Text(), "42 posts")
	assert.Equal(t, 2, doc.Find("tr.tc-generation").Length())
	assert.Contains(t, doc.Find("tr.tc-generation").Last().Text(), "(boom)")

	headers, _ := doc.Find("body").Attr("hx-headers")
	assert.Contains(t, headers, `"X-Nonce"`)
	assert.Contains(t, headers, srv.nonces.Make(testUser))
	assert.Equal(t, recentGenerations, d.store.RecentGenerationsCalls()[0].Limit)

	link := doc.Find("tr.tc-link")
	require.Equal(t, 1, link.Length())
	assert.Contains(t, link.Text(), "#11")
	assert.Contains(t, link.Text(), "squat depth")
	href, _ := link.Find("a").Attr("href")
	assert.Equal(t, "https://example.com/squat", href)
	assert.Equal(t, recentLinks, d.store.RecentLinksCalls()[0].Limit)
}

func TestServer_adminPageHandler_StoreErrors(t *testing.T) {
	d := newTestDeps()
	d.store.LastTopicFunc = func(ctx context.Context) (string, error) { return "", errors.New("db down") }
	d.store.CountPostsFunc = func(ctx context.Context) (int, error) { return 0, errors.New("db down") }
	d.store.RecentGenerationsFunc = func(ctx context.Context, limit int) ([]domain.Generation, error) {
		return nil, errors.New("db down")
	}
	d.store.RecentLinksFunc = func(ctx context.Context, limit int) ([]domain.LinkInsertion, error) {
		return nil, errors.New("db down")
	}
	srv := testServer(t, d)

	w := adminRequest(t, srv, "GET", "/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w.Body.String())
	assert.Equal(t, 1, doc.Find("form.tc-form").Length())
	assert.Equal(t, 0, doc.Find(".tc-history").Length())
}

func TestServer_adminPageHandler_Setup(t *testing.T) {
	d := newTestDeps()
	d.cfg.ConfiguredFunc = func() bool { return false }
	srv := testServer(t, d)

	w := adminRequest(t, srv, "GET", "/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w.Body.String())
	assert.Equal(t, setupMessage, strings.TrimSpace(doc.Find(".tc-setup").Text()))
	assert.Equal(t, 0, doc.Find("form").Length())
	assert.Empty(t, d.store.LastTopicCalls())
}

func TestServer_SessionFlow_Results(t *testing.T) {
	d := newTestDeps()
	d.remote.GenerateFunc = func(ctx context.Context, topic string, clusterSize int) (*domain.GenerateResponse, error) {
		return &domain.GenerateResponse{GenerationID: "gen-1"}, nil
	}
	d.remote.CheckStatusFunc = func(ctx context.Context, id string) (*domain.GenerationStatus, error) {
		return &domain.GenerationStatus{Status: domain.StatusComplete, Progress: 100}, nil
	}
	d.remote.GetResultsFunc = func(ctx context.Context, id string) (*domain.Results, error) {
		return sampleResults(), nil
	}
	srv := testServer(t, d)

	id := startSession(t, srv, url.Values{"topic": {"strength training"}, "cluster_size": {"8"}})
	require.Len(t, d.store.SetLastTopicCalls(), 1)
	assert.Equal(t, "strength training", d.store.SetLastTopicCalls()[0].Topic)

	doc := pollFragment(t, srv, id)
	res := doc.Find("#tc-session.tc-results")
	require.Equal(t, 1, res.Length())
	assert.Equal(t, id, res.AttrOr("data-session", ""))
	assert.Equal(t, 4, res.Find(".tc-stars .on").Length())
	assert.Equal(t, 1, res.Find(".tc-stars .off").Length())
	assert.Equal(t, "Good", res.Find(".tc-strength.good").Text())
	assert.Contains(t, res.Find(".tc-stats").Text(), "16.7%")

	rows := res.Find("tr.tc-row")
	require.Equal(t, 2, rows.Length())
	first := rows.First()
	assert.Equal(t, "row-1-2", first.AttrOr("id", ""))
	assert.Equal(t, "Squats 101", first.Find(".tc-source").Text())
	assert.Equal(t, "Deadlift form", first.Find(".tc-target a").Text())
	assert.Equal(t, "82%", first.Find(".tc-score.high").Text())
	assert.Equal(t, "41%", rows.Last().Find(".tc-score.low").Text())

	payload := first.Find(`input[name="suggestions"]`).AttrOr("value", "")
	sg, err := parseSuggestions(payload)
	require.NoError(t, err)
	require.Len(t, sg, 1)
	assert.Equal(t, "deadlift", sg[0].PrimaryAnchor)

	bulk, err := parseSuggestions(res.Find(`form.tc-bulk input[name="suggestions"]`).AttrOr("value", ""))
	require.NoError(t, err)
	assert.Len(t, bulk, 2)

	assert.Equal(t, 8, d.remote.GenerateCalls()[0].ClusterSize)
	assert.Len(t, d.remote.GetResultsCalls(), 1)
}

func TestServer_SessionFlow_Empty(t *testing.T) {
	d := newTestDeps()
	d.remote.GenerateFunc = func(ctx context.Context, topic string, clusterSize int) (*domain.GenerateResponse, error) {
		return &domain.GenerateResponse{GenerationID: "gen-2"}, nil
	}
	d.remote.CheckStatusFunc = func(ctx context.Context, id string) (*domain.GenerationStatus, error) {
		return &domain.GenerationStatus{Status: domain.StatusComplete, Progress: 100}, nil
	}
	d.remote.GetResultsFunc = func(ctx context.Context, id string) (*domain.Results, error) {
		return &domain.Results{Topic: "underwater basket weaving"}, nil
	}
	srv := testServer(t, d)

	id := startSession(t, srv, url.Values{"topic": {"underwater basket weaving"}})
	doc := pollFragment(t, srv, id)
	assert.Contains(t, doc.Find("#tc-session.tc-empty").Text(), `No posts found related to "underwater basket weaving".`)
}

func TestServer_SessionFlow_Error(t *testing.T) {
	d := newTestDeps()
	d.remote.GenerateFunc = func(ctx context.Context, topic string, clusterSize int) (*domain.GenerateResponse, error) {
		return &domain.GenerateResponse{GenerationID: "gen-3"}, nil
	}
	d.remote.CheckStatusFunc = func(ctx context.Context, id string) (*domain.GenerationStatus, error) {
		return &domain.GenerationStatus{Status: domain.StatusError, Error: "embedding service unavailable"}, nil
	}
	srv := testServer(t, d)

	id := startSession(t, srv, url.Values{"topic": {"yoga"}})
	doc := pollFragment(t, srv, id)
	assert.Equal(t, "embedding service unavailable", doc.Find("#tc-session.tc-error .tc-error-message").Text())
	assert.Empty(t, d.remote.GetResultsCalls())

	require.Eventually(t, func() bool {
		calls := d.store.SaveGenerationCalls()
		return len(calls) > 0 && calls[len(calls)-1].G.Status == domain.StatusError
	}, time.Second, 5*time.Millisecond)
}

func TestServer_SessionFlow_GenerateFails(t *testing.T) {
	d := newTestDeps()
	d.remote.GenerateFunc = func(ctx context.Context, topic string, clusterSize int) (*domain.GenerateResponse, error) {
		return nil, &domain.RemoteError{StatusCode: 403, Msg: "API returned status code 403"}
	}
	srv := testServer(t, d)

	id := startSession(t, srv, url.Values{"topic": {"yoga"}})
	doc := pollFragment(t, srv, id)
	assert.Equal(t, "API returned status code 403", doc.Find(".tc-error-message").Text())
	assert.Empty(t, d.remote.CheckStatusCalls())
}

func TestServer_createSessionHandler_Validation(t *testing.T) {
	t.Run("empty topic", func(t *testing.T) {
		d := newTestDeps()
		srv := testServer(t, d)
		w := adminRequest(t, srv, "POST", "/admin/sessions", url.Values{"topic": {" "}})
		require.Equal(t, http.StatusOK, w.Code)
		doc := parseHTML(t, w.Body.String())
		assert.Equal(t, "Topic is required", doc.Find(".tc-error-message").Text())
		assert.Equal(t, 0, srv.sessions.count())
		assert.Empty(t, d.store.SetLastTopicCalls())
	})

	t.Run("not configured", func(t *testing.T) {
		d := newTestDeps()
		d.cfg.ConfiguredFunc = func() bool { return false }
		srv := testServer(t, d)
		w := adminRequest(t, srv, "POST", "/admin/sessions", url.Values{"topic": {"yoga"}})
		doc := parseHTML(t, w.Body.String())
		assert.Equal(t, 1, doc.Find(".tc-error.tc-setup").Length())
		assert.Equal(t, 0, srv.sessions.count())
	})
}

func TestServer_createSessionHandler_ReplacesPrevious(t *testing.T) {
	d := newTestDeps()
	d.remote.GenerateFunc = func(ctx context.Context, topic string, clusterSize int) (*domain.GenerateResponse, error) {
		return &domain.GenerateResponse{GenerationID: "gen-" + topic}, nil
	}
	d.remote.CheckStatusFunc = func(ctx context.Context, id string) (*domain.GenerationStatus, error) {
		return &domain.GenerationStatus{Status: domain.StatusProcessing, Progress: 20}, nil
	}
	srv := testServer(t, d)

	first := startSession(t, srv, url.Values{"topic": {"a"}})
	second := startSession(t, srv, url.Values{"topic": {"b"}, "previous": {first}})
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, srv.sessions.count())

	w := adminRequest(t, srv, "GET", "/admin/sessions/"+first, nil)
	doc := parseHTML(t, w.Body.String())
	assert.Equal(t, "Session expired, please start again.", doc.Find(".tc-error-message").Text())

	w = adminRequest(t, srv, "GET", "/admin/sessions/"+second, nil)
	doc = parseHTML(t, w.Body.String())
	assert.Equal(t, 1, doc.Find("#tc-session.tc-progress").Length())
	assert.Contains(t, doc.Find("h3").Text(), "b")
}

func TestServer_deleteSessionHandler(t *testing.T) {
	d := newTestDeps()
	d.remote.GenerateFunc = func(ctx context.Context, topic string, clusterSize int) (*domain.GenerateResponse, error) {
		return &domain.GenerateResponse{GenerationID: "gen-1"}, nil
	}
	d.remote.CheckStatusFunc = func(ctx context.Context, id string) (*domain.GenerationStatus, error) {
		return &domain.GenerationStatus{Status: domain.StatusProcessing}, nil
	}
	srv := testServer(t, d)

	id := startSession(t, srv, url.Values{"topic": {"yoga"}})
	w := adminRequest(t, srv, "DELETE", "/admin/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, srv.sessions.count())

	calls := len(d.remote.CheckStatusCalls())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, len(d.remote.CheckStatusCalls()), "polling stopped")

	w = adminRequest(t, srv, "DELETE", "/admin/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"session not found"}`, w.Body.String())
}

func TestServer_insertLinksFragmentHandler(t *testing.T) {
	d := newTestDeps()
	d.linker.InsertLinksFunc = func(ctx context.Context, suggestions []domain.Suggestion) (domain.InsertResult, error) {
		return domain.InsertResult{Inserted: 1, Total: 2, Errors: []string{"post 5 not found"}}, nil
	}
	srv := testServer(t, d)

	payload := `[{"source_id":1,"target_url":"https://example.com/a","primary_anchor":"a"},
		{"source_id":5,"target_url":"https://example.com/b","primary_anchor":"b"}]`
	w := adminRequest(t, srv, "POST", "/admin/links", url.Values{"suggestions": {payload}})
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w.Body.String())
	assert.Contains(t, doc.Find(".tc-insert-result").Text(), "Inserted 1 of 2 links.")
	assert.Equal(t, "post 5 not found", doc.Find(".tc-insert-errors li").Text())

	w = adminRequest(t, srv, "POST", "/admin/links", url.Values{"suggestions": {"nope"}})
	doc = parseHTML(t, w.Body.String())
	assert.Equal(t, "Invalid suggestions data", doc.Find(".tc-error-message").Text())

	d.linker.InsertLinksFunc = func(ctx context.Context, suggestions []domain.Suggestion) (domain.InsertResult, error) {
		return domain.InsertResult{}, &domain.ValidationError{Msg: "no suggestions provided"}
	}
	w = adminRequest(t, srv, "POST", "/admin/links", url.Values{"suggestions": {payload}})
	doc = parseHTML(t, w.Body.String())
	assert.Equal(t, "no suggestions provided", doc.Find(".tc-error-message").Text())
	assert.Len(t, d.linker.InsertLinksCalls(), 2)
}

func TestServer_pollInterval(t *testing.T) {
	srv := testServer(t, newTestDeps())
	assert.Equal(t, "10ms", srv.pollInterval())
	srv.pollerOpts.Interval = 2 * time.Second
	assert.Equal(t, "2s", srv.pollInterval())
	srv.pollerOpts.Interval = 0
	assert.Equal(t, "2s", srv.pollInterval())
}
