// Package render turns generation results into a view model shared by the admin templates
// and the cli output.
package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/umputun/topicclusters/pkg/domain"
)

// score classes
const (
	ScoreHigh   = "high"
	ScoreMedium = "medium"
	ScoreLow    = "low"
)

const (
	unknownTitle  = "Unknown"
	untitled      = "Untitled"
	maxStars      = 5
	noSuggestions = "No link opportunities found."
)

var strengthClasses = map[string]bool{"weak": true, "fair": true, "good": true, "strong": true, "excellent": true}

// View is the rendered form of a results payload
type View struct {
	Topic              string
	Empty              bool
	EmptyMessage       string
	TotalPosts         int
	TotalOpportunities int
	Stars              [maxStars]bool
	StrengthLabel      string
	StrengthClass      string
	Stats              Stats
	Rows               []Row
	NoSuggestions      bool
	NoSuggestionsText  string
	AllSuggestions     []domain.Suggestion // unfiltered, used by bulk insert
}

// Stats is the cluster analysis summary line
type Stats struct {
	NumPosts      int
	ExistingLinks int
	LinkDensity   string
	Opportunities int
}

// Row is one suggestion in the results table
type Row struct {
	ID          string
	SourceID    int64
	SourceTitle string
	SourceURL   string
	TargetID    int64
	TargetTitle string
	TargetURL   string
	Anchor      string
	Score       int
	ScoreClass  string
	Suggestion  domain.Suggestion
}

// Build makes a view from results. Suggestions whose source post is not among the results
// posts are dropped, an unknown target is shown as "Unknown".
func Build(res domain.Results) View {
	v := View{
		Topic:              res.Topic,
		TotalPosts:         res.TotalPosts,
		TotalOpportunities: res.TotalOpportunities,
		AllSuggestions:     res.Suggestions,
		NoSuggestionsText:  noSuggestions,
	}
	if v.AllSuggestions == nil {
		v.AllSuggestions = []domain.Suggestion{}
	}
	if len(res.Posts) == 0 {
		v.Empty = true
		v.EmptyMessage = fmt.Sprintf("No posts found related to %q.", res.Topic)
		return v
	}

	v.Stars = stars(res.ClusterStrengthStars)
	v.StrengthLabel = res.ClusterStrengthLabel
	if cls := strings.ToLower(strings.TrimSpace(res.ClusterStrengthLabel)); strengthClasses[cls] {
		v.StrengthClass = cls
	}
	v.Stats = Stats{
		NumPosts:      res.ClusterAnalysis.NumPosts,
		ExistingLinks: res.ClusterAnalysis.ExistingLinks,
		LinkDensity:   strconv.FormatFloat(res.ClusterAnalysis.LinkDensityPercent, 'f', -1, 64) + "%",
		Opportunities: res.ClusterAnalysis.Opportunities,
	}

	posts := make(map[int64]domain.ClusterPost, len(res.Posts))
	for _, p := range res.Posts {
		posts[p.ID] = p
	}

	for _, sg := range res.Suggestions {
		src, ok := posts[sg.SourceID]
		if !ok {
			continue
		}
		row := Row{
			ID:          fmt.Sprintf("%d-%d", sg.SourceID, sg.TargetID),
			SourceID:    sg.SourceID,
			SourceTitle: src.Title,
			SourceURL:   src.URL,
			TargetID:    sg.TargetID,
			TargetTitle: unknownTitle,
			TargetURL:   sg.TargetURL,
			Anchor:      sg.Anchor(),
			Score:       ScorePercent(sg.RelevanceScore),
			Suggestion:  sg,
		}
		if row.SourceTitle == "" {
			row.SourceTitle = untitled
		}
		if dst, ok := posts[sg.TargetID]; ok {
			row.TargetTitle = dst.Title
			if row.TargetTitle == "" {
				row.TargetTitle = untitled
			}
		}
		row.ScoreClass = ScoreClass(row.Score)
		v.Rows = append(v.Rows, row)
	}
	v.NoSuggestions = len(v.Rows) == 0
	return v
}

// ScorePercent converts a 0..1 relevance score to a rounded percentage
func ScorePercent(score float64) int {
	return int(math.Round(score * 100))
}

// ScoreClass returns the badge class for a percentage score
func ScoreClass(percent int) string {
	switch {
	case percent >= 70:
		return ScoreHigh
	case percent >= 50:
		return ScoreMedium
	default:
		return ScoreLow
	}
}

// JSON encodes the row suggestion for the per-row insert action
func (r Row) JSON() string {
	return encode([]domain.Suggestion{r.Suggestion})
}

// SuggestionsJSON encodes all suggestions for the bulk insert action
func (v View) SuggestionsJSON() string {
	return encode(v.AllSuggestions)
}

func stars(n int) (res [maxStars]bool) {
	n = max(0, min(n, maxStars))
	for i := range n {
		res[i] = true
	}
	return res
}

func encode(sg []domain.Suggestion) string {
	data, err := json.Marshal(sg)
	if err != nil {
		return "[]"
	}
	return string(data)
}
