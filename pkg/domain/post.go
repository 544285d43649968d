package domain

import (
	"encoding/json"
	"time"
)

// Post is a stored post whose content may receive inserted links
type Post struct {
	ID        int64
	Title     string
	Content   string
	URL       string
	UpdatedAt time.Time
}

// ClusterPost is a post as listed in generation results
type ClusterPost struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// UnmarshalJSON accepts both "id" and the legacy "wordpress_id" key
func (p *ClusterPost) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID          int64  `json:"id"`
		WordpressID int64  `json:"wordpress_id"`
		Title       string `json:"title"`
		URL         string `json:"url"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID, p.Title, p.URL = aux.ID, aux.Title, aux.URL
	if p.ID == 0 {
		p.ID = aux.WordpressID
	}
	return nil
}

// Suggestion is a proposed link from a source post to a target post
type Suggestion struct {
	SourceID       int64   `json:"source_id"`
	TargetID       int64   `json:"target_id"`
	TargetURL      string  `json:"target_url"`
	PrimaryAnchor  string  `json:"primary_anchor"`
	AnchorText     string  `json:"anchor_text,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

// UnmarshalJSON accepts both the current and the legacy "*_wordpress_id" keys
func (s *Suggestion) UnmarshalJSON(data []byte) error {
	var aux struct {
		SourceID          int64   `json:"source_id"`
		SourceWordpressID int64   `json:"source_wordpress_id"`
		TargetID          int64   `json:"target_id"`
		TargetWordpressID int64   `json:"target_wordpress_id"`
		TargetURL         string  `json:"target_url"`
		PrimaryAnchor     string  `json:"primary_anchor"`
		AnchorText        string  `json:"anchor_text"`
		RelevanceScore    float64 `json:"relevance_score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Suggestion{
		SourceID:       aux.SourceID,
		TargetID:       aux.TargetID,
		TargetURL:      aux.TargetURL,
		PrimaryAnchor:  aux.PrimaryAnchor,
		AnchorText:     aux.AnchorText,
		RelevanceScore: aux.RelevanceScore,
	}
	if s.SourceID == 0 {
		s.SourceID = aux.SourceWordpressID
	}
	if s.TargetID == 0 {
		s.TargetID = aux.TargetWordpressID
	}
	return nil
}

// Anchor returns the text to link, preferring the primary anchor
func (s Suggestion) Anchor() string {
	if s.PrimaryAnchor != "" {
		return s.PrimaryAnchor
	}
	return s.AnchorText
}

// ClusterAnalysis holds aggregate counts computed by the remote service
type ClusterAnalysis struct {
	NumPosts           int     `json:"num_posts"`
	ExistingLinks      int     `json:"existing_links"`
	LinkDensityPercent float64 `json:"link_density_percent"`
	Opportunities      int     `json:"opportunities"`
}

// Results is the final payload of a completed generation
type Results struct {
	Topic                string          `json:"topic"`
	TotalPosts           int             `json:"total_posts"`
	TotalOpportunities   int             `json:"total_opportunities"`
	ClusterStrengthStars int             `json:"cluster_strength_stars"`
	ClusterStrengthLabel string          `json:"cluster_strength_label"`
	ClusterAnalysis      ClusterAnalysis `json:"cluster_analysis"`
	Posts                []ClusterPost   `json:"posts"`
	Suggestions          []Suggestion    `json:"suggestions"`
}

// InsertResult summarizes a batch link insertion
type InsertResult struct {
	Inserted int      `json:"inserted"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors"`
}

// LinkInsertion is an audit record of a link written into a post
type LinkInsertion struct {
	ID         int64
	SourceID   int64
	TargetURL  string
	Anchor     string
	InsertedAt time.Time
}
