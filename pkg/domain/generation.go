package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Status is the state of a generation, as reported by the remote service or set by the poller
type Status string

// statuses reported by the remote service
const (
	StatusPending               Status = "pending"
	StatusProcessing            Status = "processing"
	StatusFindingPosts          Status = "finding_posts"
	StatusAnalyzingKeywords     Status = "analyzing_keywords"
	StatusCalculatingSimilarity Status = "calculating_similarity"
	StatusGeneratingSuggestions Status = "generating_suggestions"
	StatusComplete              Status = "complete"
	StatusError                 Status = "error"
)

// poller-only states, never reported by the remote service
const (
	StatusIdle       Status = "idle"
	StatusRequesting Status = "requesting"
)

var statusMessages = map[Status]string{
	StatusIdle:                  "Enter a topic to find related posts",
	StatusRequesting:            "Initializing search...",
	StatusPending:               "Queued for processing...",
	StatusProcessing:            "Analyzing your content...",
	StatusFindingPosts:          "Finding related posts...",
	StatusAnalyzingKeywords:     "Extracting keywords and topics...",
	StatusCalculatingSimilarity: "Calculating semantic similarity...",
	StatusGeneratingSuggestions: "Creating link suggestions...",
	StatusComplete:              "Analysis complete!",
	StatusError:                 "An error occurred",
}

// Terminal reports whether the status ends a generation attempt
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// Running reports whether the status is one of the remote in-progress states
func (s Status) Running() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusFindingPosts, StatusAnalyzingKeywords,
		StatusCalculatingSimilarity, StatusGeneratingSuggestions:
		return true
	}
	return false
}

// Message returns the progress label shown to the user
func (s Status) Message() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return "Processing..."
}

// Generation is one topic-cluster analysis attempt
type Generation struct {
	ID          string
	Topic       string
	ClusterSize int
	Status      Status
	Progress    Progress
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GenerateResponse is returned by the remote service when a generation starts
type GenerateResponse struct {
	GenerationID string   `json:"generation_id"`
	Status       Status   `json:"status,omitempty"`
	Progress     Progress `json:"progress"`
}

// GenerationStatus is returned by the remote service on each status poll
type GenerationStatus struct {
	Status   Status   `json:"status"`
	Progress Progress `json:"progress"`
	Error    string   `json:"error,omitempty"`
}

// Progress is a 0-100 completion hint; the remote service may send it as a float
type Progress int

// UnmarshalJSON accepts integer, float and null values, rounding and clamping to 0..100
func (p *Progress) UnmarshalJSON(data []byte) error {
	var f *float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f == nil {
		*p = 0
		return nil
	}
	v := int(math.Round(*f))
	*p = Progress(min(max(v, 0), 100))
	return nil
}
