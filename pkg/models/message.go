package models

import "time"

// Engagement labels assigned by the classifier. Exactly three values exist.
const (
	EngagementLow    = "Low Engagement (Short/Emoji)"
	EngagementHigh   = "High Engagement (Question/Long)"
	EngagementMedium = "Medium Engagement (Response)"
)

// UnknownUser is the placeholder for messages without an author
// (e.g. anonymous posts).
const UnknownUser = "Unknown User"

// Message is one canonical record per chat message or forum post,
// regardless of source (Slack export or Reddit export).
type Message struct {
	// ID is a stable row identity assigned at normalization time.
	// It is derived state used for API addressing and the operator's
	// per-session resolved tracking, not a canonical column.
	ID        string    `json:"id"`
	Workspace string    `json:"workspace"`
	Channel   string    `json:"channel"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`

	// Derived columns, populated by the enrichment pipeline.
	EngagementLabel string `json:"engagement_label,omitempty"`
	SentimentBucket int    `json:"sentiment_bucket,omitempty"`
	IsQuestion      bool   `json:"is_question"`
	IsUnanswered    bool   `json:"is_unanswered"`
}
