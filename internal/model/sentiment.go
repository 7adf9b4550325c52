package model

import "time"

// SentimentSource identifies one of the recognized textual sentiment feeds.
type SentimentSource string

const (
	SourceTwitter SentimentSource = "Twitter"
	SourceReddit  SentimentSource = "Reddit"
	SourceNews    SentimentSource = "News"
)

// SentimentSources lists all recognized sources in aggregation order.
var SentimentSources = []SentimentSource{SourceTwitter, SourceReddit, SourceNews}

// Valid reports whether s is one of the recognized sources.
func (s SentimentSource) Valid() bool {
	switch s {
	case SourceTwitter, SourceReddit, SourceNews:
		return true
	}
	return false
}

// SentimentObservation is one scored piece of text from a sentiment source.
// Append-only; pruned by age.
type SentimentObservation struct {
	Score      float64         `json:"score"`      // [-1,1], negative to positive
	Confidence float64         `json:"confidence"` // [0,1]
	Source     SentimentSource `json:"source"`
	Timestamp  time.Time       `json:"timestamp"`
	Text       string          `json:"text"`
}
