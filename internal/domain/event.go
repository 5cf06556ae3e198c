package domain

import "time"

// Article is a core entity describing a single post fetched from the
// community news feed. NormalizedText is filled lazily once the full
// content has been fetched.
type Article struct {
	ID             string
	Title          string
	Description    string
	RawContent     string
	NormalizedText string
	ImageURL       string
	ContentFetched bool
}

// Comment is a single reply to an article, with its like count.
type Comment struct {
	Content string
	Likes   int
}

// VersionInfo captures a version announcement and the real-world start
// time derived from its maintenance window.
type VersionInfo struct {
	Version           string
	UpdateAnnouncedAt time.Time
	DerivedStart      time.Time
}

// DateRange is a validated start/end pair extracted from article text.
// Version is set when the start was resolved through a version reference.
type DateRange struct {
	Start   time.Time
	End     time.Time
	Version string
}

// Sentiment is the aggregate mood of an article's comment section.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ISOLayout renders timestamps the way downstream consumers expect them.
const ISOLayout = "2006-01-02T15:04:05"

// EventRecord is the normalized output emitted to sinks, one per
// qualifying article per run. Sinks merge by EventID.
type EventRecord struct {
	EventID        string `json:"eventId"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	StartTimestamp int64  `json:"startTimestamp"`
	EndTimestamp   int64  `json:"endTimestamp"`
	Version        string `json:"version,omitempty"`
	Sentiment      string `json:"sentiment,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	LastUpdated    string `json:"lastUpdated"`
}

// EpochMillis converts a timestamp to whole-second epoch milliseconds;
// source data carries no sub-second precision.
func EpochMillis(t time.Time) int64 {
	return t.Unix() * 1000
}
