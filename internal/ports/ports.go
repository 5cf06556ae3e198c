package ports

import (
	"context"
	"time"

	"EventScanner/internal/domain"
)

// ArticleContent is the full payload of a single post, already flattened
// into plain text by the adapter.
type ArticleContent struct {
	Description    string
	NormalizedText string
	ImageURL       string
}

// ArticleSource pages through the remote news feed and resolves full
// article content and comments on demand. A failed call returns an
// error; callers log it and treat the result as empty.
type ArticleSource interface {
	ListArticles(ctx context.Context, cursor string) (articles []domain.Article, nextCursor string, isLast bool, err error)
	FetchContent(ctx context.Context, articleID string) (ArticleContent, error)
	FetchComments(ctx context.Context, articleID string) ([]domain.Comment, error)
}

// SentimentClassifier scores a single piece of text. Implementations
// truncate overlong input internally.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (domain.Sentiment, error)
}

// EventSink persists event records with merge-by-key semantics, so
// repeated runs over the same source data are idempotent.
type EventSink interface {
	Upsert(ctx context.Context, record domain.EventRecord) error
}

// Notifier streams run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when scrape runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
