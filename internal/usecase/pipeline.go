package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"EventScanner/internal/classify"
	"EventScanner/internal/dates"
	"EventScanner/internal/domain"
	"EventScanner/internal/ports"
	"EventScanner/internal/sentiment"
	"EventScanner/internal/version"
)

const (
	defaultMaxPages   = 10
	defaultEventLimit = 10
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Classifier ports.SentimentClassifier
	Sink       ports.EventSink
	Notifier   ports.Notifier
	Logger     *slog.Logger
	MaxPages   int
	EventLimit int
	Now        func() time.Time
}

// Pipeline implements the two-pass event-extraction workflow: pass one
// pages through the feed and records version start times, pass two
// resolves event date ranges against the completed registry.
type Pipeline struct {
	source     ports.ArticleSource
	classifier ports.SentimentClassifier
	sink       ports.EventSink
	notifier   ports.Notifier
	logger     *slog.Logger
	maxPages   int
	eventLimit int
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.MaxPages <= 0 {
		deps.MaxPages = defaultMaxPages
	}
	if deps.EventLimit <= 0 {
		deps.EventLimit = defaultEventLimit
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{
		source:     deps.Source,
		classifier: deps.Classifier,
		sink:       deps.Sink,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		maxPages:   deps.MaxPages,
		eventLimit: deps.EventLimit,
		now:        deps.Now,
	}
}

// Run executes one full scrape: version discovery, then event
// extraction. Nothing here is fatal; the pipeline always returns
// whatever records it managed to build, even if zero.
func (p *Pipeline) Run(ctx context.Context) []domain.EventRecord {
	if p.source == nil {
		return nil
	}

	runID := uuid.NewString()
	log := p.logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("run_id", runID)

	registry := version.NewRegistry()
	articles := p.discoverVersions(ctx, log, registry)
	log.Info("first pass complete", "articles", len(articles), "versions", registry.Len())

	records := p.extractEvents(ctx, log, articles, registry)
	log.Info("second pass complete", "events", len(records))

	p.publishDigest(ctx, log, records)
	return records
}

// discoverVersions pages through the feed, recording version start
// times from maintenance announcements and accumulating every article
// for the second pass.
func (p *Pipeline) discoverVersions(ctx context.Context, log *slog.Logger, registry *version.Registry) []domain.Article {
	var all []domain.Article
	cursor := ""

	for page := 1; page <= p.maxPages; page++ {
		articles, nextCursor, isLast, err := p.source.ListArticles(ctx, cursor)
		if err != nil {
			log.Warn("list articles failed, stopping pagination", "page", page, "error", err)
			break
		}
		if len(articles) == 0 {
			break
		}

		for i := range articles {
			article := &articles[i]
			if classify.IsVersionUpdate(article.Title, article.Description) {
				p.fetchInto(ctx, log, article)
				if info, ok := version.ParseUpdate(article.NormalizedText); ok {
					if registry.Record(info) {
						log.Info("recorded version start",
							"version", info.Version,
							"derived_start", info.DerivedStart.Format(domain.ISOLayout))
					}
				}
			}
		}

		all = append(all, articles...)
		cursor = nextCursor
		if isLast {
			break
		}
	}

	return all
}

// extractEvents walks the accumulated articles in original order and
// emits a record for each event article whose dates validate, stopping
// at the configured limit.
func (p *Pipeline) extractEvents(ctx context.Context, log *slog.Logger, articles []domain.Article, registry *version.Registry) []domain.EventRecord {
	var records []domain.EventRecord

	for i := range articles {
		if len(records) >= p.eventLimit {
			break
		}

		article := &articles[i]
		if !classify.IsEvent(article.Title, article.Description) {
			continue
		}

		if !article.ContentFetched {
			p.fetchInto(ctx, log, article)
		}

		dateRange, ok := dates.Extract(article.NormalizedText, registry)
		if !ok {
			log.Debug("no parseable dates, skipping", "article_id", article.ID, "title", article.Title)
			continue
		}

		record := p.buildRecord(ctx, article, dateRange)
		records = append(records, record)
		p.store(ctx, log, record)
	}

	return records
}

// fetchInto loads full content for an article; on failure the article
// keeps whatever text it already has.
func (p *Pipeline) fetchInto(ctx context.Context, log *slog.Logger, article *domain.Article) {
	content, err := p.source.FetchContent(ctx, article.ID)
	if err != nil {
		log.Warn("fetch content failed", "article_id", article.ID, "error", err)
		return
	}

	if content.Description != "" {
		article.Description = content.Description
	}
	article.NormalizedText = content.NormalizedText
	article.ImageURL = content.ImageURL
	article.ContentFetched = true
}

func (p *Pipeline) buildRecord(ctx context.Context, article *domain.Article, dateRange domain.DateRange) domain.EventRecord {
	record := domain.EventRecord{
		EventID:        article.ID,
		Title:          article.Title,
		Description:    article.Description,
		StartDate:      dateRange.Start.Format(domain.ISOLayout),
		EndDate:        dateRange.End.Format(domain.ISOLayout),
		StartTimestamp: domain.EpochMillis(dateRange.Start),
		EndTimestamp:   domain.EpochMillis(dateRange.End),
		Version:        dateRange.Version,
		ImageURL:       article.ImageURL,
		LastUpdated:    p.now().Format(domain.ISOLayout),
	}

	if p.classifier != nil {
		comments, err := p.source.FetchComments(ctx, article.ID)
		if err != nil {
			comments = nil
		}
		record.Sentiment = string(sentiment.Aggregate(ctx, p.classifier, comments))
	}

	return record
}

func (p *Pipeline) store(ctx context.Context, log *slog.Logger, record domain.EventRecord) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Upsert(ctx, record); err != nil {
		log.Warn("sink upsert failed", "event_id", record.EventID, "error", err)
	}
}

func (p *Pipeline) publishDigest(ctx context.Context, log *slog.Logger, records []domain.EventRecord) {
	if p.notifier == nil || len(records) == 0 {
		return
	}
	if err := p.notifier.PublishDigest(ctx, buildDigestMessage(records)); err != nil {
		log.Warn("publish digest failed", "error", err)
	}
}
