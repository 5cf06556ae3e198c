package app

import (
	"context"
	"log/slog"

	"EventScanner/internal/config"
	"EventScanner/internal/infrastructure/hoyolab"
	"EventScanner/internal/infrastructure/llm"
	"EventScanner/internal/infrastructure/ml"
	"EventScanner/internal/infrastructure/scheduler"
	"EventScanner/internal/infrastructure/storage"
	"EventScanner/internal/infrastructure/telegram"
	"EventScanner/internal/logging"
	"EventScanner/internal/ports"
	"EventScanner/internal/scanner"
	"EventScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	closers  []func() error
}

// New builds a runnable application instance. Optional adapters are
// only constructed when their configuration is present.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	application := &Application{cfg: cfg, logger: baseLogger}

	registry := scanner.NewRegistry()
	registry.Register("hoyolab", hoyolab.NewClient(nil, hoyolab.Options{
		BaseURL:  cfg.Source.BaseURL,
		GameID:   cfg.Source.GameID,
		PageSize: cfg.Source.PageSize,
		DelayMin: cfg.Source.DelayMin(),
		DelayMax: cfg.Source.DelayMax(),
	}, baseLogger.With("component", "source.hoyolab")))

	source, err := registry.Resolve(cfg.Source.Scanner)
	if err != nil {
		return nil, err
	}

	sink, err := application.buildSink(ctx)
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	application.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Classifier: application.buildClassifier(),
		Sink:       sink,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
		MaxPages:   cfg.Pipeline.MaxPages,
		EventLimit: cfg.Pipeline.EventLimit,
	})

	return application, nil
}

func (a *Application) buildClassifier() ports.SentimentClassifier {
	if a.cfg.Sentiment.InferenceURL != "" {
		return ml.NewClient(a.cfg.Sentiment.InferenceURL, a.cfg.Sentiment.APIKey)
	}
	if a.cfg.ChatGPT.APIKey != "" {
		return llm.NewClassifier(a.cfg.ChatGPT)
	}
	return nil
}

func (a *Application) buildSink(ctx context.Context) (ports.EventSink, error) {
	var sinks []ports.EventSink

	if a.cfg.Output.FilePath != "" {
		sinks = append(sinks, storage.NewFileSink(a.cfg.Output.FilePath))
	}

	if a.cfg.Database.DSN != "" {
		pg, err := storage.NewPostgresSink(a.cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		sinks = append(sinks, pg)
	}

	if a.cfg.Firestore.ProjectID != "" {
		fs, err := storage.NewFirestoreSink(ctx,
			a.cfg.Firestore.ProjectID,
			a.cfg.Firestore.CredentialsFile,
			a.cfg.Firestore.Collection)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, fs.Close)
		sinks = append(sinks, fs)
	}

	multi := storage.NewMultiSink(sinks...)
	if multi.Empty() {
		return nil, nil
	}
	return multi, nil
}

// Run performs a single scrape, or blocks on the interval scheduler
// when recurring runs are enabled.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if !a.cfg.Scheduler.Enabled {
		records := a.pipeline.Run(ctx)
		a.logger.Info("run finished", "events", len(records))
		return nil
	}

	driver := scheduler.NewTickerScheduler(a.cfg.Scheduler.IntervalDuration())
	runner := usecase.NewScheduler(driver, a.pipeline)
	if err := runner.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return runner.Stop(context.Background())
}

// Close releases held resources (database and document-store clients).
func (a *Application) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close resource", "error", err)
		}
	}
}
