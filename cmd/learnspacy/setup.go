package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/revelaction/learnspacy/annotate"
	"github.com/revelaction/learnspacy/config"
	"github.com/revelaction/learnspacy/embedding"
	"github.com/revelaction/learnspacy/logger"
	"github.com/revelaction/learnspacy/pipeline"
	"github.com/revelaction/learnspacy/pipeline/spacy"
	"github.com/revelaction/learnspacy/render"
	"github.com/revelaction/learnspacy/storage"
	"github.com/revelaction/learnspacy/storage/sqlite/zombiezen"
)

// loadPipeline starts the model. Tests replace it with an in-memory
// pipeline.
var loadPipeline = func(ctx context.Context, cfg config.Config, log *zap.Logger) (pipeline.Pipeline, error) {
	p, err := spacy.Load(ctx, spacy.Config{Model: cfg.Model, Python: cfg.Python, Logger: log})
	if err != nil {
		return nil, err
	}

	log.Debug("model loaded", zap.String("model", p.Model()), zap.String("spacy", p.Version()))
	return p, nil
}

// session is a loaded pipeline with its cache and logger.
type session struct {
	cfg      config.Config
	log      *zap.Logger
	pipeline pipeline.Pipeline

	// store is nil without cache
	store *zombiezen.CacheStore

	closers []func() error
}

// resolveConfig merges the config file, the environment and the flags, in
// increasing order of precedence.
func resolveConfig(opts CommonOptions) (config.Config, error) {
	cfg, err := config.Read(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	override(&cfg.Model, opts.Model)
	override(&cfg.Python, opts.Python)
	override(&cfg.Cache, opts.Cache)
	override(&cfg.Scorer, opts.Scorer)
	override(&cfg.LogLevel, opts.LogLevel)
	if opts.Timeout >= 0 {
		cfg.LoadTimeoutSec = opts.Timeout
	}

	if err := cfg.Resolve(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func override(field *string, value string) {
	if value != "" {
		*field = value
	}
}

func newSession(opts CommonOptions) (*session, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log}

	ctx := context.Background()
	if cfg.LoadTimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.LoadTimeoutSec)*time.Second)
		defer cancel()
	}

	p, err := loadPipeline(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, p.Close)

	if cfg.Cache != "" {
		var pool Pool
		sqlPool, err := pool.Open(cfg.Cache)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to open cache %s: %w", cfg.Cache, err)
		}
		s.closers = append(s.closers, pool.Close)

		s.store = zombiezen.NewCacheStore(sqlPool)

		// embedding scores are not cached under the spaCy model name
		var scores storage.ScoreRepository
		if cfg.Scorer == config.ScorerSpacy {
			scores = s.store
		}
		p = pipeline.NewCached(p, s.store, scores)
		log.Debug("cache enabled", zap.String("path", cfg.Cache))
	}

	if cfg.Scorer == config.ScorerOpenAI {
		p = pipeline.WithScorer(p, embedding.New(embedding.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Logger:     log,
		}))
		log.Debug("embedding scorer enabled", zap.String("model", cfg.Embedding.Model))
	}

	s.pipeline = p
	return s, nil
}

func (s *session) printer(ui UI, opts RenderOptions) *annotate.Printer {
	r := render.NewRenderer()
	r.Out = ui.Out
	r.HasColor = opts.Color
	r.HasHeader = opts.Header
	r.Format = opts.Format

	return annotate.NewPrinter(s.pipeline, r)
}

// Close releases the cache and the child process, last opened first.
func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil

	_ = s.log.Sync()
	return errors.Join(errs...)
}
