package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/intent-responder/internal/classifier"
	"github.com/danielpatrickdp/intent-responder/internal/config"
	"github.com/danielpatrickdp/intent-responder/internal/corpus"
	"github.com/danielpatrickdp/intent-responder/internal/gate"
	"github.com/danielpatrickdp/intent-responder/internal/learned"
	"github.com/danielpatrickdp/intent-responder/internal/logging"
	"github.com/danielpatrickdp/intent-responder/internal/resolver"
	"github.com/danielpatrickdp/intent-responder/internal/session"
	"github.com/danielpatrickdp/intent-responder/internal/storage"
)

// #region app
// app holds the wired components for one process.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	intents    []corpus.Intent
	classifier *classifier.Classifier
	db         *storage.Store
	store      learned.Store
	convo      *logging.ConversationLog
	resolver   *resolver.Resolver
	run        storage.TrainingRun
}

// openStorage opens the database and learned store without training.
func openStorage(cfg *config.Config, log *zap.Logger) (*storage.Store, learned.Store, error) {
	db, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	store, err := learned.Open(cfg.Learned.Backend, cfg.Learned.Path, db.DB())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	n, err := learned.Check(store)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Debug("learned knowledge loaded", zap.String("backend", cfg.Learned.Backend), zap.Int("entries", n))
	return db, store, nil
}

// buildApp loads the corpus, trains the classifier and wires the resolver.
// progress may be nil.
func buildApp(cfg *config.Config, log *zap.Logger, progress func(iter, max int)) (*app, error) {
	intents, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return nil, err
	}

	opts := cfg.TrainOptions()
	if progress != nil {
		opts = append(opts, classifier.WithProgress(progress))
	}
	start := time.Now()
	clf, err := classifier.Train(intents, opts...)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	stats := clf.Stats()
	log.Info("classifier trained",
		zap.Int("samples", stats.Samples),
		zap.Int("classes", stats.Classes),
		zap.Int("vocabulary", stats.Vocabulary),
		zap.Int("iterations", stats.Iterations),
		zap.Bool("converged", stats.Converged),
		zap.Duration("elapsed", time.Since(start)),
	)

	db, store, err := openStorage(cfg, log)
	if err != nil {
		return nil, err
	}
	run, err := db.RecordTrainingRun(storage.TrainingRun{
		CorpusFingerprint: corpus.Fingerprint(intents),
		Samples:           stats.Samples,
		Classes:           stats.Classes,
		Vocabulary:        stats.Vocabulary,
		Iterations:        stats.Iterations,
		Converged:         stats.Converged,
	})
	if err != nil {
		log.Warn("training run not recorded", zap.Error(err))
	}
	convo, err := logging.NewConversationLog(db.DB())
	if err != nil {
		db.Close()
		return nil, err
	}

	g := gate.NewGate(cfg.GateConfig(corpus.SystemTags(intents)))
	r := resolver.New(clf, intents, store, g,
		resolver.WithMessages(cfg.ResolverMessages()),
		resolver.WithLogger(log),
	)

	return &app{
		cfg:        cfg,
		log:        log,
		intents:    intents,
		classifier: clf,
		db:         db,
		store:      store,
		convo:      convo,
		resolver:   r,
		run:        run,
	}, nil
}

// newSession starts a conversation that logs to the shared history.
func (a *app) newSession(id string) *session.Session {
	return session.New(a.resolver, a.store,
		session.WithID(id),
		session.WithExchangeLog(a.convo),
		session.WithThanks(a.cfg.Messages.Learned),
		session.WithLogger(a.log),
	)
}

func (a *app) Close() error {
	return a.db.Close()
}

// #endregion app
