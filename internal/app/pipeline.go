// Package app assembles the classification pipeline from configuration.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ressKim-io/NewsMind/api-service/internal/adapter/client"
	"github.com/ressKim-io/NewsMind/api-service/internal/adapter/feed"
	"github.com/ressKim-io/NewsMind/api-service/internal/adapter/resolver"
	"github.com/ressKim-io/NewsMind/api-service/internal/adapter/tokenizer"
	"github.com/ressKim-io/NewsMind/api-service/internal/domain/service"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/config"
)

// Pipeline holds the shared, read-only components built once per process
type Pipeline struct {
	Classifier *service.BiasClassifier
	Model      *client.MLModel
	Resolver   *resolver.ArticleResolver
	Feeds      *feed.Reader
}

// NewPipeline loads the vocabulary, connects the model client and builds
// the article and feed readers. When cfg.Model.VerifyOnStart is set the served
// model must pass Verify; otherwise a failed check is only logged.
func NewPipeline(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Pipeline, error) {
	vocab, err := tokenizer.LoadVocab(cfg.Model.VocabPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	log.Info("Loaded vocabulary",
		zap.String("path", cfg.Model.VocabPath),
		zap.Int("size", vocab.Size()),
	)

	mlClient := client.NewMLClient(cfg.Model.Endpoint, cfg.Model.Name, cfg.Model.Timeout)
	model := client.NewMLModel(mlClient)

	if err := model.Verify(ctx); err != nil {
		if cfg.Model.VerifyOnStart {
			return nil, fmt.Errorf("failed to verify model %s: %w", cfg.Model.Name, err)
		}
		log.Warn("Model verification failed, continuing",
			zap.String("endpoint", cfg.Model.Endpoint),
			zap.String("model", cfg.Model.Name),
			zap.Error(err),
		)
	} else {
		log.Info("Model verified",
			zap.String("endpoint", cfg.Model.Endpoint),
			zap.String("model", cfg.Model.Name),
		)
	}

	articleResolver := resolver.NewArticleResolver(resolver.Options{
		Timeout:      cfg.Resolver.Timeout,
		UserAgent:    cfg.Resolver.UserAgent,
		MaxBodyBytes: cfg.Resolver.MaxBodyBytes,
	})

	return &Pipeline{
		Classifier: service.NewBiasClassifier(tokenizer.New(vocab), model),
		Model:      model,
		Resolver:   articleResolver,
		Feeds:      feed.NewReader(cfg.Resolver.Timeout, cfg.Resolver.UserAgent),
	}, nil
}

// ModelKey identifies the served model as "<name>:<version>". The version is
// "unversioned" when the server did not report one.
func (p *Pipeline) ModelKey() string {
	version := p.Model.Version()
	if version == "" {
		version = "unversioned"
	}
	return strings.Join([]string{p.Model.Name(), version}, ":")
}
