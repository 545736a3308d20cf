package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/entity"
	"github.com/ressKim-io/NewsMind/api-service/internal/domain/repository"
	"github.com/ressKim-io/NewsMind/api-service/internal/domain/service"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/metrics"
)

// ArticleExcerptRunes is how much body text is classified when an article has no title
const ArticleExcerptRunes = 300

// DefaultInferenceTimeout bounds a shared forward pass when Options leaves it unset
const DefaultInferenceTimeout = 30 * time.Second

// Error definitions for classify usecase
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrHistoryDisabled    = errors.New("prediction history is disabled")
	ErrFeedsDisabled      = errors.New("feed classification is disabled")
)

// ClassifyTextInput represents the input for classifying a headline
type ClassifyTextInput struct {
	Text string `json:"text"`
}

// ClassifyURLInput represents the input for classifying an article link
type ClassifyURLInput struct {
	URL string `json:"url" binding:"required"`
}

// ClassifyOutput represents the outcome of one classification request.
// Result always holds either the label or the warning.
type ClassifyOutput struct {
	PredictionID   uuid.UUID `json:"prediction_id"`
	Source         string    `json:"source"`
	Result         string    `json:"result"`
	Label          string    `json:"label,omitempty"`
	Category       string    `json:"category,omitempty"`
	Warning        string    `json:"warning,omitempty"`
	URL            string    `json:"url,omitempty"`
	ClassifiedText string    `json:"classified_text,omitempty"`
	TokenCount     int       `json:"token_count"`
	Truncated      bool      `json:"truncated"`
	Cached         bool      `json:"cached"`
	LatencyMs      int64     `json:"latency_ms"`
	CreatedAt      string    `json:"created_at,omitempty"`
}

// PredictionListOutput represents paginated prediction history
type PredictionListOutput struct {
	Predictions []*ClassifyOutput `json:"predictions"`
	Total       int64             `json:"total"`
	Limit       int               `json:"limit"`
	Offset      int               `json:"offset"`
	HasMore     bool              `json:"has_more"`
}

// ClassifyUsecase defines the interface for bias classification business logic
type ClassifyUsecase interface {
	ClassifyText(ctx context.Context, input *ClassifyTextInput) (*ClassifyOutput, error)
	ClassifyURL(ctx context.Context, input *ClassifyURLInput) (*ClassifyOutput, error)
	GetPrediction(ctx context.Context, id uuid.UUID) (*ClassifyOutput, error)
	ListPredictions(ctx context.Context, limit, offset int) (*PredictionListOutput, error)
	ClassifyFeed(ctx context.Context, input *ClassifyFeedInput) (*FeedOutput, error)
}

// Options holds the optional collaborators of the classify usecase.
// Nil fields disable the corresponding feature.
type Options struct {
	Predictions repository.PredictionRepository
	Cache       repository.LabelCache
	Feeds       service.FeedReader
	CacheTTL    time.Duration
	Metrics     *metrics.Metrics
	Logger      *zap.Logger

	// InferenceTimeout bounds each forward pass independently of the callers waiting on it
	InferenceTimeout time.Duration
}

type classifyUsecase struct {
	classifier  service.Classifier
	resolver    service.ArticleResolver
	predictions repository.PredictionRepository
	cache       repository.LabelCache
	feeds       service.FeedReader
	cacheTTL    time.Duration
	inferTTL    time.Duration
	metrics     *metrics.Metrics
	logger      *zap.Logger

	// inflight coalesces concurrent forward passes for identical encodings
	inflight singleflight.Group
}

// NewClassifyUsecase creates a new classify usecase
func NewClassifyUsecase(classifier service.Classifier, resolver service.ArticleResolver, opts Options) ClassifyUsecase {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	inferTTL := opts.InferenceTimeout
	if inferTTL <= 0 {
		inferTTL = DefaultInferenceTimeout
	}
	return &classifyUsecase{
		classifier:  classifier,
		resolver:    resolver,
		predictions: opts.Predictions,
		cache:       opts.Cache,
		feeds:       opts.Feeds,
		cacheTTL:    opts.CacheTTL,
		inferTTL:    inferTTL,
		metrics:     opts.Metrics,
		logger:      logger,
	}
}

func (u *classifyUsecase) ClassifyText(ctx context.Context, input *ClassifyTextInput) (*ClassifyOutput, error) {
	if input == nil {
		return nil, ErrInvalidRequest
	}
	return u.classify(ctx, entity.NewPrediction(entity.PredictionSourceText, ""), input.Text, time.Now())
}

// ClassifyURL resolves the article and classifies its title or opening text.
// Resolver failures and empty articles produce a warning result, never an error.
func (u *classifyUsecase) ClassifyURL(ctx context.Context, input *ClassifyURLInput) (*ClassifyOutput, error) {
	if input == nil {
		return nil, ErrInvalidRequest
	}
	start := time.Now()
	link := strings.TrimSpace(input.URL)
	prediction := entity.NewPrediction(entity.PredictionSourceURL, link)

	article, err := u.resolver.Resolve(ctx, link)
	u.metrics.ObserveResolve(time.Since(start))
	if err != nil {
		u.logger.Warn("Failed to resolve article", zap.String("url", link), zap.Error(err))
		u.metrics.ObserveError(metrics.ErrorKindResolution)
		return u.warn(ctx, prediction, entity.FetchWarning(err.Error()), start), nil
	}

	text := SelectArticleText(article)
	if text == "" {
		u.logger.Info("Article has no extractable text", zap.String("url", link))
		u.metrics.ObserveError(metrics.ErrorKindNoText)
		return u.warn(ctx, prediction, entity.WarningNoText, start), nil
	}

	output, err := u.classify(ctx, prediction, text, start)
	if err != nil {
		return nil, err
	}
	output.ClassifiedText = text
	return output, nil
}

func (u *classifyUsecase) GetPrediction(ctx context.Context, id uuid.UUID) (*ClassifyOutput, error) {
	if u.predictions == nil {
		return nil, ErrHistoryDisabled
	}

	prediction, err := u.predictions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, ErrPredictionNotFound
	}

	return toClassifyOutput(prediction), nil
}

func (u *classifyUsecase) ListPredictions(ctx context.Context, limit, offset int) (*PredictionListOutput, error) {
	if u.predictions == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	predictions, total, err := u.predictions.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	outputs := make([]*ClassifyOutput, len(predictions))
	for i, p := range predictions {
		outputs[i] = toClassifyOutput(p)
	}

	return &PredictionListOutput{
		Predictions: outputs,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
		HasMore:     int64(offset+limit) < total,
	}, nil
}

// SelectArticleText returns the trimmed title, or the first
// ArticleExcerptRunes runes of the body when the title is empty
func SelectArticleText(article *service.Article) string {
	if article == nil {
		return ""
	}
	if title := strings.TrimSpace(article.Title); title != "" {
		return title
	}
	body := []rune(strings.TrimSpace(article.Body))
	if len(body) > ArticleExcerptRunes {
		body = body[:ArticleExcerptRunes]
	}
	return strings.TrimSpace(string(body))
}

func (u *classifyUsecase) classify(ctx context.Context, prediction *entity.Prediction, text string, start time.Time) (*ClassifyOutput, error) {
	enc, err := u.classifier.Encode(text)
	if err != nil {
		u.logger.Warn("Failed to tokenize input", zap.String("source", string(prediction.Source)), zap.Error(err))
		u.metrics.ObserveError(metrics.ErrorKindTokenization)
		return nil, err
	}

	fingerprint := enc.Fingerprint()
	label, cached := u.lookup(ctx, fingerprint)
	if !cached {
		label, err = u.predict(ctx, enc, fingerprint)
		if err != nil {
			u.logger.Error("Failed to run inference", zap.String("source", string(prediction.Source)), zap.Error(err))
			u.metrics.ObserveError(metrics.ErrorKindInference)
			return nil, err
		}
	}

	prediction.SetLabel(label, fingerprint, enc.TokenCount(), enc.Truncated)
	prediction.Cached = cached
	prediction.LatencyMs = time.Since(start).Milliseconds()
	u.metrics.ObserveClassification(string(prediction.Source), label.Category())
	u.record(ctx, prediction)

	return toClassifyOutput(prediction), nil
}

// predict runs the forward pass once per fingerprint among concurrent callers.
// The shared pass runs detached from every caller and is bounded by inferTTL;
// each caller stops waiting when its own context ends.
func (u *classifyUsecase) predict(ctx context.Context, enc *service.Encoding, fingerprint string) (entity.Label, error) {
	ch := u.inflight.DoChan(fingerprint, func() (interface{}, error) {
		passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.inferTTL)
		defer cancel()

		inferStart := time.Now()
		result, err := u.classifier.Predict(passCtx, enc)
		u.metrics.ObserveInference(time.Since(inferStart))
		if err != nil {
			return nil, err
		}
		u.store(passCtx, fingerprint, result.Label)
		return result.Label, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(entity.Label), nil
	case <-ctx.Done():
		return 0, &service.InferenceError{Err: ctx.Err()}
	}
}

func (u *classifyUsecase) warn(ctx context.Context, prediction *entity.Prediction, warning string, start time.Time) *ClassifyOutput {
	prediction.SetWarning(warning)
	prediction.LatencyMs = time.Since(start).Milliseconds()
	u.record(ctx, prediction)
	return toClassifyOutput(prediction)
}

func (u *classifyUsecase) lookup(ctx context.Context, fingerprint string) (entity.Label, bool) {
	if u.cache == nil {
		return 0, false
	}
	label, found, err := u.cache.Get(ctx, fingerprint)
	switch {
	case err != nil:
		u.logger.Warn("Label cache lookup failed", zap.Error(err))
		u.metrics.ObserveCache("error")
		return 0, false
	case found:
		u.metrics.ObserveCache("hit")
		return label, true
	default:
		u.metrics.ObserveCache("miss")
		return 0, false
	}
}

func (u *classifyUsecase) store(ctx context.Context, fingerprint string, label entity.Label) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Set(ctx, fingerprint, label, u.cacheTTL); err != nil {
		u.logger.Warn("Label cache store failed", zap.Error(err))
	}
}

// record stores the prediction in history; failures never fail the request
func (u *classifyUsecase) record(ctx context.Context, prediction *entity.Prediction) {
	if u.predictions == nil {
		return
	}
	if err := u.predictions.Create(ctx, prediction); err != nil {
		u.logger.Warn("Failed to record prediction",
			zap.String("prediction_id", prediction.ID.String()),
			zap.Error(err),
		)
	}
}

func toClassifyOutput(p *entity.Prediction) *ClassifyOutput {
	out := &ClassifyOutput{
		PredictionID: p.ID,
		Source:       string(p.Source),
		Result:       p.Result(),
		Label:        p.Label,
		Warning:      p.Warning,
		URL:          p.URL,
		TokenCount:   p.TokenCount,
		Truncated:    p.Truncated,
		Cached:       p.Cached,
		LatencyMs:    p.LatencyMs,
	}
	if p.ClassIndex != nil {
		out.Category = entity.Label(*p.ClassIndex).Category()
	}
	if !p.CreatedAt.IsZero() {
		out.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}
