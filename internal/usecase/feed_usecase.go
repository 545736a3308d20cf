package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/entity"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/metrics"
)

// Feed item limits
const (
	DefaultFeedItems = 20
	MaxFeedItems     = 50
	feedConcurrency  = 4
)

// ClassifyFeedInput represents the input for classifying the headlines of a news feed
type ClassifyFeedInput struct {
	URL   string `json:"url" binding:"required"`
	Limit int    `json:"limit" binding:"omitempty,min=0,max=50"`
}

// FeedItemOutput is the classification of one feed headline
type FeedItemOutput struct {
	Title     string          `json:"title"`
	Link      string          `json:"link,omitempty"`
	Published string          `json:"published,omitempty"`
	Result    *ClassifyOutput `json:"result"`
}

// FeedOutput is the classification of a news feed.
// Warning is set, and Items empty, when the feed could not be read.
type FeedOutput struct {
	URL     string            `json:"url"`
	Title   string            `json:"title,omitempty"`
	Items   []*FeedItemOutput `json:"items"`
	Warning string            `json:"warning,omitempty"`
}

// ClassifyFeed reads a feed and classifies up to Limit item titles.
// Items are classified concurrently; results keep feed order. Items without
// a title get the no-text warning. A feed that cannot be read yields a fetch
// warning, and any pipeline error fails the whole request.
func (u *classifyUsecase) ClassifyFeed(ctx context.Context, input *ClassifyFeedInput) (*FeedOutput, error) {
	if input == nil {
		return nil, ErrInvalidRequest
	}
	if u.feeds == nil {
		return nil, ErrFeedsDisabled
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultFeedItems
	}
	if limit > MaxFeedItems {
		limit = MaxFeedItems
	}

	link := strings.TrimSpace(input.URL)
	start := time.Now()
	feed, err := u.feeds.Read(ctx, link)
	u.metrics.ObserveResolve(time.Since(start))
	if err != nil {
		u.logger.Warn("Failed to read feed", zap.String("url", link), zap.Error(err))
		u.metrics.ObserveError(metrics.ErrorKindResolution)
		return &FeedOutput{
			URL:     link,
			Items:   []*FeedItemOutput{},
			Warning: entity.FetchWarning(err.Error()),
		}, nil
	}

	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	outputs := make([]*FeedItemOutput, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedConcurrency)
	for i, item := range items {
		g.Go(func() error {
			itemStart := time.Now()
			prediction := entity.NewPrediction(entity.PredictionSourceFeed, item.Link)

			var result *ClassifyOutput
			if item.Title == "" {
				u.metrics.ObserveError(metrics.ErrorKindNoText)
				result = u.warn(gctx, prediction, entity.WarningNoText, itemStart)
			} else {
				out, err := u.classify(gctx, prediction, item.Title, itemStart)
				if err != nil {
					return err
				}
				result = out
			}

			outputs[i] = &FeedItemOutput{
				Title:     item.Title,
				Link:      item.Link,
				Published: item.Published,
				Result:    result,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	u.logger.Info("Classified feed",
		zap.String("url", link),
		zap.Int("items", len(outputs)),
		zap.Duration("latency", time.Since(start)),
	)

	return &FeedOutput{
		URL:   link,
		Title: feed.Title,
		Items: outputs,
	}, nil
}
