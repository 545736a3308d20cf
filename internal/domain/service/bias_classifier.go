package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/entity"
)

// BiasClassifier is the tokenize, forward, argmax, label pipeline.
// It holds no mutable state and is safe for concurrent use when its
// tokenizer and model are.
type BiasClassifier struct {
	tokenizer Tokenizer
	model     Model
}

// NewBiasClassifier creates a new BiasClassifier
func NewBiasClassifier(tokenizer Tokenizer, model Model) *BiasClassifier {
	return &BiasClassifier{
		tokenizer: tokenizer,
		model:     model,
	}
}

// Classify classifies a single text
func (c *BiasClassifier) Classify(ctx context.Context, text string) (*ClassificationResult, error) {
	enc, err := c.Encode(text)
	if err != nil {
		return nil, err
	}
	return c.Predict(ctx, enc)
}

// Encode tokenizes text, reporting failures as *TokenizationError
func (c *BiasClassifier) Encode(text string) (*Encoding, error) {
	enc, err := c.tokenizer.Encode(text)
	if err != nil {
		var tokErr *TokenizationError
		if errors.As(err, &tokErr) {
			return nil, err
		}
		return nil, &TokenizationError{Err: err}
	}
	return enc, nil
}

// Predict runs the model on enc and maps the winning class to a label
func (c *BiasClassifier) Predict(ctx context.Context, enc *Encoding) (*ClassificationResult, error) {
	logits, err := c.model.Logits(ctx, enc)
	if err != nil {
		var infErr *InferenceError
		if errors.As(err, &infErr) {
			return nil, err
		}
		return nil, &InferenceError{Err: err}
	}
	if len(logits) != entity.NumLabels {
		return nil, &InferenceError{Err: fmt.Errorf("model returned %d logits, want %d", len(logits), entity.NumLabels)}
	}

	for i, v := range logits {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, &InferenceError{Err: fmt.Errorf("logit %d is not finite", i)}
		}
	}

	label, err := entity.LabelFromIndex(Argmax(logits))
	if err != nil {
		return nil, &InferenceError{Err: err}
	}

	return &ClassificationResult{
		Label:       label,
		Logits:      logits,
		TokenCount:  enc.TokenCount(),
		Truncated:   enc.Truncated,
		Fingerprint: enc.Fingerprint(),
	}, nil
}

// Argmax returns the index of the largest value, or -1 for an empty slice.
// Ties go to the lowest index.
func Argmax(values []float32) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}
