package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/entity"
)

// MaxSequenceLength is the token budget of one model input, special tokens included
const MaxSequenceLength = 256

// Encoding is a tokenized model input
type Encoding struct {
	InputIDs      []int64
	AttentionMask []int64
	Truncated     bool
}

// Len returns the sequence length including padding
func (e *Encoding) Len() int {
	return len(e.InputIDs)
}

// TokenCount returns the number of non-padding tokens
func (e *Encoding) TokenCount() int {
	n := 0
	for _, m := range e.AttentionMask {
		if m != 0 {
			n++
		}
	}
	return n
}

// Fingerprint returns a stable hex digest of the unpadded token ids.
// Two inputs with the same fingerprint always receive the same label.
func (e *Encoding) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte
	for i, id := range e.InputIDs {
		if e.AttentionMask[i] == 0 {
			continue
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Tokenizer converts text into model inputs
type Tokenizer interface {
	// Encode tokenizes a single text, truncating to MaxSequenceLength
	Encode(text string) (*Encoding, error)
}

// Model runs a forward pass and returns one logit per class
type Model interface {
	Logits(ctx context.Context, enc *Encoding) ([]float32, error)
}

// ClassificationResult represents the result of text classification
type ClassificationResult struct {
	Label       entity.Label `json:"-"`
	Logits      []float32    `json:"logits"`
	TokenCount  int          `json:"token_count"`
	Truncated   bool         `json:"truncated"`
	Fingerprint string       `json:"fingerprint"`
}

// Classifier defines the interface for bias classification
type Classifier interface {
	// Classify runs the full pipeline on a single text
	Classify(ctx context.Context, text string) (*ClassificationResult, error)

	// Encode runs only the tokenization step
	Encode(text string) (*Encoding, error)

	// Predict runs the forward pass and label mapping on an encoding
	Predict(ctx context.Context, enc *Encoding) (*ClassificationResult, error)
}
