package tokenizer

import (
	"errors"
	"unicode/utf8"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/service"
)

const (
	continuationPrefix = "##"
	maxRunesPerWord    = 100
)

// ErrInvalidUTF8 is returned for input that is not valid UTF-8
var ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

// WordPiece is a BERT uncased tokenizer. It is immutable after construction.
type WordPiece struct {
	vocab     *Vocab
	maxLength int
}

// New creates a WordPiece tokenizer truncating to service.MaxSequenceLength
func New(vocab *Vocab) *WordPiece {
	return NewWithMaxLength(vocab, service.MaxSequenceLength)
}

// NewWithMaxLength creates a WordPiece tokenizer with a custom token budget.
// The budget includes [CLS] and [SEP] and is raised to 2 if smaller.
func NewWithMaxLength(vocab *Vocab, maxLength int) *WordPiece {
	if maxLength < 2 {
		maxLength = 2
	}
	return &WordPiece{vocab: vocab, maxLength: maxLength}
}

// Encode tokenizes text as [CLS] pieces... [SEP], truncating the pieces so
// the sequence fits maxLength. Empty text yields [CLS] [SEP].
func (t *WordPiece) Encode(text string) (*service.Encoding, error) {
	if !utf8.ValidString(text) {
		return nil, &service.TokenizationError{Err: ErrInvalidUTF8}
	}

	budget := t.maxLength - 2
	pieces, truncated := t.pieces(text, budget)

	ids := make([]int64, 0, len(pieces)+2)
	ids = append(ids, t.vocab.cls)
	ids = append(ids, pieces...)
	ids = append(ids, t.vocab.sep)

	mask := make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}

	return &service.Encoding{
		InputIDs:      ids,
		AttentionMask: mask,
		Truncated:     truncated,
	}, nil
}

// EncodeBatch encodes each text and right-pads all sequences with [PAD]
// to the longest one
func (t *WordPiece) EncodeBatch(texts []string) ([]*service.Encoding, error) {
	encodings := make([]*service.Encoding, len(texts))
	longest := 0
	for i, text := range texts {
		enc, err := t.Encode(text)
		if err != nil {
			return nil, err
		}
		encodings[i] = enc
		if enc.Len() > longest {
			longest = enc.Len()
		}
	}

	for _, enc := range encodings {
		for enc.Len() < longest {
			enc.InputIDs = append(enc.InputIDs, t.vocab.pad)
			enc.AttentionMask = append(enc.AttentionMask, 0)
		}
	}
	return encodings, nil
}

// Tokenize returns the word pieces of text without special tokens or truncation
func (t *WordPiece) Tokenize(text string) []string {
	var out []string
	for _, word := range splitWords(text) {
		out = append(out, t.splitWord(word)...)
	}
	return out
}

// pieces returns at most budget ids and whether more were available
func (t *WordPiece) pieces(text string, budget int) ([]int64, bool) {
	var ids []int64
	for _, word := range splitWords(text) {
		for _, piece := range t.splitWord(word) {
			if len(ids) == budget {
				return ids, true
			}
			id, ok := t.vocab.ID(piece)
			if !ok {
				id = t.vocab.unk
			}
			ids = append(ids, id)
		}
	}
	return ids, false
}

// splitWord runs greedy longest-match-first over one word
func (t *WordPiece) splitWord(word string) []string {
	chars := []rune(word)
	if len(chars) > maxRunesPerWord {
		return []string{UnkToken}
	}

	var out []string
	start := 0
	for start < len(chars) {
		end := len(chars)
		match := ""
		for end > start {
			candidate := string(chars[start:end])
			if start > 0 {
				candidate = continuationPrefix + candidate
			}
			if _, ok := t.vocab.ID(candidate); ok {
				match = candidate
				break
			}
			end--
		}
		if match == "" {
			return []string{UnkToken}
		}
		out = append(out, match)
		start = end
	}
	return out
}
