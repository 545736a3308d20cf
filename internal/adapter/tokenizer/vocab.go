package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Special tokens of the BERT uncased vocabulary
const (
	PadToken = "[PAD]"
	UnkToken = "[UNK]"
	ClsToken = "[CLS]"
	SepToken = "[SEP]"
)

// Vocab maps word pieces to token ids. Ids are line numbers of vocab.txt.
type Vocab struct {
	ids   map[string]int64
	pad   int64
	unk   int64
	cls   int64
	sep   int64
	words int
}

// LoadVocab reads a vocab.txt file
func LoadVocab(path string) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocab: %w", err)
	}
	defer f.Close()

	return ReadVocab(f)
}

// ReadVocab reads one token per line
func ReadVocab(r io.Reader) (*Vocab, error) {
	ids := make(map[string]int64)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var index int64
	for scanner.Scan() {
		token := strings.TrimRight(scanner.Text(), "\r")
		if _, exists := ids[token]; !exists {
			ids[token] = index
		}
		index++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocab: %w", err)
	}

	return NewVocab(ids)
}

// NewVocab builds a Vocab from an explicit token to id map
func NewVocab(ids map[string]int64) (*Vocab, error) {
	v := &Vocab{ids: ids, words: len(ids)}
	for _, special := range []struct {
		token string
		dst   *int64
	}{
		{PadToken, &v.pad},
		{UnkToken, &v.unk},
		{ClsToken, &v.cls},
		{SepToken, &v.sep},
	} {
		id, ok := ids[special.token]
		if !ok {
			return nil, fmt.Errorf("vocab is missing special token %s", special.token)
		}
		*special.dst = id
	}
	return v, nil
}

// Size returns the number of distinct tokens
func (v *Vocab) Size() int {
	return v.words
}

// ID returns the id of a token
func (v *Vocab) ID(token string) (int64, bool) {
	id, ok := v.ids[token]
	return id, ok
}
