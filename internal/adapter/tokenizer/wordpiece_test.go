package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/service"
)

func loadTestVocab(t *testing.T) *Vocab {
	t.Helper()
	v, err := LoadVocab("testdata/vocab.txt")
	require.NoError(t, err)
	return v
}

func ids(t *testing.T, v *Vocab, tokens ...string) []int64 {
	t.Helper()
	out := make([]int64, len(tokens))
	for i, tok := range tokens {
		id, ok := v.ID(tok)
		require.True(t, ok, "token %q not in vocab", tok)
		out[i] = id
	}
	return out
}

func TestLoadVocab(t *testing.T) {
	v := loadTestVocab(t)

	assert.Equal(t, 24, v.Size())
	id, ok := v.ID("[PAD]")
	assert.True(t, ok)
	assert.Equal(t, int64(0), id)
	id, ok = v.ID("the")
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)

	_, err := LoadVocab("testdata/missing.txt")
	assert.Error(t, err)
}

func TestReadVocab_MissingSpecialToken(t *testing.T) {
	_, err := ReadVocab(strings.NewReader("[PAD]\n[UNK]\n[CLS]\nthe\n"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "[SEP]")
}

func TestWordPiece_Tokenize(t *testing.T) {
	tok := New(loadTestVocab(t))

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "headline with continuation pieces",
			input:    "Opposition criticizes tax cuts for the wealthy",
			expected: []string{"opposition", "critic", "##izes", "tax", "cuts", "for", "the", "wealthy"},
		},
		{
			name:     "multiple continuation pieces",
			input:    "unaffable",
			expected: []string{"un", "##aff", "##able"},
		},
		{
			name:     "accents are stripped",
			input:    "Café",
			expected: []string{"cafe"},
		},
		{
			name:     "punctuation is split off",
			input:    "President's tax, cuts.",
			expected: []string{"president", "'", "s", "tax", ",", "cuts", "."},
		},
		{
			name:     "unknown word",
			input:    "zebra tax",
			expected: []string{"[UNK]", "tax"},
		},
		{
			name:     "cjk ideographs are separate words",
			input:    "中国",
			expected: []string{"中", "国"},
		},
		{
			name:     "control characters are dropped",
			input:    "tax\x07\tcuts",
			expected: []string{"tax", "cuts"},
		},
		{
			name:     "unassigned code points are dropped",
			input:    "ta\u0378x cuts",
			expected: []string{"tax", "cuts"},
		},
		{
			name:     "overlong word is unknown",
			input:    strings.Repeat("a", 101),
			expected: []string{"[UNK]"},
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tok.Tokenize(tt.input))
		})
	}
}

func TestWordPiece_Encode(t *testing.T) {
	v := loadTestVocab(t)
	tok := New(v)

	t.Run("wraps with special tokens", func(t *testing.T) {
		enc, err := tok.Encode("the tax cuts")

		require.NoError(t, err)
		assert.Equal(t, ids(t, v, "[CLS]", "the", "tax", "cuts", "[SEP]"), enc.InputIDs)
		assert.Equal(t, []int64{1, 1, 1, 1, 1}, enc.AttentionMask)
		assert.False(t, enc.Truncated)
	})

	t.Run("empty text is a minimal sequence", func(t *testing.T) {
		enc, err := tok.Encode("")

		require.NoError(t, err)
		assert.Equal(t, ids(t, v, "[CLS]", "[SEP]"), enc.InputIDs)
		assert.Equal(t, []int64{1, 1}, enc.AttentionMask)
	})

	t.Run("invalid utf-8 is a TokenizationError", func(t *testing.T) {
		enc, err := tok.Encode("tax \xff\xfe cuts")

		assert.Nil(t, enc)
		var tokErr *service.TokenizationError
		require.ErrorAs(t, err, &tokErr)
		assert.ErrorIs(t, err, ErrInvalidUTF8)
	})

	t.Run("truncates to the default bound", func(t *testing.T) {
		long := strings.Repeat("the ", 300)

		enc, err := tok.Encode(long)

		require.NoError(t, err)
		assert.Equal(t, service.MaxSequenceLength, enc.Len())
		assert.True(t, enc.Truncated)
		sep, _ := v.ID("[SEP]")
		assert.Equal(t, sep, enc.InputIDs[enc.Len()-1])

		extended, err := tok.Encode(long + " wealthy opposition criticizes")
		require.NoError(t, err)
		assert.Equal(t, enc.InputIDs, extended.InputIDs)
	})

	t.Run("exact fit is not truncated", func(t *testing.T) {
		small := NewWithMaxLength(v, 5)

		enc, err := small.Encode("the tax cuts")

		require.NoError(t, err)
		assert.Equal(t, 5, enc.Len())
		assert.False(t, enc.Truncated)

		enc, err = small.Encode("the tax cuts for")
		require.NoError(t, err)
		assert.Equal(t, ids(t, v, "[CLS]", "the", "tax", "cuts", "[SEP]"), enc.InputIDs)
		assert.True(t, enc.Truncated)
	})

	t.Run("tiny budget keeps special tokens", func(t *testing.T) {
		tiny := NewWithMaxLength(v, 0)

		enc, err := tiny.Encode("the tax")

		require.NoError(t, err)
		assert.Equal(t, ids(t, v, "[CLS]", "[SEP]"), enc.InputIDs)
		assert.True(t, enc.Truncated)
	})
}

func TestWordPiece_EncodeBatch(t *testing.T) {
	v := loadTestVocab(t)
	tok := New(v)

	encs, err := tok.EncodeBatch([]string{"the", "the tax cuts"})

	require.NoError(t, err)
	require.Len(t, encs, 2)
	assert.Equal(t, ids(t, v, "[CLS]", "the", "[SEP]", "[PAD]", "[PAD]"), encs[0].InputIDs)
	assert.Equal(t, []int64{1, 1, 1, 0, 0}, encs[0].AttentionMask)
	assert.Equal(t, 3, encs[0].TokenCount())
	assert.Equal(t, 5, encs[1].Len())

	_, err = tok.EncodeBatch([]string{"ok", "\xff"})
	assert.Error(t, err)
}
