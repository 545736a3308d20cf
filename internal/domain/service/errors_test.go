package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripURL(t *testing.T) {
	t.Run("url error yields its cause", func(t *testing.T) {
		err := &url.Error{Op: "Get", URL: "https://news.example.com/a", Err: context.DeadlineExceeded}

		stripped := StripURL(err)

		assert.Equal(t, context.DeadlineExceeded, stripped)
		assert.NotContains(t, stripped.Error(), "news.example.com")
	})

	t.Run("other errors are unchanged", func(t *testing.T) {
		err := errors.New("article returned status 404")

		assert.Same(t, err, StripURL(err))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, StripURL(nil))
	})
}

func TestResolutionError(t *testing.T) {
	cause := fmt.Errorf("failed to download article: %w", context.Canceled)
	err := &ResolutionError{URL: "https://news.example.com/a", Err: cause}

	assert.Equal(t, cause.Error(), err.Error())
	assert.ErrorIs(t, err, context.Canceled)
}
