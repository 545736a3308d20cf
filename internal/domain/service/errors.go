package service

import (
	"errors"
	"fmt"
	"net/url"
)

// TokenizationError reports input that could not be converted to model tokens
type TokenizationError struct {
	Err error
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("tokenization failed: %v", e.Err)
}

func (e *TokenizationError) Unwrap() error {
	return e.Err
}

// InferenceError reports a model that failed to produce usable logits
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// ResolutionError reports a URL whose article text could not be fetched or parsed
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return e.Err.Error()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// StripURL returns the cause of a *url.Error so resolution messages never
// repeat the requested URL. Other errors are returned unchanged.
func StripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
