package predpatt

import (
	"errors"
	"fmt"
)

var ErrMalformedParse = errors.New("malformed dependency parse")
var ErrInvalidOptions = errors.New("invalid options")
var ErrSentenceNotFound = errors.New("sentence not found")
var ErrExtractionNotCached = errors.New("extraction not cached")
var ErrReadOnly = errors.New("modifications are not allowed")

// ParseError is returned by NewParse and Parse.Validate. It always wraps ErrMalformedParse.
type ParseError struct {
	Code     string `json:"code"`
	Position int    `json:"position,omitempty"`
	Message  string `json:"message"`
}

func (e *ParseError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("malformed parse at token %d: %s", e.Position, e.Message)
	}

	return fmt.Sprintf("malformed parse: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedParse
}

type OptionsError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("invalid option %s=%q: %s", e.Field, e.Value, e.Message)
}

func (e *OptionsError) Unwrap() error {
	return ErrInvalidOptions
}
