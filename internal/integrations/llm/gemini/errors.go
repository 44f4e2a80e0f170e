package gemini

import "errors"

var (
	ErrRequest       = errors.New("integrations.llm.gemini: request failed")
	ErrEmptyResponse = errors.New("integrations.llm.gemini: empty response")
)
