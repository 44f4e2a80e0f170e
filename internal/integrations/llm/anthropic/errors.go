package anthropic

import "errors"

var (
	ErrRequest       = errors.New("integrations.llm.anthropic: request failed")
	ErrEmptyResponse = errors.New("integrations.llm.anthropic: empty response")
)
