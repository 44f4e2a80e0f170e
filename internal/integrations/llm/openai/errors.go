package openai

import "errors"

var (
	ErrRequest       = errors.New("integrations.llm.openai: request failed")
	ErrEmptyResponse = errors.New("integrations.llm.openai: empty response")
)
