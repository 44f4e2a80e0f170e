package agent

import "errors"

var (
	// ErrEmptyQuestion возвращается для пустого вопроса
	ErrEmptyQuestion = errors.New("agent: question is empty")

	// ErrModel оборачивает ошибки LLM-бэкенда
	ErrModel = errors.New("agent: model call failed")

	// ErrMaxTurns возвращается, если модель не дала ответ за отведённое число шагов
	ErrMaxTurns = errors.New("agent: max turns exceeded")

	// ErrEmptyOutput возвращается, если модель вернула пустой ответ без вызовов инструментов
	ErrEmptyOutput = errors.New("agent: model returned empty output")
)
