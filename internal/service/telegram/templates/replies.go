package templates

import "fmt"

const (
	// ForgotToAsk ответ на /ask без вопроса
	ForgotToAsk = "you forgot to ask ..."

	// PleaseWait ответ при превышении частоты вопросов
	PleaseWait = "Please wait a moment before asking another question..."

	// AgentError общий ответ при сбое агента
	AgentError = "Knoll encountered an error while answering. Please try again later."

	// StartMessageText ответ на /start и /help
	StartMessageText = `Hi! I'm Knoll, a bot that answers questions using Wikipedia and web search.

Ask me anything with the /ask command, for example:
/ask What is the tallest mountain in Europe?`
)

// RetryAfterText ответ, когда ответ готов, но Telegram просит подождать
func RetryAfterText(seconds int) string {
	return fmt.Sprintf("Response ready but rate limited. Please wait %d seconds before asking again.", seconds)
}
