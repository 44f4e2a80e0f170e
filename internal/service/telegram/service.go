package telegram

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-KnollBot/internal/domain"
)

const (
	// DefaultMessagesPerSecond общий лимит Telegram на исходящие сообщения бота
	DefaultMessagesPerSecond = 30
	// DefaultPollingTimeout таймаут long polling запроса getUpdates
	DefaultPollingTimeout = 60 * time.Second
)

// Options параметры сервиса
type Options struct {
	MessagesPerSecond float64
	PollingTimeout    time.Duration
	Recorder          Recorder
}

// Service сервис для отправки сообщений через Telegram Bot API
type Service struct {
	bot            BotAPI
	limiter        *rate.Limiter
	pollingTimeout time.Duration
	recorder       Recorder
}

// NewService создает новый экземпляр Telegram сервиса
func NewService(bot BotAPI, opts Options) *Service {
	if opts.MessagesPerSecond <= 0 {
		opts.MessagesPerSecond = DefaultMessagesPerSecond
	}
	if opts.PollingTimeout <= 0 {
		opts.PollingTimeout = DefaultPollingTimeout
	}

	return &Service{
		bot:            bot,
		limiter:        rate.NewLimiter(rate.Limit(opts.MessagesPerSecond), burst(opts.MessagesPerSecond)),
		pollingTimeout: opts.PollingTimeout,
		recorder:       opts.Recorder,
	}
}

// burst не меньше одного сообщения, иначе при дробном лимите Wait всегда падает
func burst(mps float64) int {
	return max(1, int(math.Ceil(mps)))
}

// SendText отправляет текстовое сообщение.
// 429 от Telegram возвращается как *RetryAfterError.
func (s *Service) SendText(ctx context.Context, msg *domain.TelegramMessage) error {
	if msg.ChatID == 0 {
		return ErrInvalidChatID
	}

	if msg.MessageText == "" {
		return ErrEmptyMessage
	}

	if err := s.limiter.Wait(ctx); err != nil {
		s.record("canceled")
		return fmt.Errorf("%w: %v", ErrSendMessage, err)
	}

	tgMsg := tgbotapi.NewMessage(msg.ChatID, msg.MessageText)
	tgMsg.ParseMode = msg.ParseMode
	tgMsg.ReplyToMessageID = msg.ReplyToMessageID

	_, err := s.bot.Send(tgMsg)
	if err != nil {
		var tgErr *tgbotapi.Error
		if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
			s.record("retry_after")
			return &RetryAfterError{RetryAfter: time.Duration(tgErr.RetryAfter) * time.Second, Err: err}
		}
		s.record("error")
		return fmt.Errorf("%w: %v", ErrSendMessage, err)
	}

	s.record("ok")
	return nil
}

func (s *Service) record(status string) {
	if s.recorder != nil {
		s.recorder.MessageSent(status)
	}
}

// SetWebhook устанавливает webhook URL для получения обновлений от Telegram
func (s *Service) SetWebhook(webhookURL string) error {
	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("%w: failed to create webhook config: %v", ErrSetWebhook, err)
	}

	_, err = s.bot.Request(webhook)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSetWebhook, err)
	}

	return nil
}

// DeleteWebhook удаляет webhook (переключает на long polling)
func (s *Service) DeleteWebhook() error {
	deleteWebhook := tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: false, // Сохраняем необработанные сообщения
	}

	_, err := s.bot.Request(deleteWebhook)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteWebhook, err)
	}

	return nil
}

// GetWebhookInfo возвращает состояние webhook
func (s *Service) GetWebhookInfo() (*domain.WebhookInfo, error) {
	info, err := s.bot.GetWebhookInfo()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWebhookInfo, err)
	}

	return &domain.WebhookInfo{
		URL:                info.URL,
		PendingUpdateCount: info.PendingUpdateCount,
		LastErrorDate:      info.LastErrorDate,
		LastErrorMessage:   info.LastErrorMessage,
		MaxConnections:     info.MaxConnections,
	}, nil
}

// GetUpdatesChan возвращает канал для получения обновлений в режиме long polling
func (s *Service) GetUpdatesChan(offset int) tgbotapi.UpdatesChannel {
	updateConfig := tgbotapi.NewUpdate(offset)
	updateConfig.Timeout = int(s.pollingTimeout / time.Second)

	return s.bot.GetUpdatesChan(updateConfig)
}

// StopReceivingUpdates останавливает long polling
func (s *Service) StopReceivingUpdates() {
	s.bot.StopReceivingUpdates()
}
