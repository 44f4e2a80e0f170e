package status

import (
	"sync/atomic"
	"time"
)

// Mode способ получения обновлений от Telegram
type Mode string

const (
	ModeWebhook Mode = "webhook"
	ModePolling Mode = "polling"
)

// Status состояние процесса для health/status эндпоинтов
type Status struct {
	startedAt    time.Time
	now          func() time.Time
	shuttingDown atomic.Bool
	telegramUp   atomic.Bool
	mode         atomic.Value
}

// New создаёт статус с текущим временем старта
func New() *Status {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Status {
	s := &Status{startedAt: now(), now: now}
	s.mode.Store(ModePolling)
	return s
}

// Uptime время работы процесса в секундах
func (s *Status) Uptime() float64 {
	return s.now().Sub(s.startedAt).Seconds()
}

// StartedAt время старта
func (s *Status) StartedAt() time.Time {
	return s.startedAt
}

// BeginShutdown выставляет флаг остановки. Возвращает false, если он уже был выставлен.
func (s *Status) BeginShutdown() bool {
	return s.shuttingDown.CompareAndSwap(false, true)
}

func (s *Status) ShuttingDown() bool {
	return s.shuttingDown.Load()
}

// SetTelegramReady отмечает, что клиент Telegram инициализирован
func (s *Status) SetTelegramReady(ready bool) {
	s.telegramUp.Store(ready)
}

// TelegramStatus "connected" или "not_initialized"
func (s *Status) TelegramStatus() string {
	if s.telegramUp.Load() {
		return "connected"
	}
	return "not_initialized"
}

func (s *Status) SetMode(m Mode) {
	s.mode.Store(m)
}

func (s *Status) Mode() Mode {
	return s.mode.Load().(Mode)
}
