package worker

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	jobEvictLimiter = "evict_rate_limiter"
	jobProbeWebhook = "probe_webhook"
)

// SchedulerConfig интервалы фоновых задач; нулевой интервал отключает задачу
type SchedulerConfig struct {
	EvictInterval time.Duration
	EvictIdle     time.Duration
	ProbeInterval time.Duration
}

// Scheduler планировщик фоновых задач обслуживания
type Scheduler struct {
	cfg       SchedulerConfig
	evicter   Evicter
	webhook   WebhookInfoProvider
	recorder  Recorder
	logger    Logger
	scheduler *gocron.Scheduler
}

// NewScheduler создает новый экземпляр планировщика.
// evicter и webhook могут быть nil: соответствующая задача не регистрируется.
func NewScheduler(cfg SchedulerConfig, evicter Evicter, webhook WebhookInfoProvider, recorder Recorder, logger Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	s.WaitForScheduleAll()

	return &Scheduler{
		cfg:       cfg,
		evicter:   evicter,
		webhook:   webhook,
		recorder:  recorder,
		logger:    logger,
		scheduler: s,
	}
}

// Register добавляет задачи в планировщик
func (s *Scheduler) Register() error {
	if s.evicter != nil && s.cfg.EvictInterval > 0 {
		if _, err := s.scheduler.Every(s.cfg.EvictInterval).Tag(jobEvictLimiter).Do(s.EvictIdle); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", jobEvictLimiter, err)
		}
	}

	if s.webhook != nil && s.cfg.ProbeInterval > 0 {
		if _, err := s.scheduler.Every(s.cfg.ProbeInterval).Tag(jobProbeWebhook).Do(s.ProbeWebhook); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", jobProbeWebhook, err)
		}
	}

	return nil
}

// Jobs количество зарегистрированных задач
func (s *Scheduler) Jobs() int {
	return s.scheduler.Len()
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.logger.Info("Starting maintenance scheduler (%d jobs)", s.scheduler.Len())
	s.scheduler.StartAsync()
}

// Stop останавливает планировщик
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping maintenance scheduler")
	s.scheduler.Stop()
	s.logger.Info("Maintenance scheduler stopped")
}

// EvictIdle удаляет записи лимитера пользователей, которые давно не писали
func (s *Scheduler) EvictIdle() {
	idle := s.cfg.EvictIdle
	if idle <= 0 {
		idle = s.cfg.EvictInterval
	}

	if n := s.evicter.Evict(idle); n > 0 {
		s.logger.Info("Evicted %d idle rate limiter entries", n)
	}
}

// ProbeWebhook публикует число необработанных обновлений и логирует последнюю ошибку доставки
func (s *Scheduler) ProbeWebhook() {
	info, err := s.webhook.GetWebhookInfo()
	if err != nil {
		s.logger.Warn("Webhook probe failed: %v", err)
		return
	}

	if s.recorder != nil {
		s.recorder.PendingUpdates(info.PendingUpdateCount)
	}

	if !info.IsConfigured() {
		s.logger.Warn("Webhook probe: webhook is not configured")
		return
	}
	if info.LastErrorMessage != "" {
		s.logger.Warn("Webhook probe: %d pending updates, last error at %s: %s",
			info.PendingUpdateCount, time.Unix(int64(info.LastErrorDate), 0).UTC().Format(time.RFC3339), info.LastErrorMessage)
	}
}
