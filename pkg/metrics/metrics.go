package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Исходы обработки вопроса
const (
	OutcomeAnswered    = "answered"
	OutcomeEmpty       = "empty"
	OutcomeRateLimited = "rate_limited"
	OutcomeAgentError  = "agent_error"
	OutcomeSendError   = "send_error"
)

// Metrics набор Prometheus метрик сервиса
// Использует собственный registry, чтобы несколько экземпляров не конфликтовали
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	QuestionsTotal       *prometheus.CounterVec
	AgentRunDuration     *prometheus.HistogramVec
	ToolCallsTotal       *prometheus.CounterVec
	TelegramMessages     *prometheus.CounterVec
	RateLimitedTotal     prometheus.Counter
	WebhookPendingUpdate prometheus.Gauge
}

// New создаёт и регистрирует метрики с префиксом serviceName
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		QuestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "questions_total",
			Help:      "Questions received via /ask by outcome.",
		}, []string{"outcome"}),
		AgentRunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "agent_run_duration_seconds",
			Help:      "Duration of agent runs.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"status"}),
		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "agent_tool_calls_total",
			Help:      "Agent tool invocations.",
		}, []string{"tool", "status"}),
		TelegramMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "telegram_messages_sent_total",
			Help:      "Outbound Telegram messages by status.",
		}, []string{"status"}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "rate_limited_total",
			Help:      "Questions rejected by the per-user rate limiter.",
		}),
		WebhookPendingUpdate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "webhook_pending_updates",
			Help:      "Pending update count reported by getWebhookInfo.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.QuestionsTotal,
		m.AgentRunDuration,
		m.ToolCallsTotal,
		m.TelegramMessages,
		m.RateLimitedTotal,
		m.WebhookPendingUpdate,
	)

	return m
}

// Handler возвращает HTTP handler для эндпоинта /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает registry (используется в тестах)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP записывает метрики одного HTTP запроса
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Nil-safe хелперы: метрики могут быть выключены в конфиге

func (m *Metrics) Question(outcome string) {
	if m == nil {
		return
	}
	m.QuestionsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeRateLimited {
		m.RateLimitedTotal.Inc()
	}
}

func (m *Metrics) AgentRun(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AgentRunDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (m *Metrics) ToolCall(tool, status string) {
	if m == nil {
		return
	}
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
}

func (m *Metrics) MessageSent(status string) {
	if m == nil {
		return
	}
	m.TelegramMessages.WithLabelValues(status).Inc()
}

func (m *Metrics) PendingUpdates(n int) {
	if m == nil {
		return
	}
	m.WebhookPendingUpdate.Set(float64(n))
}
