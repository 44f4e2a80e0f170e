package domain

// WebhookInfo состояние webhook у Telegram
type WebhookInfo struct {
	URL                string
	PendingUpdateCount int
	LastErrorDate      int
	LastErrorMessage   string
	MaxConnections     int
}

// IsConfigured true, если webhook установлен
func (w *WebhookInfo) IsConfigured() bool {
	return w.URL != ""
}
