package health

import "github.com/m04kA/SMC-KnollBot/internal/service/status"

// Status состояние процесса
type Status interface {
	Uptime() float64
	ShuttingDown() bool
	TelegramStatus() string
	Mode() status.Mode
}
