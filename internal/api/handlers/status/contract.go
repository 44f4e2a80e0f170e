package status

// Status состояние процесса
type Status interface {
	Uptime() float64
	ShuttingDown() bool
}
