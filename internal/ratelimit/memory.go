package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Memory лимитер в памяти процесса: один вопрос в interval на пользователя
type Memory struct {
	interval time.Duration
	mu       sync.Mutex
	visitors map[int64]*visitor
	now      func() time.Time
}

// NewMemory создаёт лимитер в памяти
func NewMemory(interval time.Duration) (*Memory, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	return &Memory{
		interval: interval,
		visitors: make(map[int64]*visitor),
		now:      time.Now,
	}, nil
}

// Allow реализует Limiter
func (m *Memory) Allow(_ context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v, ok := m.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(m.interval), 1)}
		m.visitors[userID] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1), nil
}

func (m *Memory) Limited(_ context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.visitors[userID]
	if !ok {
		return false, nil
	}
	return v.limiter.TokensAt(m.now()) < 1, nil
}

// Evict удаляет пользователей, не обращавшихся дольше idle, и возвращает их количество
// idle меньше interval не имеет смысла: такой пользователь ещё может быть ограничен
func (m *Memory) Evict(idle time.Duration) int {
	if idle < m.interval {
		idle = m.interval
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	removed := 0
	for id, v := range m.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(m.visitors, id)
			removed++
		}
	}

	return removed
}

// Len количество отслеживаемых пользователей
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visitors)
}
