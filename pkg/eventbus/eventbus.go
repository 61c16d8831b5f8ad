package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event - любое доменное событие.
type Event interface {
	Name() string
}

type Listener func(ctx context.Context, event Event) error

// Bus доставляет события подписчикам в отдельных горутинах.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	inflight  sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		timeout:   time.Minute,
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish не ждёт обработчиков. Контекст запроса не передаётся: обработчик
// переживает ответ клиенту.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.inflight.Add(1)
		go func(l Listener) {
			defer b.inflight.Done()
			ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
			defer cancel()

			if err := l(ctx, event); err != nil {
				b.logger.Error("Ошибка в обработчике события",
					zap.String("event", event.Name()),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait блокируется до завершения всех запущенных обработчиков.
func (b *Bus) Wait() {
	b.inflight.Wait()
}
