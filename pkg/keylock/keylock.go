// Package keylock сериализует работу по ключу внутри процесса.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex выдаёт отдельный мьютекс на каждый ключ. Запись удаляется,
// когда её больше никто не держит и не ждёт.
type KeyedMutex[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
}

func New[K comparable]() *KeyedMutex[K] {
	return &KeyedMutex[K]{locks: make(map[K]*entry)}
}

// Lock блокирует ключ и возвращает функцию освобождения.
func (m *KeyedMutex[K]) Lock(key K) func() {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			m.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(m.locks, key)
			}
			m.mu.Unlock()
		})
	}
}

// Len - число ключей, которые сейчас удерживаются или ожидаются.
func (m *KeyedMutex[K]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
