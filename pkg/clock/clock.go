// Package clock абстрагирует текущее время, чтобы сроки жизни токенов
// и блокировок можно было проверять в тестах детерминированно.
package clock

import (
	"sync"
	"time"
)

// Clock возвращает текущее время.
type Clock interface {
	Now() time.Time
}

// Real использует системное время.
type Real struct{}

// NewReal создает системные часы.
func NewReal() Clock {
	return Real{}
}

// Now возвращает текущее системное время.
func (Real) Now() time.Time {
	return time.Now()
}

// Manual - часы, которые двигаются только вручную.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual создает часы, остановленные в момент t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now возвращает текущее значение часов.
func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set переводит часы на момент t.
func (c *Manual) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance сдвигает часы вперед на d.
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
