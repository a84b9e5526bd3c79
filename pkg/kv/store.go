// Package kv описывает общее сетевое key-value хранилище, которое разделяют
// кэш, распределенные блокировки и реестр отозванных токенов.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound возвращается Get, если ключ отсутствует.
var ErrNotFound = errors.New("key not found")

// Store - минимальный набор команд, нужный ядру.
//
// CompareAndDelete обязан быть одной атомарной операцией на стороне хранилища.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) (int64, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
	CompareAndDelete(ctx context.Context, key, expected string) (bool, error)
}
