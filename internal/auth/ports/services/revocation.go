package services

import (
	"context"
	"time"
)

// RevocationRegistry хранит отозванные refresh-токены до истечения их срока жизни.
type RevocationRegistry interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error

	IsRevoked(ctx context.Context, token string) (bool, error)
}
