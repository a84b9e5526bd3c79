// Package metrics содержит prometheus-метрики сессий, кэша и блокировок.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения меток.
const (
	ResultHit         = "hit"
	ResultMiss        = "miss"
	ResultDecodeError = "decode_error"

	ResultAcquired  = "acquired"
	ResultContended = "contended"
	ResultReleased  = "released"
	ResultNotOwner  = "not_owner"

	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultRevoked = "revoked"
	ResultUnknown = "unknown"
	ResultUser    = "user_inactive_or_missing"
)

var (
	TokenPairsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_pairs_issued_total",
			Help: "Total number of access/refresh token pairs issued",
		},
	)

	RefreshRotations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_token_rotations_total",
			Help: "Refresh token rotation attempts by outcome",
		},
		[]string{"result"},
	)

	RefreshTokensRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_tokens_revoked_total",
			Help: "Total number of refresh tokens added to the revocation registry",
		},
	)

	RefreshTokensCleanupDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_tokens_cleanup_deleted_total",
			Help: "Total number of expired refresh tokens removed by the sweeper",
		},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache-aside lookups by result",
		},
		[]string{"result"},
	)

	CacheInvalidatedKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_invalidated_keys_total",
			Help: "Total number of cache keys removed by invalidation",
		},
	)

	LockOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distributed_lock_operations_total",
			Help: "Distributed lock acquire/release outcomes",
		},
		[]string{"result"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
