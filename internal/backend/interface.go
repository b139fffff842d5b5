package backend

import (
	"context"
	"time"

	"incometracker/internal/amqp"
	"incometracker/internal/session"
)

// Backend is the durable key/value store a tracker persists into.
type Backend interface {
	session.Store
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store, the optional ledger notifier and the
// cleanup releasing both.
type BackendResult struct {
	Backend  Backend
	Notifier *amqp.Notifier
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Ledger notifications, disabled when AMQPURL is empty
	AMQPURL       string
	AMQPExchange  string
	AMQPQueue     string
	NotifyTimeout time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
