// Package session saves and restores the ledger through a key/value store
// supplied by the host.
package session

import (
	"context"
	"errors"
)

const (
	// KeyEarnings holds carried-forward plus trip earnings as a decimal
	// string. It predates KeyState and is still written for older readers.
	KeyEarnings = "EDMCIncome_earnings"
	// KeyState holds the full JSON state blob.
	KeyState = "EDMCIncome_state"
)

// ErrCorruptState is returned when a stored value cannot be decoded.
var ErrCorruptState = errors.New("corrupt session state")

// Store is the durable key/value store the session is persisted in.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
