package backend

import (
	"context"
	"fmt"
)

// Purge deletes every key in b, preferences included, and returns how many
// were removed.
func Purge(ctx context.Context, b Backend) (int, error) {
	keys, err := b.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list keys: %w", err)
	}
	for i, key := range keys {
		if err := b.Delete(ctx, key); err != nil {
			return i, fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return len(keys), nil
}
