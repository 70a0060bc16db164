package ports

import (
	"context"
	"time"
)

// TokenRevoker remembers signed-out tokens until they would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
