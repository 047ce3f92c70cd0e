package redistribution

import (
	"context"

	"github.com/google/uuid"
)

// KeyLocker serializes work on named keys across callers. Acquire blocks
// until every key is held or ctx is done; release frees all of them.
type KeyLocker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

func surplusKey(id uuid.UUID) string  { return "surplus:" + id.String() }
func requestKey(id uuid.UUID) string  { return "request:" + id.String() }
func transferKey(id uuid.UUID) string { return "transfer:" + id.String() }
