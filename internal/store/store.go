// Package store persists ledger sessions keyed by chat. Backends are
// swappable: an in-memory map for lightweight deployments (state is
// lost on restart, accepted) and Postgres for durable ones.
package store

import (
	"context"

	"github.com/ptchy/chiabot/internal/ledger"
)

// Store is a key-value view over sessions. Get returns (nil, nil) when
// no session exists for the key; callers create and Put one themselves.
type Store interface {
	Get(ctx context.Context, key int64) (*ledger.Session, error)
	Put(ctx context.Context, key int64, s *ledger.Session) error
}
