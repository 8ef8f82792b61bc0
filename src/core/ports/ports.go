// Package ports defines the interfaces the core use cases depend on.
// Infrastructure packages implement them; tests substitute fakes.
package ports

import "context"

// ConnectivityProber reports whether the backing database is reachable.
// It is a pure boolean signal: implementations must never return an
// error or panic, only true or false.
type ConnectivityProber interface {
	Probe(ctx context.Context) bool
}
