//go:build !debug

package world

// ownerGuard is a no-op without the "debug" build tag; the goroutine
// ownership check costs nothing in release builds.
type ownerGuard struct{}

func (ownerGuard) assertOwner() {}
