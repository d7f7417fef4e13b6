//go:build debug

package world

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// ownerGuard pins a facade to the first goroutine that processes an
// interaction through it. Interactions cross the facade only on the trial
// worker; any other goroutine reaching Process indicates a scheduling bug.
//
// Compiled only with the "debug" build tag: go test -tags debug ./...
type ownerGuard struct {
	owner atomic.Int64
}

func (g *ownerGuard) assertOwner() {
	id := goroutineID()
	if id == 0 {
		return
	}
	if g.owner.CompareAndSwap(0, id) {
		return
	}
	if got := g.owner.Load(); got != id {
		panic(fmt.Sprintf("world: Process called from goroutine %d, facade owned by goroutine %d", id, got))
	}
}

// goroutineID parses the current goroutine ID from the stack header line,
// which has the form "goroutine N [running]:". Returns 0 if parsing fails.
func goroutineID() int64 {
	buf := make([]byte, 64)
	stack := buf[:runtime.Stack(buf, false)]
	const prefix = "goroutine "
	if len(stack) <= len(prefix) {
		return 0
	}
	var id int64
	for _, b := range stack[len(prefix):] {
		if b < '0' || b > '9' {
			break
		}
		id = id*10 + int64(b-'0')
	}
	return id
}
