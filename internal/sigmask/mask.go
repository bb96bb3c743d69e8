// Package sigmask defers asynchronous signal handlers the way a process
// signal mask does.
//
// The Go runtime delivers signals to channels rather than interrupting the
// program, so a handler runs on its own goroutine. A Mask restores the
// guarantees of a real signal mask for such handlers:
//
//   - a handler for a blocked signal does not start until the signal is
//     unblocked;
//   - while a handler runs, the main flow cannot change the mask, just as it
//     could not run at all while interrupted;
//   - handlers never run concurrently with each other.
//
// Shared state touched by both the main flow and a handler is safe as long
// as the main flow only reads or writes it with the relevant signals blocked.
package sigmask

import (
	"sync"
	"syscall"
)

// Set is a set of signal numbers.
type Set uint64

// All blocks every signal.
const All = ^Set(0)

func Of(sigs ...syscall.Signal) Set {
	var s Set
	for _, sig := range sigs {
		s |= bit(sig)
	}

	return s
}

func (s Set) Has(sig syscall.Signal) bool {
	return s&bit(sig) != 0
}

func bit(sig syscall.Signal) Set {
	if sig <= 0 || sig > 64 {
		return 0
	}

	return 1 << (uint(sig) - 1)
}

type Mask struct {
	mu      sync.Mutex
	cond    *sync.Cond
	blocked Set
	active  bool
}

func New() *Mask {
	m := &Mask{}
	m.cond = sync.NewCond(&m.mu)

	return m
}

// Block adds set to the blocked signals and returns a guard that restores
// the previous mask. If a handler is running, Block waits for it to return.
func (m *Mask) Block(set Set) *Guard {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.active {
		m.cond.Wait()
	}

	return m.block(set, false)
}

// Blocked reports the current mask.
func (m *Mask) Blocked() Set {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.blocked
}

// Deliver runs handler for sig once sig is not blocked and no other handler
// is running. It is called from the goroutine receiving sig.
func (m *Mask) Deliver(sig syscall.Signal, handler func(*Frame)) {
	m.mu.Lock()
	for m.active || m.blocked.Has(sig) {
		m.cond.Wait()
	}
	m.active = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active = false
		m.cond.Broadcast()
		m.mu.Unlock()
	}()

	handler(&Frame{m: m})
}

// must hold m.mu
func (m *Mask) block(set Set, fromHandler bool) *Guard {
	g := &Guard{
		m:           m,
		prev:        m.blocked,
		fromHandler: fromHandler,
	}
	m.blocked |= set

	return g
}

// Frame is the execution context of a running handler.
type Frame struct {
	m *Mask
}

// Block adds set to the blocked signals from inside a handler.
func (f *Frame) Block(set Set) *Guard {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	return f.m.block(set, true)
}

// Guard restores the mask that was in place when it was created.
type Guard struct {
	m           *Mask
	prev        Set
	fromHandler bool
	restored    bool
}

// Restore reinstates the previous mask. Calling it more than once is a no-op.
func (g *Guard) Restore() {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()

	if g.restored {
		return
	}

	for !g.fromHandler && g.m.active {
		g.m.cond.Wait()
	}

	g.restored = true
	g.m.blocked = g.prev
	g.m.cond.Broadcast()
}
