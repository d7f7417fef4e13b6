// Package triallog provides the per-trial, in-memory log. Everything a
// trial produces goes through here: submission robot.log calls, console
// output, and runtime phase messages. Entries are insertion-ordered and
// mirrored onto an event emitter so that goal predicates can match on them.
package triallog

import (
	"strings"
	"sync"
	"time"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/event"
)

// Entry is one trial log line.
type Entry struct {
	Seq     int
	Time    time.Time
	Context string
	Message string
}

// Log is the trial log. Appends are safe for concurrent use; the emitter is
// driven synchronously from Append on the appending goroutine, which during
// a trial is always the trial worker.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	emitter *event.Emitter
}

// New returns an empty log.
func New() *Log {
	return &Log{emitter: event.NewEmitter()}
}

// Emitter returns the log's event source. Every appended entry is published
// as an event.LogMessage after it is stored.
func (l *Log) Emitter() *event.Emitter { return l.emitter }

// Append stores one entry and publishes it.
func (l *Log) Append(context, message string) {
	l.mu.Lock()
	l.entries = append(l.entries, Entry{
		Seq:     len(l.entries),
		Time:    time.Now(),
		Context: context,
		Message: message,
	})
	l.mu.Unlock()
	// Delivery happens outside the lock so handlers may read or append.
	l.emitter.NotifyAll(event.LogMessage{Context: context, Message: message})
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// FilterByContext returns the entries whose context matches exactly.
func (l *Log) FilterByContext(context string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if e.Context == context {
			out = append(out, e)
		}
	}
	return out
}

// Search returns the entries whose message or context contains query,
// case-insensitively.
func (l *Log) Search(query string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	query = strings.ToLower(query)
	var out []Entry
	for _, e := range l.entries {
		if strings.Contains(strings.ToLower(e.Message), query) ||
			strings.Contains(strings.ToLower(e.Context), query) {
			out = append(out, e)
		}
	}
	return out
}
