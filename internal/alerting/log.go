package alerting

import "sync"

const (
	maxEntries     = 10
	dedupWindowSec = 120
)

type entry struct {
	alert      Alert
	elapsedSec int
}

// Log is the session's alert history: a repeated message within the last two
// minutes of session time is suppressed, and only the most recent ten alerts
// are retained, oldest evicted first.
type Log struct {
	mu      sync.Mutex
	entries []entry
}

func NewLog() *Log {
	return &Log{}
}

// Add records the alert unless an identical message was recorded within the
// dedup window. Returns whether the alert was kept.
func (l *Log) Add(a Alert, elapsedSec int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if e.alert.Message == a.Message && elapsedSec-e.elapsedSec < dedupWindowSec {
			return false
		}
	}

	l.entries = append(l.entries, entry{alert: a, elapsedSec: elapsedSec})
	if len(l.entries) > maxEntries {
		l.entries = l.entries[len(l.entries)-maxEntries:]
	}
	return true
}

func (l *Log) Entries() []Alert {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Alert, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.alert
	}
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
