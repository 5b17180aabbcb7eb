package lookup

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounceDelay is the quiet period before a suggestion query is sent
const DefaultDebounceDelay = 500 * time.Millisecond

// SuggestFunc is the query the debouncer delays; (*Service).Suggest fits
type SuggestFunc func(ctx context.Context, partial string) []string

// DeliverFunc receives the results of the latest query only.
// It runs with the debouncer locked and must not call Submit.
type DeliverFunc func(partial string, suggestions []string)

// SuggestionDebouncer coalesces keystrokes into one suggestion query.
// Every Submit supersedes the previous one: a pending timer is stopped, an
// in-flight query is cancelled, and a late result is dropped by sequence number.
type SuggestionDebouncer struct {
	suggest SuggestFunc
	delay   time.Duration

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	stopped bool
}

// NewSuggestionDebouncer creates a debouncer; delay <= 0 uses DefaultDebounceDelay
func NewSuggestionDebouncer(suggest SuggestFunc, delay time.Duration) *SuggestionDebouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &SuggestionDebouncer{suggest: suggest, delay: delay}
}

// Submit schedules partial to be queried after the quiet period
func (d *SuggestionDebouncer) Submit(ctx context.Context, partial string, deliver DeliverFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.supersedeLocked()
	d.seq++
	mySeq := d.seq

	queryCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.timer = time.AfterFunc(d.delay, func() {
		results := d.suggest(queryCtx, partial)

		d.mu.Lock()
		defer d.mu.Unlock()
		if mySeq != d.seq || d.stopped {
			return
		}
		deliver(partial, results)
	})
}

// Stop cancels pending work; later Submits are ignored
func (d *SuggestionDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
	d.stopped = true
}

func (d *SuggestionDebouncer) supersedeLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}
}
