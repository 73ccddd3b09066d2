// Package watch provides the shared observable slot holding the most
// recently fetched account.
package watch

import (
	"sync"

	"finbridge/internal/domain/finance"
)

// AccountWatch holds the latest known account and broadcasts replacements
// to subscribers. The value is replaced wholesale; readers observe either
// nil (before the first publish) or a complete account, never a partial
// update. Concurrent publishes race and the last completed write wins.
type AccountWatch struct {
	mu      sync.RWMutex
	current *finance.Account
	subs    map[chan *finance.Account]struct{}
}

func NewAccountWatch() *AccountWatch {
	return &AccountWatch{
		subs: make(map[chan *finance.Account]struct{}),
	}
}

// Current returns the most recently published account, or nil.
func (w *AccountWatch) Current() *finance.Account {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Publish replaces the held account and notifies subscribers. A subscriber
// that has not drained its channel only keeps the latest value; sends never
// block the publisher.
func (w *AccountWatch) Publish(account finance.Account) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.current = &account
	for ch := range w.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- &account:
		default:
		}
	}
}

// Subscribe registers a channel receiving account replacements. If an
// account is already held, it is delivered immediately.
func (w *AccountWatch) Subscribe() <-chan *finance.Account {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan *finance.Account, 1)
	if w.current != nil {
		ch <- w.current
	}
	w.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a channel returned by Subscribe.
func (w *AccountWatch) Unsubscribe(sub <-chan *finance.Account) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for ch := range w.subs {
		if ch == sub {
			delete(w.subs, ch)
			close(ch)
			return
		}
	}
}
