package market

import (
	"errors"
	"sync"
)

// ErrNoQuote is returned when a symbol has no quote in the store.
var ErrNoQuote = errors.New("quote not found")

// QuoteStore holds the latest quote per symbol.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]Quote)}
}

func (qs *QuoteStore) Set(q Quote) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.quotes[q.Symbol] = q
}

// Apply merges every quote of s into the store.
func (qs *QuoteStore) Apply(s Snapshot) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	for sym, q := range s {
		q.Symbol = sym
		qs.quotes[sym] = q
	}
}

func (qs *QuoteStore) Quote(symbol string) (Quote, error) {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	q, ok := qs.quotes[symbol]
	if !ok {
		return Quote{}, ErrNoQuote
	}
	return q, nil
}

// Snapshot copies the current quotes.
func (qs *QuoteStore) Snapshot() Snapshot {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return Snapshot(qs.quotes).Clone()
}

func (qs *QuoteStore) Len() int {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return len(qs.quotes)
}
