package repositories

import "sync"

// ChangeFeed is an in-process notification bus for table changes.
//
// Subscribers are told that something in a table changed, never what; the
// expected reaction is to re-pull a snapshot. Handlers are invoked
// synchronously after a successful write, so they should return quickly
// (e.g., a non-blocking channel send).
type ChangeFeed struct {
	mu   sync.Mutex
	next int
	subs map[int]subscription
}

type subscription struct {
	table   string
	handler func()
}

// NewChangeFeed creates an empty change feed.
func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{subs: make(map[int]subscription)}
}

// Subscribe registers a handler for changes to the given table and returns an
// unsubscribe token.
func (f *ChangeFeed) Subscribe(table string, handler func()) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	f.subs[f.next] = subscription{table: table, handler: handler}
	return f.next
}

// Unsubscribe removes the subscription identified by token. Unknown tokens
// are ignored.
func (f *ChangeFeed) Unsubscribe(token int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.subs, token)
}

// Notify invokes every handler subscribed to the given table.
func (f *ChangeFeed) Notify(table string) {
	f.mu.Lock()
	handlers := make([]func(), 0, len(f.subs))
	for _, sub := range f.subs {
		if sub.table == table {
			handlers = append(handlers, sub.handler)
		}
	}
	f.mu.Unlock()

	for _, handler := range handlers {
		handler()
	}
}
