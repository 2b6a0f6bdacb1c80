// Package review drives the admin review workflow: working lists loaded from
// the back office, the record selected for detail and optimistic mutations
// that roll back when the server rejects them.
package review

import (
	"context"
	"sync"

	"github.com/phbpx/prits"
)

// board is the working list of one record kind.
type board[T any] struct {
	mu       sync.Mutex
	items    []T
	selected string
	key      func(T) string
	notFound error
}

func (b *board[T]) load(items []T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append([]T(nil), items...)
	if b.selected != "" && b.index(b.selected) < 0 {
		b.selected = ""
	}
}

func (b *board[T]) snapshot() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]T(nil), b.items...)
}

func (b *board[T]) selectID(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if id != "" && b.index(id) < 0 {
		return b.notFound
	}
	b.selected = id
	return nil
}

func (b *board[T]) current() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	if b.selected == "" {
		return zero, false
	}
	i := b.index(b.selected)
	if i < 0 {
		return zero, false
	}
	return b.items[i], true
}

// index must be called with mu held.
func (b *board[T]) index(id string) int {
	for i, item := range b.items {
		if b.key(item) == id {
			return i
		}
	}
	return -1
}

// mutate shows change immediately, then asks the server to commit it. The
// server's record replaces the local one; a rejected commit restores it, and
// a record the server no longer has is dropped.
func (b *board[T]) mutate(ctx context.Context, id string, change func(T) T, commit func(context.Context) (T, error)) (T, error) {
	var zero T

	b.mu.Lock()
	i := b.index(id)
	if i < 0 {
		b.mu.Unlock()
		return zero, b.notFound
	}
	before := b.items[i]
	b.items[i] = change(before)
	b.mu.Unlock()

	saved, err := commit(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	i = b.index(id)
	switch {
	case err != nil && prits.IsNotFound(err):
		if i >= 0 {
			b.drop(i)
		}
		return zero, err
	case err != nil:
		if i >= 0 {
			b.items[i] = before
		}
		return zero, err
	}

	if i >= 0 {
		b.items[i] = saved
	}
	return saved, nil
}

// remove takes the record off the list and clears its selection before the
// server confirms. A rejected delete puts both back.
func (b *board[T]) remove(ctx context.Context, id string, commit func(context.Context) error) error {
	b.mu.Lock()
	i := b.index(id)
	if i < 0 {
		b.mu.Unlock()
		return b.notFound
	}
	removed := b.items[i]
	wasSelected := b.selected == id
	b.drop(i)
	b.mu.Unlock()

	err := commit(ctx)
	if err == nil || prits.IsNotFound(err) {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.index(id) < 0 {
		if i > len(b.items) {
			i = len(b.items)
		}
		items := make([]T, 0, len(b.items)+1)
		items = append(items, b.items[:i]...)
		items = append(items, removed)
		b.items = append(items, b.items[i:]...)
	}
	if wasSelected && b.selected == "" {
		b.selected = id
	}
	return err
}

func (b *board[T]) prepend(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]T, 0, len(b.items)+1)
	items = append(items, item)
	b.items = append(items, b.items...)
}

// drop must be called with mu held.
func (b *board[T]) drop(i int) {
	id := b.key(b.items[i])
	b.items = append(b.items[:i:i], b.items[i+1:]...)
	if b.selected == id {
		b.selected = ""
	}
}
