package store

import "sync"

// Record is implemented by every model kept in a Collection.
type Record[T any] interface {
	WithID(id int64) T
	Clone() T
}

// Collection is an insertion-ordered id -> record map with its own id counter.
// Insert and Update hold the write lock, so id assignment and
// read-modify-write never race.
type Collection[T Record[T]] struct {
	mu     sync.RWMutex
	nextID int64
	order  []int64
	rows   map[int64]T
}

func NewCollection[T Record[T]]() *Collection[T] {
	return &Collection[T]{
		nextID: 1,
		rows:   make(map[int64]T),
	}
}

// Insert assigns the next id to v, stores it and returns a copy.
func (c *Collection[T]) Insert(v T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	stored := v.Clone().WithID(id)
	c.rows[id] = stored
	c.order = append(c.order, id)
	return stored.Clone()
}

func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return v.Clone(), true
}

// List returns every record in insertion order. It never returns nil.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.rows[id].Clone())
	}
	return out
}

// Update applies mutate to a private copy of the record and stores the result.
func (c *Collection[T]) Update(id int64, mutate func(*T)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	v = v.Clone()
	mutate(&v)
	v = v.WithID(id)
	c.rows[id] = v
	return v.Clone(), true
}

// Len reports how many records are stored.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
