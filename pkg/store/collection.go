package store

import (
	"iter"

	"github.com/benbjohnson/immutable"
)

// Entity is anything stored in a Collection. Clone must return a copy that
// shares no mutable memory with the receiver.
type Entity[T any] interface {
	EntityID() string
	Clone() T
}

// Collection is an immutable, id-keyed sequence that remembers insertion order.
//
// Lookups, inserts, updates and deletes are O(log n) and share structure with
// the collection they were derived from, so handing out a Collection never
// exposes state that a later transition could change. The zero value is an
// empty collection.
type Collection[T Entity[T]] struct {
	byID  *immutable.Map[string, slot[T]]
	order *immutable.SortedMap[uint64, string]
	next  uint64
}

type slot[T any] struct {
	seq  uint64
	item T
}

// NewCollection builds a collection from items in order.
// A repeated id overwrites the earlier entry and keeps its position.
func NewCollection[T Entity[T]](items ...T) Collection[T] {
	var c Collection[T]
	for _, item := range items {
		c = c.Put(item)
	}
	return c
}

func (c Collection[T]) ensure() Collection[T] {
	if c.byID == nil {
		c.byID = immutable.NewMap[string, slot[T]](nil)
		c.order = immutable.NewSortedMap[uint64, string](nil)
	}
	return c
}

// Len returns the number of entries.
func (c Collection[T]) Len() int {
	if c.byID == nil {
		return 0
	}
	return c.byID.Len()
}

// Get returns a copy of the entry with the given id.
func (c Collection[T]) Get(id string) (T, bool) {
	if c.byID == nil {
		var zero T
		return zero, false
	}
	s, ok := c.byID.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	return s.item.Clone(), true
}

// Has reports whether id is present.
func (c Collection[T]) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// Put appends a copy of item, or replaces the entry with the same id in place.
func (c Collection[T]) Put(item T) Collection[T] {
	c = c.ensure()
	item = item.Clone()
	id := item.EntityID()
	if existing, ok := c.byID.Get(id); ok {
		c.byID = c.byID.Set(id, slot[T]{seq: existing.seq, item: item})
		return c
	}
	seq := c.next
	c.next++
	c.byID = c.byID.Set(id, slot[T]{seq: seq, item: item})
	c.order = c.order.Set(seq, id)
	return c
}

// Update replaces the entry with fn(copy of entry). Absent ids leave c unchanged.
func (c Collection[T]) Update(id string, fn func(T) T) Collection[T] {
	if c.byID == nil {
		return c
	}
	existing, ok := c.byID.Get(id)
	if !ok {
		return c
	}
	c.byID = c.byID.Set(id, slot[T]{seq: existing.seq, item: fn(existing.item.Clone()).Clone()})
	return c
}

// Delete removes the entry with the given id. Absent ids leave c unchanged.
func (c Collection[T]) Delete(id string) Collection[T] {
	if c.byID == nil {
		return c
	}
	existing, ok := c.byID.Get(id)
	if !ok {
		return c
	}
	c.byID = c.byID.Delete(id)
	c.order = c.order.Delete(existing.seq)
	return c
}

// All iterates copies of the entries in insertion order.
func (c Collection[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if c.order == nil {
			return
		}
		itr := c.order.Iterator()
		for !itr.Done() {
			_, id, ok := itr.Next()
			if !ok {
				return
			}
			s, _ := c.byID.Get(id)
			if !yield(s.item.Clone()) {
				return
			}
		}
	}
}

// Items returns the entries in insertion order. The slice is never nil.
func (c Collection[T]) Items() []T {
	items := make([]T, 0, c.Len())
	for item := range c.All() {
		items = append(items, item)
	}
	return items
}

// IDs returns the ids in insertion order.
func (c Collection[T]) IDs() []string {
	ids := make([]string, 0, c.Len())
	if c.order == nil {
		return ids
	}
	itr := c.order.Iterator()
	for !itr.Done() {
		_, id, ok := itr.Next()
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids
}
