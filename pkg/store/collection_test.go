package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/assistant/pkg/core"
	"github.com/aretw0/assistant/pkg/store"
)

func topic(id, name string) core.Topic {
	return core.Topic{ID: id, Name: name, Keywords: []string{}, Color: "#000"}
}

func TestCollection(t *testing.T) {
	t.Run("Zero value is empty", func(t *testing.T) {
		var c store.Collection[core.Topic]
		assert.Zero(t, c.Len())
		assert.False(t, c.Has("1"))
		assert.NotNil(t, c.Items())
		assert.Empty(t, c.IDs())
		assert.Equal(t, 0, c.Delete("1").Len())
		assert.Equal(t, 0, c.Update("1", func(t core.Topic) core.Topic { return t }).Len())
	})

	t.Run("Keeps insertion order", func(t *testing.T) {
		c := store.NewCollection(topic("b", "B"), topic("a", "A"), topic("c", "C"))
		assert.Equal(t, []string{"b", "a", "c"}, c.IDs())
	})

	t.Run("Put of existing id replaces in place", func(t *testing.T) {
		c := store.NewCollection(topic("a", "A"), topic("b", "B"), topic("c", "C"))
		c = c.Put(topic("a", "A2"))

		assert.Equal(t, []string{"a", "b", "c"}, c.IDs())
		got, _ := c.Get("a")
		assert.Equal(t, "A2", got.Name)
	})

	t.Run("Repeated ids in input", func(t *testing.T) {
		c := store.NewCollection(topic("a", "first"), topic("b", "B"), topic("a", "second"))
		assert.Equal(t, []string{"a", "b"}, c.IDs())
		got, _ := c.Get("a")
		assert.Equal(t, "second", got.Name)
	})

	t.Run("Deleted then re-added goes last", func(t *testing.T) {
		c := store.NewCollection(topic("a", "A"), topic("b", "B"))
		c = c.Delete("a").Put(topic("a", "A"))
		assert.Equal(t, []string{"b", "a"}, c.IDs())
	})

	t.Run("Derived collections leave the original untouched", func(t *testing.T) {
		orig := store.NewCollection(topic("a", "A"), topic("b", "B"))
		_ = orig.Put(topic("c", "C"))
		_ = orig.Delete("a")
		_ = orig.Update("b", func(t core.Topic) core.Topic { t.Name = "changed"; return t })

		assert.Equal(t, []string{"a", "b"}, orig.IDs())
		b, _ := orig.Get("b")
		assert.Equal(t, "B", b.Name)
	})

	t.Run("All stops early", func(t *testing.T) {
		c := store.NewCollection(topic("a", "A"), topic("b", "B"), topic("c", "C"))
		var seen []string
		for item := range c.All() {
			seen = append(seen, item.ID)
			if item.ID == "b" {
				break
			}
		}
		assert.Equal(t, []string{"a", "b"}, seen)
	})
}
