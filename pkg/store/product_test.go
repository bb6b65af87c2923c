package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/assistant/pkg/core"
	"github.com/aretw0/assistant/pkg/store"
)

func TestProducts(t *testing.T) {
	for _, p := range store.Products() {
		t.Run(p.Name, func(t *testing.T) {
			s := p.InitialState()
			assert.Equal(t, []string{"1", "2", "3", "4"}, s.Topics.IDs())
			assert.Equal(t, []string{"1", "2", "3"}, s.BehaviorRules.IDs())
			assert.Zero(t, s.Files.Len())
			assert.Zero(t, s.ChatThreads.Len())
			assert.Equal(t, core.DataModeMock, s.DataMode)

			r3, _ := s.BehaviorRules.Get("3")
			assert.False(t, r3.Enabled)
		})
	}

	t.Run("Lookup", func(t *testing.T) {
		p, ok := store.ProductByName("marvin")
		require.True(t, ok)
		assert.Equal(t, store.Marvin.Name, p.Name)

		_, ok = store.ProductByName("hal")
		assert.False(t, ok)
	})

	t.Run("Empty data mode defaults to mock", func(t *testing.T) {
		assert.Equal(t, core.DataModeMock, store.Product{Name: "x"}.InitialState().DataMode)
	})
}

func TestMatchTopics(t *testing.T) {
	topics := store.Erika.InitialState().Topics.Items()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"Single topic", "Please pay the INVOICE", []string{"1"}},
		{"Several topics in topic order", "Deploy the brand campaign after the contract review", []string{"2", "3", "4"}},
		{"No match", "lunch menu", nil},
		{"Empty content", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.MatchTopics(tt.content, topics))
		})
	}

	t.Run("Blank keywords never match", func(t *testing.T) {
		assert.Nil(t, store.MatchTopics("anything", []core.Topic{{ID: "x", Keywords: []string{"", "  "}}}))
	})
}
