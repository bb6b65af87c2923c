package store

import (
	"slices"

	"github.com/aretw0/assistant/pkg/core"
)

// Product parametrizes a store instance: both assistants share the same
// container and differ only in name and seed data.
type Product struct {
	Name     string
	Topics   []core.Topic
	Rules    []core.BehaviorRule
	DataMode core.DataMode
}

// InitialState returns the seeded state of a fresh instance.
func (p Product) InitialState() State {
	mode := p.DataMode
	if mode == "" {
		mode = core.DataModeMock
	}
	return State{
		Topics:        NewCollection(p.Topics...),
		BehaviorRules: NewCollection(p.Rules...),
		DataMode:      mode,
	}
}

func defaultTopics() []core.Topic {
	return []core.Topic{
		{ID: "1", Name: "Finance", Keywords: []string{"invoice", "budget", "payment", "tax"}, Color: "#10b981"},
		{ID: "2", Name: "Legal", Keywords: []string{"contract", "agreement", "compliance", "policy"}, Color: "#6366f1"},
		{ID: "3", Name: "Marketing", Keywords: []string{"campaign", "brand", "social", "launch"}, Color: "#f59e0b"},
		{ID: "4", Name: "Technical", Keywords: []string{"api", "architecture", "deploy", "bug"}, Color: "#ef4444"},
	}
}

func defaultRules() []core.BehaviorRule {
	return []core.BehaviorRule{
		{ID: "1", Name: "Flag invoices", Condition: "file matches topic Finance", Action: "notify finance channel", Enabled: true},
		{ID: "2", Name: "Summarize meetings", Condition: "new meeting transcript", Action: "generate summary", Enabled: true},
		{ID: "3", Name: "Escalate urgent email", Condition: "email priority is high", Action: "pin to digest", Enabled: false},
	}
}

var (
	// Erika is the first assistant product.
	Erika = Product{Name: "erika", Topics: defaultTopics(), Rules: defaultRules(), DataMode: core.DataModeMock}
	// Marvin is the second assistant product.
	Marvin = Product{Name: "marvin", Topics: defaultTopics(), Rules: defaultRules(), DataMode: core.DataModeMock}
)

// Products lists the known products.
func Products() []Product {
	return []Product{Erika, Marvin}
}

// ProductByName looks up a known product.
func ProductByName(name string) (Product, bool) {
	i := slices.IndexFunc(Products(), func(p Product) bool { return p.Name == name })
	if i < 0 {
		return Product{}, false
	}
	return Products()[i], true
}
