package store

import (
	"encoding/json"

	"github.com/aretw0/assistant/pkg/core"
)

// State is the canonical application state of one product instance.
// It is a value: transitions return a new State and never modify this one.
type State struct {
	Files         Collection[core.ProcessedFile]
	Topics        Collection[core.Topic]
	BehaviorRules Collection[core.BehaviorRule]
	ChatThreads   Collection[core.ChatThread]
	Projects      Collection[core.Project]
	Meetings      Collection[core.MeetingSummary]
	Emails        Collection[core.EmailSummary]
	DataMode      core.DataMode
}

// FromSnapshot rebuilds a State from its persisted form.
func FromSnapshot(snap core.Snapshot) State {
	return State{
		Files:         NewCollection(snap.Files...),
		Topics:        NewCollection(snap.Topics...),
		BehaviorRules: NewCollection(snap.BehaviorRules...),
		ChatThreads:   NewCollection(snap.ChatThreads...),
		Projects:      NewCollection(snap.Projects...),
		Meetings:      NewCollection(snap.Meetings...),
		Emails:        NewCollection(snap.Emails...),
		DataMode:      snap.DataMode,
	}
}

// Snapshot returns the persisted form of s.
func (s State) Snapshot() core.Snapshot {
	return core.Snapshot{
		Files:         s.Files.Items(),
		Topics:        s.Topics.Items(),
		BehaviorRules: s.BehaviorRules.Items(),
		ChatThreads:   s.ChatThreads.Items(),
		Projects:      s.Projects.Items(),
		Meetings:      s.Meetings.Items(),
		Emails:        s.Emails.Items(),
		DataMode:      s.DataMode,
	}
}

// MarshalJSON encodes s as its snapshot.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// Counts summarizes collection sizes, keyed by snapshot field name.
func (s State) Counts() map[string]int {
	return map[string]int{
		"files":         s.Files.Len(),
		"topics":        s.Topics.Len(),
		"behaviorRules": s.BehaviorRules.Len(),
		"chatThreads":   s.ChatThreads.Len(),
		"projects":      s.Projects.Len(),
		"meetings":      s.Meetings.Len(),
		"emails":        s.Emails.Len(),
	}
}
