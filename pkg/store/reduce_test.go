package store_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/assistant/pkg/core"
	"github.com/aretw0/assistant/pkg/store"
)

var at = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

func apply(s store.State, actions ...store.Action) store.State {
	for _, a := range actions {
		s = store.Reduce(s, a)
	}
	return s
}

func TestReduce_Files(t *testing.T) {
	s := store.Erika.InitialState()

	s = store.Reduce(s, store.AddFile{File: core.ProcessedFile{
		ID: "f1", Name: "q3.pdf", Topics: []string{"1"}, Timestamp: at,
		Status: core.FileProcessing, Type: "application/pdf", Size: 2048,
	}})
	s = store.Reduce(s, store.UpdateFile{ID: "f1", Updates: core.FilePatch{Status: core.Ptr(core.FileProcessed)}})

	require.Equal(t, 1, s.Files.Len())
	f, _ := s.Files.Get("f1")
	assert.Equal(t, core.FileProcessed, f.Status)
	assert.Equal(t, "q3.pdf", f.Name, "fields outside the patch are kept")
	assert.Equal(t, int64(2048), f.Size)
	assert.Equal(t, []string{"1"}, f.Topics)

	t.Run("Delete is idempotent", func(t *testing.T) {
		once := store.Reduce(s, store.DeleteFile{ID: "f1"})
		twice := store.Reduce(once, store.DeleteFile{ID: "f1"})
		assert.Zero(t, once.Files.Len())
		assert.Equal(t, once.Snapshot(), twice.Snapshot())
	})

	t.Run("Update of absent id is a no-op", func(t *testing.T) {
		next := store.Reduce(s, store.UpdateFile{ID: "nope", Updates: core.FilePatch{Name: core.Ptr("x")}})
		assert.Equal(t, s.Snapshot(), next.Snapshot())
	})
}

func TestReduce_Topics(t *testing.T) {
	s := store.Erika.InitialState()

	t.Run("Delete of unknown topic keeps the seed", func(t *testing.T) {
		next := store.Reduce(s, store.DeleteTopic{ID: "99"})
		assert.Equal(t, []string{"1", "2", "3", "4"}, next.Topics.IDs())
	})

	t.Run("Add, update and delete", func(t *testing.T) {
		next := apply(s,
			store.AddTopic{Topic: core.Topic{ID: "5", Name: "HR", Keywords: []string{"hiring"}, Color: "#123456"}},
			store.UpdateTopic{ID: "5", Updates: core.TopicPatch{Keywords: &[]string{"hiring", "payroll"}}},
			store.DeleteTopic{ID: "2"},
		)
		assert.Equal(t, []string{"1", "3", "4", "5"}, next.Topics.IDs())
		hr, _ := next.Topics.Get("5")
		assert.Equal(t, []string{"hiring", "payroll"}, hr.Keywords)
		assert.Equal(t, "#123456", hr.Color)
	})

	t.Run("Add of existing id overwrites in place", func(t *testing.T) {
		next := store.Reduce(s, store.AddTopic{Topic: core.Topic{ID: "2", Name: "Compliance"}})
		assert.Equal(t, []string{"1", "2", "3", "4"}, next.Topics.IDs())
		got, _ := next.Topics.Get("2")
		assert.Equal(t, "Compliance", got.Name)
	})
}

func TestReduce_BehaviorRules(t *testing.T) {
	s := apply(store.Marvin.InitialState(),
		store.UpdateBehaviorRule{ID: "3", Updates: core.BehaviorRulePatch{Enabled: core.Ptr(true)}},
		store.AddBehaviorRule{Rule: core.BehaviorRule{ID: "4", Name: "Archive", Condition: "older than 90 days", Action: "archive"}},
		store.DeleteBehaviorRule{ID: "1"},
	)
	assert.Equal(t, []string{"2", "3", "4"}, s.BehaviorRules.IDs())
	r3, _ := s.BehaviorRules.Get("3")
	assert.True(t, r3.Enabled)
	assert.Equal(t, "Escalate urgent email", r3.Name)
}

func TestReduce_ChatThreads(t *testing.T) {
	later := at.Add(time.Hour)
	s := apply(store.State{},
		store.AddChatThread{Thread: core.ChatThread{ID: "t1", Name: "Budget", UpdatedAt: at}},
		store.AddChatThread{Thread: core.ChatThread{ID: "t2", Name: "Launch", UpdatedAt: at}},
		store.UpdateChatThread{ID: "t1", Updates: core.ChatThreadPatch{UpdatedAt: &later}},
		store.DeleteChatThread{ID: "t2"},
	)
	assert.Equal(t, []string{"t1"}, s.ChatThreads.IDs())
	t1, _ := s.ChatThreads.Get("t1")
	assert.Equal(t, later, t1.UpdatedAt)

	t.Run("Set replaces the collection", func(t *testing.T) {
		next := store.Reduce(s, store.SetChatThreads{Threads: []core.ChatThread{
			{ID: "t9", Name: "New", UpdatedAt: at},
			{ID: "t8", Name: "Other", UpdatedAt: at},
		}})
		assert.Equal(t, []string{"t9", "t8"}, next.ChatThreads.IDs())
	})

	t.Run("Set with nil empties the collection", func(t *testing.T) {
		next := store.Reduce(s, store.SetChatThreads{})
		assert.Zero(t, next.ChatThreads.Len())
	})
}

func TestReduce_BulkReplace(t *testing.T) {
	s := apply(store.Erika.InitialState(),
		store.SetProjects{Projects: []core.Project{{ID: "p1", Name: "Site", Status: core.ProjectActive, UpdatedAt: at}}},
		store.SetMeetings{Meetings: []core.MeetingSummary{{ID: "m1", Title: "Standup", Date: at}}},
		store.SetEmails{Emails: []core.EmailSummary{
			{ID: "e1", Subject: "a", Priority: core.PriorityLow},
			{ID: "e2", Subject: "b", Priority: core.PriorityHigh},
			{ID: "e1", Subject: "a2", Priority: core.PriorityNormal},
		}},
	)
	assert.Equal(t, []string{"p1"}, s.Projects.IDs())
	assert.Equal(t, []string{"m1"}, s.Meetings.IDs())
	assert.Equal(t, []string{"e1", "e2"}, s.Emails.IDs(), "repeated id keeps first position")
	e1, _ := s.Emails.Get("e1")
	assert.Equal(t, "a2", e1.Subject, "later entry wins")
	assert.Equal(t, 4, s.Topics.Len(), "other collections untouched")
}

func TestReduce_SetDigest(t *testing.T) {
	s := store.Reduce(store.Erika.InitialState(), store.SetMeetings{Meetings: []core.MeetingSummary{{ID: "old"}}})
	s = store.Reduce(s, store.SetDigest{
		Meetings: []core.MeetingSummary{{ID: "m1", Date: at}, {ID: "m2", Date: at}},
		Emails:   []core.EmailSummary{{ID: "e1", Priority: core.PriorityHigh}},
	})

	assert.Equal(t, []string{"m1", "m2"}, s.Meetings.IDs())
	assert.Equal(t, []string{"e1"}, s.Emails.IDs())
	assert.Equal(t, 4, s.Topics.Len())

	emptied := store.Reduce(s, store.SetDigest{})
	assert.Zero(t, emptied.Meetings.Len())
	assert.Zero(t, emptied.Emails.Len())
}

func TestReduce_LoadState(t *testing.T) {
	snap := core.Snapshot{
		Files:         []core.ProcessedFile{{ID: "f1", Name: "a", Topics: []string{}, Timestamp: at, Status: core.FileError}},
		Topics:        []core.Topic{},
		BehaviorRules: []core.BehaviorRule{},
		ChatThreads:   []core.ChatThread{},
		Projects:      []core.Project{},
		Meetings:      []core.MeetingSummary{},
		Emails:        []core.EmailSummary{},
		DataMode:      core.DataModeLive,
	}
	s := store.Reduce(store.Erika.InitialState(), store.LoadState{Snapshot: snap})

	if diff := cmp.Diff(snap, s.Snapshot()); diff != "" {
		t.Errorf("loaded state mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_DataMode(t *testing.T) {
	s := store.Erika.InitialState()
	assert.Equal(t, core.DataModeMock, s.DataMode)
	assert.Equal(t, core.DataModeLive, store.Reduce(s, store.SetDataMode{Mode: core.DataModeLive}).DataMode)
}

func TestReduce_Identity(t *testing.T) {
	s := store.Erika.InitialState()
	tests := []struct {
		name   string
		action store.Action
	}{
		{"Nil action", nil},
		{"Pointer action", &store.AddTopic{Topic: topic("9", "x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, s.Snapshot(), store.Reduce(s, tt.action).Snapshot())
		})
	}
}

func TestReduce_Purity(t *testing.T) {
	s := store.Erika.InitialState()
	before := s.Snapshot()

	_ = apply(s,
		store.DeleteTopic{ID: "1"},
		store.UpdateTopic{ID: "2", Updates: core.TopicPatch{Name: core.Ptr("changed")}},
		store.AddFile{File: core.ProcessedFile{ID: "f"}},
		store.SetDataMode{Mode: core.DataModeLive},
	)

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("input state was modified (-before +after):\n%s", diff)
	}
}

func TestReduce_Deterministic(t *testing.T) {
	actions := []store.Action{
		store.AddFile{File: core.ProcessedFile{ID: "f1", Name: "a", Timestamp: at, Status: core.FileProcessing}},
		store.AddTopic{Topic: topic("5", "HR")},
		store.UpdateFile{ID: "f1", Updates: core.FilePatch{Status: core.Ptr(core.FileProcessed)}},
		store.DeleteTopic{ID: "3"},
		store.SetEmails{Emails: []core.EmailSummary{{ID: "e", Priority: core.PriorityLow}}},
	}

	a := apply(store.Erika.InitialState(), actions...)
	b := apply(store.Erika.InitialState(), actions...)
	if diff := cmp.Diff(a.Snapshot(), b.Snapshot()); diff != "" {
		t.Errorf("same actions gave different states:\n%s", diff)
	}
}

func TestReduce_PatchDoesNotAlias(t *testing.T) {
	keywords := []string{"hiring"}
	s := store.Reduce(store.Erika.InitialState(), store.UpdateTopic{ID: "1", Updates: core.TopicPatch{Keywords: &keywords}})
	keywords[0] = "mutated"

	got, _ := s.Topics.Get("1")
	assert.Equal(t, []string{"hiring"}, got.Keywords)
}

func TestReduce_StateDoesNotAliasCallers(t *testing.T) {
	t.Run("Added entity", func(t *testing.T) {
		topics := []string{"1"}
		s := store.Reduce(store.State{}, store.AddFile{File: core.ProcessedFile{ID: "f1", Topics: topics}})
		topics[0] = "mutated"

		got, _ := s.Files.Get("f1")
		assert.Equal(t, []string{"1"}, got.Topics)
	})

	t.Run("Bulk replace", func(t *testing.T) {
		meetings := []core.MeetingSummary{{ID: "m1", Attendees: []string{"ana"}, ActionItems: []string{"ship"}}}
		s := store.Reduce(store.State{}, store.SetMeetings{Meetings: meetings})
		meetings[0].Attendees[0] = "mutated"
		meetings[0].ActionItems[0] = "mutated"

		got, _ := s.Meetings.Get("m1")
		assert.Equal(t, []string{"ana"}, got.Attendees)
		assert.Equal(t, []string{"ship"}, got.ActionItems)
	})

	t.Run("Loaded snapshot", func(t *testing.T) {
		snap := core.Snapshot{Topics: []core.Topic{{ID: "1", Keywords: []string{"tax"}}}}
		s := store.Reduce(store.State{}, store.LoadState{Snapshot: snap})
		snap.Topics[0].Keywords[0] = "mutated"

		got, _ := s.Topics.Get("1")
		assert.Equal(t, []string{"tax"}, got.Keywords)
	})

	t.Run("Read results", func(t *testing.T) {
		s := store.Erika.InitialState()
		prev := s
		s = store.Reduce(s, store.SetDataMode{Mode: core.DataModeLive})

		s.Topics.Items()[0].Keywords[0] = "mutated"
		got, _ := s.Topics.Get("1")
		got.Keywords[1] = "mutated"
		for topic := range s.Topics.All() {
			topic.Keywords[2] = "mutated"
		}
		s.Snapshot().Topics[0].Keywords[3] = "mutated"

		want := []string{"invoice", "budget", "payment", "tax"}
		current, _ := s.Topics.Get("1")
		assert.Equal(t, want, current.Keywords)
		before, _ := prev.Topics.Get("1")
		assert.Equal(t, want, before.Keywords)
	})

	t.Run("Product seed is not shared between instances", func(t *testing.T) {
		first := store.New(store.Erika)
		first.Current().Topics.Items()[0].Keywords[0] = "mutated"
		first.Dispatch(store.UpdateTopic{ID: "1", Updates: core.TopicPatch{Name: core.Ptr("Money")}})

		second := store.New(store.Erika)
		got, _ := second.Current().Topics.Get("1")
		assert.Equal(t, "Finance", got.Name)
		assert.Equal(t, []string{"invoice", "budget", "payment", "tax"}, got.Keywords)
	})
}
