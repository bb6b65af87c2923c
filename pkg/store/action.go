package store

import "github.com/aretw0/assistant/pkg/core"

// ActionType is the wire name of an action.
type ActionType string

const (
	ActionAddFile            ActionType = "ADD_FILE"
	ActionUpdateFile         ActionType = "UPDATE_FILE"
	ActionDeleteFile         ActionType = "DELETE_FILE"
	ActionAddTopic           ActionType = "ADD_TOPIC"
	ActionUpdateTopic        ActionType = "UPDATE_TOPIC"
	ActionDeleteTopic        ActionType = "DELETE_TOPIC"
	ActionAddBehaviorRule    ActionType = "ADD_BEHAVIOR_RULE"
	ActionUpdateBehaviorRule ActionType = "UPDATE_BEHAVIOR_RULE"
	ActionDeleteBehaviorRule ActionType = "DELETE_BEHAVIOR_RULE"
	ActionAddChatThread      ActionType = "ADD_CHAT_THREAD"
	ActionUpdateChatThread   ActionType = "UPDATE_CHAT_THREAD"
	ActionDeleteChatThread   ActionType = "DELETE_CHAT_THREAD"
	ActionSetChatThreads     ActionType = "SET_CHAT_THREADS"
	ActionSetProjects        ActionType = "SET_PROJECTS"
	ActionSetMeetings        ActionType = "SET_MEETINGS"
	ActionSetEmails          ActionType = "SET_EMAILS"
	ActionSetDigest          ActionType = "SET_DIGEST"
	ActionLoadState          ActionType = "LOAD_STATE"
	ActionSetDataMode        ActionType = "SET_DATA_MODE"
)

// Action is a transition request. The set of actions is closed: only the
// types in this package implement it.
type Action interface {
	Type() ActionType
	action()
}

type (
	// AddFile appends a file, or replaces the file with the same id in place.
	AddFile struct{ File core.ProcessedFile }
	// UpdateFile patches the file with the given id.
	UpdateFile struct {
		ID      string
		Updates core.FilePatch
	}
	// DeleteFile removes the file with the given id.
	DeleteFile struct{ ID string }

	AddTopic    struct{ Topic core.Topic }
	UpdateTopic struct {
		ID      string
		Updates core.TopicPatch
	}
	DeleteTopic struct{ ID string }

	AddBehaviorRule    struct{ Rule core.BehaviorRule }
	UpdateBehaviorRule struct {
		ID      string
		Updates core.BehaviorRulePatch
	}
	DeleteBehaviorRule struct{ ID string }

	AddChatThread    struct{ Thread core.ChatThread }
	UpdateChatThread struct {
		ID      string
		Updates core.ChatThreadPatch
	}
	DeleteChatThread struct{ ID string }

	// SetChatThreads replaces all threads with the server's list.
	SetChatThreads struct{ Threads []core.ChatThread }
	// SetProjects replaces all projects.
	SetProjects struct{ Projects []core.Project }
	// SetMeetings replaces all meeting summaries.
	SetMeetings struct{ Meetings []core.MeetingSummary }
	// SetEmails replaces all email summaries.
	SetEmails struct{ Emails []core.EmailSummary }
	// SetDigest replaces meetings and emails in one transition.
	SetDigest struct {
		Meetings []core.MeetingSummary
		Emails   []core.EmailSummary
	}

	// LoadState replaces the whole state with a snapshot.
	LoadState struct{ Snapshot core.Snapshot }
	// SetDataMode switches between fixtures and the live backend.
	SetDataMode struct{ Mode core.DataMode }
)

func (AddFile) Type() ActionType            { return ActionAddFile }
func (UpdateFile) Type() ActionType         { return ActionUpdateFile }
func (DeleteFile) Type() ActionType         { return ActionDeleteFile }
func (AddTopic) Type() ActionType           { return ActionAddTopic }
func (UpdateTopic) Type() ActionType        { return ActionUpdateTopic }
func (DeleteTopic) Type() ActionType        { return ActionDeleteTopic }
func (AddBehaviorRule) Type() ActionType    { return ActionAddBehaviorRule }
func (UpdateBehaviorRule) Type() ActionType { return ActionUpdateBehaviorRule }
func (DeleteBehaviorRule) Type() ActionType { return ActionDeleteBehaviorRule }
func (AddChatThread) Type() ActionType      { return ActionAddChatThread }
func (UpdateChatThread) Type() ActionType   { return ActionUpdateChatThread }
func (DeleteChatThread) Type() ActionType   { return ActionDeleteChatThread }
func (SetChatThreads) Type() ActionType     { return ActionSetChatThreads }
func (SetProjects) Type() ActionType        { return ActionSetProjects }
func (SetMeetings) Type() ActionType        { return ActionSetMeetings }
func (SetEmails) Type() ActionType          { return ActionSetEmails }
func (SetDigest) Type() ActionType          { return ActionSetDigest }
func (LoadState) Type() ActionType          { return ActionLoadState }
func (SetDataMode) Type() ActionType        { return ActionSetDataMode }

func (AddFile) action()            {}
func (UpdateFile) action()         {}
func (DeleteFile) action()         {}
func (AddTopic) action()           {}
func (UpdateTopic) action()        {}
func (DeleteTopic) action()        {}
func (AddBehaviorRule) action()    {}
func (UpdateBehaviorRule) action() {}
func (DeleteBehaviorRule) action() {}
func (AddChatThread) action()      {}
func (UpdateChatThread) action()   {}
func (DeleteChatThread) action()   {}
func (SetChatThreads) action()     {}
func (SetProjects) action()        {}
func (SetMeetings) action()        {}
func (SetEmails) action()          {}
func (SetDigest) action()          {}
func (LoadState) action()          {}
func (SetDataMode) action()        {}
