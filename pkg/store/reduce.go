package store

// Reduce returns the state that follows s after a.
//
// It is total and pure: every action has a defined effect, unknown or nil
// actions return s unchanged, and s itself is never modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddFile:
		s.Files = s.Files.Put(a.File)
	case UpdateFile:
		s.Files = s.Files.Update(a.ID, a.Updates.Apply)
	case DeleteFile:
		s.Files = s.Files.Delete(a.ID)

	case AddTopic:
		s.Topics = s.Topics.Put(a.Topic)
	case UpdateTopic:
		s.Topics = s.Topics.Update(a.ID, a.Updates.Apply)
	case DeleteTopic:
		s.Topics = s.Topics.Delete(a.ID)

	case AddBehaviorRule:
		s.BehaviorRules = s.BehaviorRules.Put(a.Rule)
	case UpdateBehaviorRule:
		s.BehaviorRules = s.BehaviorRules.Update(a.ID, a.Updates.Apply)
	case DeleteBehaviorRule:
		s.BehaviorRules = s.BehaviorRules.Delete(a.ID)

	case AddChatThread:
		s.ChatThreads = s.ChatThreads.Put(a.Thread)
	case UpdateChatThread:
		s.ChatThreads = s.ChatThreads.Update(a.ID, a.Updates.Apply)
	case DeleteChatThread:
		s.ChatThreads = s.ChatThreads.Delete(a.ID)

	case SetChatThreads:
		s.ChatThreads = NewCollection(a.Threads...)
	case SetProjects:
		s.Projects = NewCollection(a.Projects...)
	case SetMeetings:
		s.Meetings = NewCollection(a.Meetings...)
	case SetEmails:
		s.Emails = NewCollection(a.Emails...)
	case SetDigest:
		s.Meetings = NewCollection(a.Meetings...)
		s.Emails = NewCollection(a.Emails...)

	case LoadState:
		return FromSnapshot(a.Snapshot)
	case SetDataMode:
		s.DataMode = a.Mode
	}
	return s
}
