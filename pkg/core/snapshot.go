package core

// Snapshot is the persisted form of the whole state.
// Collections keep their display order.
type Snapshot struct {
	Files         []ProcessedFile  `json:"files" validate:"dive"`
	Topics        []Topic          `json:"topics"`
	BehaviorRules []BehaviorRule   `json:"behaviorRules"`
	ChatThreads   []ChatThread     `json:"chatThreads"`
	Projects      []Project        `json:"projects"`
	Meetings      []MeetingSummary `json:"meetings"`
	Emails        []EmailSummary   `json:"emails"`
	DataMode      DataMode         `json:"dataMode"`
}
