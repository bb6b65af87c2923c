package contract

import (
	"time"

	"github.com/aretw0/assistant/pkg/core"
)

// --- Upload & ingestion ---

// UploadResponse acknowledges a multipart upload.
type UploadResponse struct {
	RunID      string `json:"runId" validate:"required"`
	FilesSaved int    `json:"filesSaved" validate:"gte=0"`
}

// IngestRequest asks the backend to chunk and index files into a collection.
type IngestRequest struct {
	Paths      []string `json:"paths" validate:"min=1,dive,required"`
	Collection string   `json:"collection" validate:"required"`
}

// IngestResponse reports what an ingest run added.
type IngestResponse struct {
	Files       int `json:"files" validate:"gte=0"`
	ChunksAdded int `json:"chunksAdded" validate:"gte=0"`
}

// --- Knowledge base ---

// SearchRequest queries the knowledge base.
type SearchRequest struct {
	Query   string            `json:"query" validate:"required"`
	Filters map[string]string `json:"filters"`
}

// SearchResult is one hit. Results arrive ordered by the server.
type SearchResult struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
	Snippet string  `json:"snippet"`
}

// SearchResponse carries hits in server order; clients must not re-sort.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// GraphNode is a knowledge-base entity.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type,omitempty"`
}

// GraphEdge links two nodes by id.
type GraphEdge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Weight *float64 `json:"weight,omitempty"`
	Label  string   `json:"label,omitempty"`
}

// GraphResponse is the knowledge-base graph. Node ids are unique and every
// edge endpoint names an existing node.
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// --- Chat ---

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Roles is the closed set of message roles.
var Roles = []string{string(RoleUser), string(RoleAssistant)}

// ToolUsage records a tool the assistant invoked while answering.
type ToolUsage struct {
	Name       string            `json:"name" validate:"required"`
	Arguments  map[string]string `json:"arguments"`
	DurationMs int64             `json:"durationMs" validate:"gte=0"`
}

// ChatMessage is one turn of a thread.
type ChatMessage struct {
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	Timestamp time.Time  `json:"timestamp"`
	ToolUsage *ToolUsage `json:"toolUsage,omitempty"`
}

// ThreadsResponse lists the user's threads.
type ThreadsResponse struct {
	Threads []core.ChatThread `json:"threads"`
}

// HistoryResponse holds a thread's messages, oldest first.
type HistoryResponse struct {
	ThreadID string        `json:"threadId" validate:"required"`
	Messages []ChatMessage `json:"messages" validate:"dive"`
}

// SendRequest posts a message. An empty ThreadID asks for a new thread.
type SendRequest struct {
	ThreadID string `json:"threadId,omitempty"`
	Message  string `json:"message" validate:"required"`
}

// NewThread reports whether the request starts a new thread.
func (r SendRequest) NewThread() bool {
	return r.ThreadID == ""
}

// Citation points at a knowledge-base source used in a reply.
type Citation struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	Snippet string `json:"snippet,omitempty"`
}

// StepKind classifies an entry of the reasoning trace.
type StepKind string

const (
	StepPlan     StepKind = "plan"
	StepRetrieve StepKind = "retrieve"
	StepTool     StepKind = "tool"
	StepAnswer   StepKind = "answer"
)

// StepKinds is the closed set of step kinds.
var StepKinds = []string{string(StepPlan), string(StepRetrieve), string(StepTool), string(StepAnswer)}

// Step is one entry of the trace returned with a reply.
type Step struct {
	Kind   StepKind   `json:"kind"`
	Detail string     `json:"detail"`
	Tool   *ToolUsage `json:"tool,omitempty"`
}

// SendResponse is the assistant's reply. ThreadID names the thread the
// message landed in, which is new when the request carried none.
type SendResponse struct {
	ThreadID  string     `json:"threadId,omitempty"`
	Reply     string     `json:"reply"`
	Citations []Citation `json:"citations"`
	Steps     []Step     `json:"steps" validate:"dive"`
}

// --- Projects ---

// ProjectsResponse lists projects.
type ProjectsResponse struct {
	Projects []core.Project `json:"projects"`
}

// Task is a unit of work inside a project.
type Task struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Done  bool       `json:"done"`
	Due   *time.Time `json:"due,omitempty"`
}

// ProjectDetailResponse expands one project.
type ProjectDetailResponse struct {
	Project core.Project `json:"project"`
	Files   []string     `json:"files"`
	Tasks   []Task       `json:"tasks"`
}

// KanbanCard is a card on a board column.
type KanbanCard struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Assignee string     `json:"assignee,omitempty"`
	Due      *time.Time `json:"due,omitempty"`
}

// KanbanColumn is an ordered list of cards.
type KanbanColumn struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Cards []KanbanCard `json:"cards"`
}

// KanbanResponse is a project's board. Card ids are unique across columns.
type KanbanResponse struct {
	ProjectID string         `json:"projectId" validate:"required"`
	Columns   []KanbanColumn `json:"columns"`
}

// TimelineEventType classifies a timeline entry.
type TimelineEventType string

const (
	TimelineMilestone TimelineEventType = "milestone"
	TimelineMeeting   TimelineEventType = "meeting"
	TimelineEmail     TimelineEventType = "email"
	TimelineFile      TimelineEventType = "file"
)

// TimelineEventTypes is the closed set of timeline entry types.
var TimelineEventTypes = []string{
	string(TimelineMilestone), string(TimelineMeeting), string(TimelineEmail), string(TimelineFile),
}

// TimelineEvent is a dated entry on a project timeline.
type TimelineEvent struct {
	ID    string            `json:"id"`
	Title string            `json:"title"`
	At    time.Time         `json:"at"`
	Type  TimelineEventType `json:"type"`
}

// TimelineResponse is a project's timeline in server order.
type TimelineResponse struct {
	ProjectID string          `json:"projectId" validate:"required"`
	Events    []TimelineEvent `json:"events"`
}

// DigestResponse is the daily summary of meetings and emails.
type DigestResponse struct {
	Date       string                `json:"date" validate:"datetime=2006-01-02"`
	Meetings   []core.MeetingSummary `json:"meetings"`
	Emails     []core.EmailSummary   `json:"emails"`
	Highlights []string              `json:"highlights"`
}

// --- Folder watching ---

// WatchedFolder is a folder the backend ingests on a schedule.
type WatchedFolder struct {
	Path       string     `json:"path" validate:"required"`
	Collection string     `json:"collection" validate:"required"`
	Schedule   string     `json:"schedule,omitempty" validate:"omitempty,cron"`
	Enabled    bool       `json:"enabled"`
	LastRun    *time.Time `json:"lastRun,omitempty"`
}

// WatchListResponse lists watched folders.
type WatchListResponse struct {
	Folders []WatchedFolder `json:"folders" validate:"dive"`
}

// WatchAddRequest registers a folder.
type WatchAddRequest struct {
	Path       string `json:"path" validate:"required"`
	Collection string `json:"collection" validate:"required"`
	Schedule   string `json:"schedule,omitempty" validate:"omitempty,cron"`
}

// WatchAddResponse echoes the registered folder.
type WatchAddResponse struct {
	Folder WatchedFolder `json:"folder"`
}

// WatchRemoveRequest unregisters a folder.
type WatchRemoveRequest struct {
	Path string `json:"path" validate:"required"`
}

// WatchRemoveResponse reports whether anything was removed.
type WatchRemoveResponse struct {
	Removed bool `json:"removed"`
}

// ScheduleUpdateRequest changes a folder's cron schedule.
type ScheduleUpdateRequest struct {
	Path     string `json:"path" validate:"required"`
	Schedule string `json:"schedule" validate:"required,cron"`
}

// ScheduleUpdateResponse echoes the updated folder.
type ScheduleUpdateResponse struct {
	Folder WatchedFolder `json:"folder"`
}
