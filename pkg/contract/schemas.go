package contract

import (
	"fmt"

	"github.com/aretw0/assistant/pkg/core"
)

// Entity shapes, shared by the snapshot and the wire payloads that embed them.
var (
	fileShape = Object(
		Req("id", ID()),
		Req("name", String()),
		Req("content", String()),
		Req("topics", Array(ID())),
		Req("timestamp", Timestamp()),
		Req("status", Enum(core.FileStatuses...)),
		Req("type", String()),
		Req("size", Integer()),
	)

	topicShape = Object(
		Req("id", ID()),
		Req("name", String()),
		Req("keywords", Array(String())),
		Req("color", String()),
	)

	ruleShape = Object(
		Req("id", ID()),
		Req("name", String()),
		Req("condition", String()),
		Req("action", String()),
		Req("enabled", Bool()),
	)

	threadShape = Object(
		Req("id", ID()),
		Req("name", String()),
		Req("updatedAt", Timestamp()),
	)

	projectShape = Object(
		Req("id", ID()),
		Req("name", String()),
		Req("status", Enum(core.ProjectStatuses...)),
		Req("updatedAt", Timestamp()),
		Opt("description", String()),
	)

	meetingShape = Object(
		Req("id", ID()),
		Req("title", String()),
		Req("date", Timestamp()),
		Req("summary", String()),
		Req("attendees", Array(String())),
		Opt("actionItems", Array(String())),
	)

	emailShape = Object(
		Req("id", ID()),
		Req("subject", String()),
		Req("from", String()),
		Req("receivedAt", Timestamp()),
		Req("summary", String()),
		Req("priority", Enum(core.EmailPriorities...)),
	)

	toolUsageShape = Object(
		Req("name", String()),
		Opt("arguments", Map(String())),
		Req("durationMs", Integer()),
	)

	watchedFolderShape = Object(
		Req("path", String()),
		Req("collection", String()),
		Opt("schedule", String()),
		Req("enabled", Bool()),
		Opt("lastRun", Timestamp()),
	)
)

func init() {
	// Entities and their patches.
	define[core.ProcessedFile]("file", fileShape)
	define[core.Topic]("topic", topicShape)
	define[core.BehaviorRule]("behaviorRule", ruleShape)
	define[core.ChatThread]("chatThread", threadShape)
	define[core.Project]("project", projectShape)
	define[core.MeetingSummary]("meeting", meetingShape)
	define[core.EmailSummary]("email", emailShape)

	define[core.FilePatch]("file.patch", Object(
		Opt("name", String()),
		Opt("content", String()),
		Opt("topics", Array(ID())),
		Opt("timestamp", Timestamp()),
		Opt("status", Enum(core.FileStatuses...)),
		Opt("type", String()),
		Opt("size", Integer()),
	))
	define[core.TopicPatch]("topic.patch", Object(
		Opt("name", String()),
		Opt("keywords", Array(String())),
		Opt("color", String()),
	))
	define[core.BehaviorRulePatch]("behaviorRule.patch", Object(
		Opt("name", String()),
		Opt("condition", String()),
		Opt("action", String()),
		Opt("enabled", Bool()),
	))
	define[core.ChatThreadPatch]("chatThread.patch", Object(
		Opt("name", String()),
		Opt("updatedAt", Timestamp()),
	))

	define[core.Snapshot]("state.snapshot", Object(
		Req("files", Array(fileShape)),
		Req("topics", Array(topicShape)),
		Req("behaviorRules", Array(ruleShape)),
		Req("chatThreads", Array(threadShape)),
		Opt("projects", Array(projectShape)),
		Req("meetings", Array(meetingShape)),
		Req("emails", Array(emailShape)),
		Req("dataMode", Enum(core.DataModes...)),
	))

	// Upload & ingestion.
	define[UploadResponse]("upload.response", Object(
		Req("runId", String()),
		Req("filesSaved", Integer()),
	))
	define[IngestRequest]("ingest.request", Object(
		Req("paths", Array(String())),
		Req("collection", String()),
	))
	define[IngestResponse]("ingest.response", Object(
		Req("files", Integer()),
		Req("chunksAdded", Integer()),
	))

	// Knowledge base.
	define[SearchRequest]("search.request", Object(
		Req("query", String()),
		Opt("filters", Map(String())),
	))
	define[SearchResponse]("search.response", Object(
		Req("results", Array(Object(
			Req("id", ID()),
			Req("title", String()),
			Req("score", Number()),
			Req("source", String()),
			Req("snippet", String()),
		))),
	))
	define[GraphResponse]("graph.response", Object(
		Req("nodes", Array(Object(
			Req("id", ID()),
			Req("label", String()),
			Opt("type", String()),
		))),
		Req("edges", Array(Object(
			Req("from", ID()),
			Req("to", ID()),
			Opt("weight", Number()),
			Opt("label", String()),
		))),
	), checkGraph)

	// Chat.
	define[ThreadsResponse]("threads.response", Object(
		Req("threads", Array(threadShape)),
	))
	define[HistoryResponse]("history.response", Object(
		Req("threadId", ID()),
		Req("messages", Array(Object(
			Req("role", Enum(Roles...)),
			Req("text", String()),
			Req("timestamp", Timestamp()),
			Opt("toolUsage", toolUsageShape),
		))),
	))
	define[SendRequest]("send.request", Object(
		Opt("threadId", String()),
		Req("message", String()),
	))
	define[SendResponse]("send.response", Object(
		Opt("threadId", String()),
		Req("reply", String()),
		Opt("citations", Array(Object(
			Req("id", ID()),
			Req("title", String()),
			Req("source", String()),
			Opt("snippet", String()),
		))),
		Opt("steps", Array(Object(
			Req("kind", Enum(StepKinds...)),
			Req("detail", String()),
			Opt("tool", toolUsageShape),
		))),
	))

	// Projects.
	define[ProjectsResponse]("projects.response", Object(
		Req("projects", Array(projectShape)),
	))
	define[ProjectDetailResponse]("project.response", Object(
		Req("project", projectShape),
		Req("files", Array(ID())),
		Req("tasks", Array(Object(
			Req("id", ID()),
			Req("title", String()),
			Req("done", Bool()),
			Opt("due", Timestamp()),
		))),
	))
	define[KanbanResponse]("kanban.response", Object(
		Req("projectId", ID()),
		Req("columns", Array(Object(
			Req("id", ID()),
			Req("title", String()),
			Req("cards", Array(Object(
				Req("id", ID()),
				Req("title", String()),
				Opt("assignee", String()),
				Opt("due", Timestamp()),
			))),
		))),
	), checkKanban)
	define[TimelineResponse]("timeline.response", Object(
		Req("projectId", ID()),
		Req("events", Array(Object(
			Req("id", ID()),
			Req("title", String()),
			Req("at", Timestamp()),
			Req("type", Enum(TimelineEventTypes...)),
		))),
	))
	define[DigestResponse]("digest.response", Object(
		Req("date", String()),
		Req("meetings", Array(meetingShape)),
		Req("emails", Array(emailShape)),
		Opt("highlights", Array(String())),
	))

	// Folder watching.
	define[WatchListResponse]("watch.list.response", Object(
		Req("folders", Array(watchedFolderShape)),
	))
	define[WatchAddRequest]("watch.add.request", Object(
		Req("path", String()),
		Req("collection", String()),
		Opt("schedule", String()),
	))
	define[WatchAddResponse]("watch.add.response", Object(
		Req("folder", watchedFolderShape),
	))
	define[WatchRemoveRequest]("watch.remove.request", Object(
		Req("path", String()),
	))
	define[WatchRemoveResponse]("watch.remove.response", Object(
		Req("removed", Bool()),
	))
	define[ScheduleUpdateRequest]("schedule.update.request", Object(
		Req("path", String()),
		Req("schedule", String()),
	))
	define[ScheduleUpdateResponse]("schedule.update.response", Object(
		Req("folder", watchedFolderShape),
	))
}

func checkGraph(g GraphResponse) *SchemaViolation {
	nodes := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := nodes[n.ID]; dup {
			return violation(fmt.Sprintf("$.nodes[%d].id", i), "unique node id", n.ID)
		}
		nodes[n.ID] = struct{}{}
	}
	for i, e := range g.Edges {
		if _, ok := nodes[e.From]; !ok {
			return violation(fmt.Sprintf("$.edges[%d].from", i), "existing node id", e.From)
		}
		if _, ok := nodes[e.To]; !ok {
			return violation(fmt.Sprintf("$.edges[%d].to", i), "existing node id", e.To)
		}
	}
	return nil
}

func checkKanban(k KanbanResponse) *SchemaViolation {
	seen := make(map[string]struct{})
	for i, col := range k.Columns {
		for j, card := range col.Cards {
			if _, dup := seen[card.ID]; dup {
				return violation(fmt.Sprintf("$.columns[%d].cards[%d].id", i, j), "unique card id", card.ID)
			}
			seen[card.ID] = struct{}{}
		}
	}
	return nil
}
