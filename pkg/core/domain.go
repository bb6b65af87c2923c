// Package core holds the entity shapes shared by the contract layer and the
// state store.
//
// Every entity is an immutable value identified by a string id that is unique
// within its collection. The store never mutates a value it has handed out;
// updates produce a new value through the matching Patch type.
package core

import (
	"slices"
	"time"
)

// FileStatus is the processing state of an uploaded file.
type FileStatus string

const (
	FileProcessing FileStatus = "processing"
	FileProcessed  FileStatus = "processed"
	FileError      FileStatus = "error"
)

// FileStatuses is the closed set of valid file states.
var FileStatuses = []string{string(FileProcessing), string(FileProcessed), string(FileError)}

// DataMode selects between local fixtures and the live backend.
type DataMode string

const (
	DataModeMock DataMode = "mock"
	DataModeLive DataMode = "live"
)

// DataModes is the closed set of valid data modes.
var DataModes = []string{string(DataModeMock), string(DataModeLive)}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

// ProjectStatuses is the closed set of valid project states.
var ProjectStatuses = []string{string(ProjectActive), string(ProjectPaused), string(ProjectCompleted)}

// EmailPriority ranks a summarized email.
type EmailPriority string

const (
	PriorityLow    EmailPriority = "low"
	PriorityNormal EmailPriority = "normal"
	PriorityHigh   EmailPriority = "high"
)

// EmailPriorities is the closed set of valid email priorities.
var EmailPriorities = []string{string(PriorityLow), string(PriorityNormal), string(PriorityHigh)}

// ProcessedFile is an uploaded file and its classification.
// It is created with FileProcessing and updated in place as processing completes.
type ProcessedFile struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Content   string     `json:"content"`
	Topics    []string   `json:"topics"`
	Timestamp time.Time  `json:"timestamp"`
	Status    FileStatus `json:"status"`
	Type      string     `json:"type"`
	Size      int64      `json:"size" validate:"gte=0"`
}

// Topic groups files by keyword.
type Topic struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Color    string   `json:"color"`
}

// BehaviorRule tells the assistant how to react when a condition holds.
type BehaviorRule struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Action    string `json:"action"`
	Enabled   bool   `json:"enabled"`
}

// ChatThread is a conversation with the assistant.
type ChatThread struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Project is a server-owned workspace grouping files and tasks.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Description string        `json:"description,omitempty"`
}

// MeetingSummary is a server-produced digest of a meeting.
// The store only replaces these in bulk.
type MeetingSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Summary     string    `json:"summary"`
	Attendees   []string  `json:"attendees"`
	ActionItems []string  `json:"actionItems"`
}

// EmailSummary is a server-produced digest of an email.
// The store only replaces these in bulk.
type EmailSummary struct {
	ID         string        `json:"id"`
	Subject    string        `json:"subject"`
	From       string        `json:"from"`
	ReceivedAt time.Time     `json:"receivedAt"`
	Summary    string        `json:"summary"`
	Priority   EmailPriority `json:"priority"`
}

// EntityID implementations let the store key every collection the same way.

func (f ProcessedFile) EntityID() string  { return f.ID }
func (t Topic) EntityID() string          { return t.ID }
func (r BehaviorRule) EntityID() string   { return r.ID }
func (c ChatThread) EntityID() string     { return c.ID }
func (p Project) EntityID() string        { return p.ID }
func (m MeetingSummary) EntityID() string { return m.ID }
func (e EmailSummary) EntityID() string   { return e.ID }

// Clone implementations return values that share no slices with the receiver,
// so state handed out by the store cannot be changed through them.

func (f ProcessedFile) Clone() ProcessedFile {
	f.Topics = slices.Clone(f.Topics)
	return f
}

func (t Topic) Clone() Topic {
	t.Keywords = slices.Clone(t.Keywords)
	return t
}

func (r BehaviorRule) Clone() BehaviorRule { return r }
func (c ChatThread) Clone() ChatThread     { return c }
func (p Project) Clone() Project           { return p }

func (m MeetingSummary) Clone() MeetingSummary {
	m.Attendees = slices.Clone(m.Attendees)
	m.ActionItems = slices.Clone(m.ActionItems)
	return m
}

func (e EmailSummary) Clone() EmailSummary { return e }
