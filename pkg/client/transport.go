package client

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/assistant/pkg/contract"
)

// Operation names one backend interaction.
type Operation string

const (
	OpUpload         Operation = "upload"
	OpIngest         Operation = "ingest"
	OpSearch         Operation = "search"
	OpGraph          Operation = "graph"
	OpThreads        Operation = "threads"
	OpHistory        Operation = "history"
	OpSend           Operation = "send"
	OpProjects       Operation = "projects"
	OpProject        Operation = "project"
	OpKanban         Operation = "kanban"
	OpTimeline       Operation = "timeline"
	OpDigest         Operation = "digest"
	OpWatchList      Operation = "watch.list"
	OpWatchAdd       Operation = "watch.add"
	OpWatchRemove    Operation = "watch.remove"
	OpScheduleUpdate Operation = "schedule.update"
)

// Operations lists every operation in a stable order.
var Operations = []Operation{
	OpUpload, OpIngest, OpSearch, OpGraph, OpThreads, OpHistory, OpSend,
	OpProjects, OpProject, OpKanban, OpTimeline, OpDigest,
	OpWatchList, OpWatchAdd, OpWatchRemove, OpScheduleUpdate,
}

// RequestSchema returns the contract schema of the operation's request body,
// or "" when the operation sends none.
func (op Operation) RequestSchema() string {
	switch op {
	case OpIngest, OpSearch, OpSend, OpWatchAdd, OpWatchRemove, OpScheduleUpdate:
		return string(op) + ".request"
	}
	return ""
}

// ResponseSchema returns the contract schema of the operation's response.
func (op Operation) ResponseSchema() string {
	if op == OpProject {
		return "project.response"
	}
	return string(op) + ".response"
}

// Upload is a file handed to the upload operation.
type Upload struct {
	Name    string
	Type    string
	Content []byte
}

// Request is what a Transport sends. Body is already validated JSON.
type Request struct {
	Op     Operation
	Params map[string]string
	Body   []byte
	Files  []Upload
}

// Transport performs one request. Verbs, paths and retries are its concern.
type Transport interface {
	RoundTrip(ctx context.Context, req Request) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) ([]byte, error)

// RoundTrip calls fn.
func (fn TransportFunc) RoundTrip(ctx context.Context, req Request) ([]byte, error) {
	return fn(ctx, req)
}

//go:embed fixtures/*.json
var fixtureFS embed.FS

// ErrNoFixture is returned for an operation without a fixture.
var ErrNoFixture = errors.New("no fixture for operation")

// FixtureTransport answers every operation from local fixtures.
// It backs mock data mode.
type FixtureTransport struct {
	mu        sync.Mutex
	overrides map[Operation][]byte
	calls     map[Operation]int
}

// NewFixtureTransport returns a transport serving the embedded fixtures.
func NewFixtureTransport() *FixtureTransport {
	return &FixtureTransport{
		overrides: make(map[Operation][]byte),
		calls:     make(map[Operation]int),
	}
}

// Set replaces the fixture for op.
func (t *FixtureTransport) Set(op Operation, payload []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overrides[op] = payload
}

// Calls returns how many times op was served.
func (t *FixtureTransport) Calls(op Operation) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[op]
}

// RoundTrip implements Transport.
func (t *FixtureTransport) RoundTrip(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.calls[req.Op]++
	payload, ok := t.overrides[req.Op]
	t.mu.Unlock()

	if !ok {
		var err error
		payload, err = Fixture(req.Op)
		if err != nil {
			return nil, err
		}
	}

	if req.Op == OpSend {
		return echoThread(payload, req.Body)
	}
	return payload, nil
}

// Fixture returns the embedded fixture for op.
func Fixture(op Operation) ([]byte, error) {
	data, err := fixtureFS.ReadFile("fixtures/" + string(op) + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoFixture, op)
	}
	return data, nil
}

// echoThread makes a send reply land in the thread the request named.
func echoThread(payload, body []byte) ([]byte, error) {
	req, err := contract.DecodeInto[contract.SendRequest]("send.request", body)
	if err != nil || req.NewThread() {
		return payload, nil
	}
	var reply map[string]any
	if err := json.Unmarshal(payload, &reply); err != nil {
		return payload, nil
	}
	reply["threadId"] = req.ThreadID
	return json.Marshal(reply)
}
