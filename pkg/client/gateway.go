// Package client talks to the assistant backend on behalf of a store.
//
// Every operation follows the same path: the request is encoded against its
// contract schema, handed to a Transport, and the response is decoded against
// the response schema. Only a response that decodes cleanly is dispatched into
// the store; a SchemaViolation or transport failure leaves state untouched.
//
// The transport is picked per call from the store's data mode: mock uses the
// embedded fixtures, live uses the transport given with WithTransport.
package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/aretw0/assistant/pkg/contract"
	"github.com/aretw0/assistant/pkg/core"
	"github.com/aretw0/assistant/pkg/store"
)

var (
	// ErrTransport wraps every failure reported by a Transport.
	ErrTransport = errors.New("transport failed")
	// ErrNoTransport is returned in live mode when no transport is configured.
	ErrNoTransport = errors.New("no live transport configured")
	// ErrIncompleteUpload is returned when the backend saved fewer files than sent.
	ErrIncompleteUpload = errors.New("upload incomplete")
)

// Gateway runs backend operations and feeds their results into a store.
type Gateway struct {
	store    *store.Store
	live     Transport
	fixtures Transport
	logger   *zap.Logger
	clock    func() time.Time
	newID    func() string

	calls    atomic.Uint64
	failures atomic.Uint64
	rejected atomic.Uint64
}

// New returns a gateway dispatching into s.
func New(s *store.Store, opts ...Option) *Gateway {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Gateway{
		store:    s,
		live:     o.live,
		fixtures: o.fixtures,
		logger:   o.logger,
		clock:    o.clock,
		newID:    o.newID,
	}
}

// Store returns the store the gateway dispatches into.
func (g *Gateway) Store() *store.Store {
	return g.store
}

func (g *Gateway) transport() (Transport, core.DataMode, error) {
	mode := g.store.Current().DataMode
	if mode == core.DataModeLive {
		if g.live == nil {
			return nil, mode, ErrNoTransport
		}
		return g.live, mode, nil
	}
	return g.fixtures, mode, nil
}

// call performs op and decodes the response into Resp.
func call[Resp any](ctx context.Context, g *Gateway, op Operation, params map[string]string, body any, files []Upload) (Resp, error) {
	var zero Resp
	g.calls.Add(1)

	var raw []byte
	if schema := op.RequestSchema(); schema != "" {
		var err error
		raw, err = contract.Encode(schema, body)
		if err != nil {
			g.rejected.Add(1)
			return zero, err
		}
	}

	t, mode, err := g.transport()
	if err != nil {
		g.failures.Add(1)
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	logger := g.logger.With(zap.String("op", string(op)), zap.String("data_mode", string(mode)))
	logger.Debug("request")

	payload, err := t.RoundTrip(ctx, Request{Op: op, Params: params, Body: raw, Files: files})
	if err != nil {
		g.failures.Add(1)
		logger.Warn("transport error", zap.Error(err))
		return zero, fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	resp, err := contract.DecodeInto[Resp](op.ResponseSchema(), payload)
	if err != nil {
		g.rejected.Add(1)
		logger.Warn("response rejected", zap.Error(err))
		return zero, err
	}
	return resp, nil
}

// LocalFile is a file picked by the user for upload.
type LocalFile struct {
	Name    string
	Type    string
	Content []byte
}

// UploadResult pairs the backend acknowledgement with the ids the files got in the store.
type UploadResult struct {
	contract.UploadResponse
	FileIDs []string
}

// Upload adds each file to the store as processing, sends them, and then
// marks them processed or error depending on the outcome. If ctx is done
// before the response arrives, the files are left as processing.
func (g *Gateway) Upload(ctx context.Context, files ...LocalFile) (UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return UploadResult{}, err
	}
	topics := g.store.Current().Topics.Items()
	now := g.clock()

	ids := make([]string, len(files))
	uploads := make([]Upload, len(files))
	for i, f := range files {
		ids[i] = g.newID()
		uploads[i] = Upload(f)
		g.store.Dispatch(store.AddFile{File: core.ProcessedFile{
			ID:        ids[i],
			Name:      f.Name,
			Content:   string(f.Content),
			Topics:    store.MatchTopics(string(f.Content), topics),
			Timestamp: now,
			Status:    core.FileProcessing,
			Type:      f.Type,
			Size:      int64(len(f.Content)),
		}})
	}

	resp, err := call[contract.UploadResponse](ctx, g, OpUpload, nil, nil, uploads)
	if err == nil && resp.FilesSaved < len(files) {
		err = fmt.Errorf("%w: %d of %d files saved", ErrIncompleteUpload, resp.FilesSaved, len(files))
	}

	if ctx.Err() != nil {
		// Abandoned: the files stay processing and nothing more is dispatched.
		return UploadResult{FileIDs: ids}, err
	}
	status := core.FileProcessed
	if err != nil {
		status = core.FileError
	}
	for _, id := range ids {
		g.store.Dispatch(store.UpdateFile{ID: id, Updates: core.FilePatch{Status: core.Ptr(status)}})
	}
	return UploadResult{UploadResponse: resp, FileIDs: ids}, err
}

// Ingest asks the backend to index paths into collection.
func (g *Gateway) Ingest(ctx context.Context, collection string, paths ...string) (contract.IngestResponse, error) {
	req := contract.IngestRequest{Paths: paths, Collection: collection}
	return call[contract.IngestResponse](ctx, g, OpIngest, nil, req, nil)
}

// IngestLocal records a file found on disk and ingests it. The returned id
// names the file in the store, which ends up processed or error.
func (g *Gateway) IngestLocal(ctx context.Context, collection, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	id := g.newID()
	content := string(data)
	g.store.Dispatch(store.AddFile{File: core.ProcessedFile{
		ID:        id,
		Name:      filepath.Base(path),
		Content:   content,
		Topics:    store.MatchTopics(content, g.store.Current().Topics.Items()),
		Timestamp: g.clock(),
		Status:    core.FileProcessing,
		Type:      strings.TrimPrefix(filepath.Ext(path), "."),
		Size:      int64(len(data)),
	}})

	_, err = g.Ingest(ctx, collection, path)
	if ctx.Err() != nil {
		return id, err
	}
	status := core.FileProcessed
	if err != nil {
		status = core.FileError
	}
	g.store.Dispatch(store.UpdateFile{ID: id, Updates: core.FilePatch{Status: core.Ptr(status)}})
	return id, err
}

// Search queries the knowledge base. Results keep the server's order.
func (g *Gateway) Search(ctx context.Context, query string, filters map[string]string) (contract.SearchResponse, error) {
	req := contract.SearchRequest{Query: query, Filters: filters}
	return call[contract.SearchResponse](ctx, g, OpSearch, nil, req, nil)
}

// Graph fetches the knowledge-base graph.
func (g *Gateway) Graph(ctx context.Context) (contract.GraphResponse, error) {
	return call[contract.GraphResponse](ctx, g, OpGraph, nil, nil, nil)
}

// SyncThreads replaces the store's threads with the server's list.
func (g *Gateway) SyncThreads(ctx context.Context) ([]core.ChatThread, error) {
	resp, err := call[contract.ThreadsResponse](ctx, g, OpThreads, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	g.store.Dispatch(store.SetChatThreads{Threads: resp.Threads})
	return resp.Threads, nil
}

// History fetches a thread's messages.
func (g *Gateway) History(ctx context.Context, threadID string) (contract.HistoryResponse, error) {
	return call[contract.HistoryResponse](ctx, g, OpHistory, map[string]string{"threadId": threadID}, nil, nil)
}

// Send posts message to threadID, or to a new thread when threadID is empty.
// A new thread is added to the store under the id the server assigned; an
// existing one has its updatedAt bumped.
func (g *Gateway) Send(ctx context.Context, threadID, message string) (contract.SendResponse, error) {
	req := contract.SendRequest{ThreadID: threadID, Message: message}
	resp, err := call[contract.SendResponse](ctx, g, OpSend, nil, req, nil)
	if err != nil {
		return resp, err
	}

	now := g.clock()
	if req.NewThread() {
		if resp.ThreadID == "" {
			g.rejected.Add(1)
			return resp, &contract.SchemaViolation{
				Schema:   OpSend.ResponseSchema(),
				Path:     "$.threadId",
				Expected: "thread id for a new thread",
				Got:      "missing",
			}
		}
		g.store.Dispatch(store.AddChatThread{Thread: core.ChatThread{
			ID:        resp.ThreadID,
			Name:      threadName(message),
			UpdatedAt: now,
		}})
		return resp, nil
	}

	g.store.Dispatch(store.UpdateChatThread{ID: threadID, Updates: core.ChatThreadPatch{UpdatedAt: &now}})
	return resp, nil
}

const threadNameLimit = 40

// threadName derives a thread title from its first message.
func threadName(message string) string {
	name := strings.Join(strings.Fields(message), " ")
	runes := []rune(name)
	if len(runes) > threadNameLimit {
		name = strings.TrimSpace(string(runes[:threadNameLimit])) + "…"
	}
	return name
}

// SyncProjects replaces the store's projects with the server's list.
func (g *Gateway) SyncProjects(ctx context.Context) ([]core.Project, error) {
	resp, err := call[contract.ProjectsResponse](ctx, g, OpProjects, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	g.store.Dispatch(store.SetProjects{Projects: resp.Projects})
	return resp.Projects, nil
}

// ProjectDetail fetches one project with its files and tasks.
func (g *Gateway) ProjectDetail(ctx context.Context, projectID string) (contract.ProjectDetailResponse, error) {
	return call[contract.ProjectDetailResponse](ctx, g, OpProject, map[string]string{"projectId": projectID}, nil, nil)
}

// Kanban fetches a project's board.
func (g *Gateway) Kanban(ctx context.Context, projectID string) (contract.KanbanResponse, error) {
	return call[contract.KanbanResponse](ctx, g, OpKanban, map[string]string{"projectId": projectID}, nil, nil)
}

// Timeline fetches a project's timeline.
func (g *Gateway) Timeline(ctx context.Context, projectID string) (contract.TimelineResponse, error) {
	return call[contract.TimelineResponse](ctx, g, OpTimeline, map[string]string{"projectId": projectID}, nil, nil)
}

// SyncDigest loads the daily digest and replaces meetings and emails with it.
func (g *Gateway) SyncDigest(ctx context.Context) (contract.DigestResponse, error) {
	resp, err := call[contract.DigestResponse](ctx, g, OpDigest, nil, nil, nil)
	if err != nil {
		return resp, err
	}
	g.store.Dispatch(store.SetDigest{Meetings: resp.Meetings, Emails: resp.Emails})
	return resp, nil
}

// Watches lists the folders the backend watches.
func (g *Gateway) Watches(ctx context.Context) ([]contract.WatchedFolder, error) {
	resp, err := call[contract.WatchListResponse](ctx, g, OpWatchList, nil, nil, nil)
	return resp.Folders, err
}

// AddWatch registers a folder. An empty schedule leaves it event-driven only.
func (g *Gateway) AddWatch(ctx context.Context, path, collection, schedule string) (contract.WatchedFolder, error) {
	req := contract.WatchAddRequest{Path: path, Collection: collection, Schedule: schedule}
	resp, err := call[contract.WatchAddResponse](ctx, g, OpWatchAdd, nil, req, nil)
	return resp.Folder, err
}

// RemoveWatch unregisters a folder and reports whether it was registered.
func (g *Gateway) RemoveWatch(ctx context.Context, path string) (bool, error) {
	resp, err := call[contract.WatchRemoveResponse](ctx, g, OpWatchRemove, nil, contract.WatchRemoveRequest{Path: path}, nil)
	return resp.Removed, err
}

// UpdateSchedule changes a folder's cron schedule.
func (g *Gateway) UpdateSchedule(ctx context.Context, path, schedule string) (contract.WatchedFolder, error) {
	req := contract.ScheduleUpdateRequest{Path: path, Schedule: schedule}
	resp, err := call[contract.ScheduleUpdateResponse](ctx, g, OpScheduleUpdate, nil, req, nil)
	return resp.Folder, err
}
