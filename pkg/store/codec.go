package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/assistant/pkg/contract"
	"github.com/aretw0/assistant/pkg/core"
)

// envelope is the wire form of an action: {"type": "...", "payload": ...}.
type envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type idPayload struct {
	ID string `json:"id"`
}

type updatePayload struct {
	ID      string          `json:"id"`
	Updates json.RawMessage `json:"updates"`
}

type updateWire[P any] struct {
	ID      string `json:"id"`
	Updates P      `json:"updates"`
}

type digestPayload struct {
	Meetings []core.MeetingSummary `json:"meetings"`
	Emails   []core.EmailSummary   `json:"emails"`
}

type digestWire struct {
	Meetings json.RawMessage `json:"meetings"`
	Emails   json.RawMessage `json:"emails"`
}

type modePayload struct {
	Mode core.DataMode `json:"mode"`
}

type parser func(payload json.RawMessage) (Action, error)

var parsers = map[ActionType]parser{
	ActionAddFile: func(p json.RawMessage) (Action, error) {
		f, err := entity[core.ProcessedFile]("file", p)
		return AddFile{File: f}, err
	},
	ActionUpdateFile: func(p json.RawMessage) (Action, error) {
		id, patch, err := update[core.FilePatch]("file.patch", p)
		return UpdateFile{ID: id, Updates: patch}, err
	},
	ActionDeleteFile: func(p json.RawMessage) (Action, error) {
		id, err := deletion(p)
		return DeleteFile{ID: id}, err
	},

	ActionAddTopic: func(p json.RawMessage) (Action, error) {
		t, err := entity[core.Topic]("topic", p)
		return AddTopic{Topic: t}, err
	},
	ActionUpdateTopic: func(p json.RawMessage) (Action, error) {
		id, patch, err := update[core.TopicPatch]("topic.patch", p)
		return UpdateTopic{ID: id, Updates: patch}, err
	},
	ActionDeleteTopic: func(p json.RawMessage) (Action, error) {
		id, err := deletion(p)
		return DeleteTopic{ID: id}, err
	},

	ActionAddBehaviorRule: func(p json.RawMessage) (Action, error) {
		r, err := entity[core.BehaviorRule]("behaviorRule", p)
		return AddBehaviorRule{Rule: r}, err
	},
	ActionUpdateBehaviorRule: func(p json.RawMessage) (Action, error) {
		id, patch, err := update[core.BehaviorRulePatch]("behaviorRule.patch", p)
		return UpdateBehaviorRule{ID: id, Updates: patch}, err
	},
	ActionDeleteBehaviorRule: func(p json.RawMessage) (Action, error) {
		id, err := deletion(p)
		return DeleteBehaviorRule{ID: id}, err
	},

	ActionAddChatThread: func(p json.RawMessage) (Action, error) {
		t, err := entity[core.ChatThread]("chatThread", p)
		return AddChatThread{Thread: t}, err
	},
	ActionUpdateChatThread: func(p json.RawMessage) (Action, error) {
		id, patch, err := update[core.ChatThreadPatch]("chatThread.patch", p)
		return UpdateChatThread{ID: id, Updates: patch}, err
	},
	ActionDeleteChatThread: func(p json.RawMessage) (Action, error) {
		id, err := deletion(p)
		return DeleteChatThread{ID: id}, err
	},

	ActionSetChatThreads: func(p json.RawMessage) (Action, error) {
		items, err := list[core.ChatThread]("chatThread", p)
		return SetChatThreads{Threads: items}, err
	},
	ActionSetProjects: func(p json.RawMessage) (Action, error) {
		items, err := list[core.Project]("project", p)
		return SetProjects{Projects: items}, err
	},
	ActionSetMeetings: func(p json.RawMessage) (Action, error) {
		items, err := list[core.MeetingSummary]("meeting", p)
		return SetMeetings{Meetings: items}, err
	},
	ActionSetEmails: func(p json.RawMessage) (Action, error) {
		items, err := list[core.EmailSummary]("email", p)
		return SetEmails{Emails: items}, err
	},
	ActionSetDigest: func(p json.RawMessage) (Action, error) {
		var d digestWire
		if err := json.Unmarshal(p, &d); err != nil {
			return nil, payloadViolation("digest", "$", "object {meetings, emails}", err.Error())
		}
		if len(d.Meetings) == 0 {
			return nil, payloadViolation("digest", "$.meetings", "array", "missing")
		}
		if len(d.Emails) == 0 {
			return nil, payloadViolation("digest", "$.emails", "array", "missing")
		}
		meetings, err := list[core.MeetingSummary]("meeting", d.Meetings)
		if err != nil {
			return nil, rebase(err, "$.meetings")
		}
		emails, err := list[core.EmailSummary]("email", d.Emails)
		if err != nil {
			return nil, rebase(err, "$.emails")
		}
		return SetDigest{Meetings: meetings, Emails: emails}, nil
	},

	ActionLoadState: func(p json.RawMessage) (Action, error) {
		snap, err := entity[core.Snapshot]("state.snapshot", p)
		return LoadState{Snapshot: snap}, err
	},
	ActionSetDataMode: func(p json.RawMessage) (Action, error) {
		shape := contract.Object(contract.Req("mode", contract.Enum(core.DataModes...)))
		if v := checkPayload(shape, p); v != nil {
			return nil, v
		}
		var m modePayload
		if err := json.Unmarshal(p, &m); err != nil {
			return nil, payloadViolation("SET_DATA_MODE", "$.payload", "object {mode}", err.Error())
		}
		return SetDataMode{Mode: m.Mode}, nil
	},
}

// ParseAction decodes an action envelope, validating its payload against the
// contract schema of the entity it carries. Nothing is dispatched on failure.
func ParseAction(raw []byte) (Action, error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&env); err != nil {
		return nil, payloadViolation("action", "$", "object {type, payload}", err.Error())
	}
	if env.Type == "" {
		return nil, payloadViolation("action", "$.type", "action type", "missing")
	}
	parse, ok := parsers[env.Type]
	if !ok {
		return nil, payloadViolation("action", "$.type", "known action type", string(env.Type))
	}
	if len(env.Payload) == 0 {
		return nil, payloadViolation(string(env.Type), "$.payload", "payload", "missing")
	}

	a, err := parse(env.Payload)
	if err != nil {
		return nil, rebase(err, "$.payload")
	}
	return a, nil
}

// MarshalAction encodes a in the envelope format read by ParseAction.
func MarshalAction(a Action) ([]byte, error) {
	var payload any
	switch a := a.(type) {
	case AddFile:
		payload = a.File
	case UpdateFile:
		payload = updateWire[core.FilePatch]{ID: a.ID, Updates: a.Updates}
	case DeleteFile:
		payload = idPayload{ID: a.ID}
	case AddTopic:
		payload = a.Topic
	case UpdateTopic:
		payload = updateWire[core.TopicPatch]{ID: a.ID, Updates: a.Updates}
	case DeleteTopic:
		payload = idPayload{ID: a.ID}
	case AddBehaviorRule:
		payload = a.Rule
	case UpdateBehaviorRule:
		payload = updateWire[core.BehaviorRulePatch]{ID: a.ID, Updates: a.Updates}
	case DeleteBehaviorRule:
		payload = idPayload{ID: a.ID}
	case AddChatThread:
		payload = a.Thread
	case UpdateChatThread:
		payload = updateWire[core.ChatThreadPatch]{ID: a.ID, Updates: a.Updates}
	case DeleteChatThread:
		payload = idPayload{ID: a.ID}
	case SetChatThreads:
		payload = nonNil(a.Threads)
	case SetProjects:
		payload = nonNil(a.Projects)
	case SetMeetings:
		payload = nonNil(a.Meetings)
	case SetEmails:
		payload = nonNil(a.Emails)
	case SetDigest:
		payload = digestPayload{Meetings: nonNil(a.Meetings), Emails: nonNil(a.Emails)}
	case LoadState:
		payload = a.Snapshot
	case SetDataMode:
		payload = modePayload{Mode: a.Mode}
	default:
		return nil, fmt.Errorf("store: cannot marshal action %T", a)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", a.Type(), err)
	}
	return json.Marshal(envelope{Type: a.Type(), Payload: raw})
}

func entity[T any](schema string, p json.RawMessage) (T, error) {
	return contract.DecodeInto[T](schema, p)
}

func update[P any](schema string, p json.RawMessage) (string, P, error) {
	var zero P
	var u updatePayload
	if err := json.Unmarshal(p, &u); err != nil {
		return "", zero, payloadViolation(schema, "$", "object {id, updates}", err.Error())
	}
	if u.ID == "" {
		return "", zero, payloadViolation(schema, "$.id", "non-empty string", "missing")
	}
	if len(u.Updates) == 0 {
		return "", zero, payloadViolation(schema, "$.updates", "object", "missing")
	}
	patch, err := contract.DecodeInto[P](schema, u.Updates)
	if err != nil {
		return "", zero, rebase(err, "$.updates")
	}
	return u.ID, patch, nil
}

func deletion(p json.RawMessage) (string, error) {
	var d idPayload
	if err := json.Unmarshal(p, &d); err != nil {
		return "", payloadViolation("delete", "$", "object {id}", err.Error())
	}
	if d.ID == "" {
		return "", payloadViolation("delete", "$.id", "non-empty string", "missing")
	}
	return d.ID, nil
}

func list[T any](schema string, p json.RawMessage) ([]T, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(p, &raws); err != nil {
		return nil, payloadViolation(schema, "$", "array", err.Error())
	}
	items := make([]T, 0, len(raws))
	for i, r := range raws {
		item, err := contract.DecodeInto[T](schema, r)
		if err != nil {
			return nil, rebase(err, fmt.Sprintf("$[%d]", i))
		}
		items = append(items, item)
	}
	return items, nil
}

func checkPayload(shape contract.Shape, p json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return payloadViolation("action", "$", "JSON document", err.Error())
	}
	if v := shape.Check(tree, "$"); v != nil {
		v.Schema = "action"
		return v
	}
	return nil
}

func payloadViolation(schema, path, expected, got string) *contract.SchemaViolation {
	return &contract.SchemaViolation{Schema: schema, Path: path, Expected: expected, Got: got}
}

// rebase prefixes the path of a violation with the location of the nested payload.
func rebase(err error, prefix string) error {
	v, ok := contract.AsViolation(err)
	if !ok {
		return err
	}
	out := *v
	out.Path = prefix + strings.TrimPrefix(v.Path, "$")
	return &out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
