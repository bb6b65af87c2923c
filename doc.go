// Package assistant is the client-side state core of the Erika and Marvin
// assistant dashboards.
//
// Every change to application state goes through a Store as an Action and is
// computed by a pure reducer, so the same actions always produce the same
// state. Data crossing the backend boundary is checked against named contract
// schemas; a payload that does not match is rejected with a SchemaViolation
// before it can reach the store.
//
// Features:
//
//   - **Single writer**: Dispatch serializes transitions; Current returns an immutable value.
//   - **Ordered collections**: files, topics, rules, threads, projects, meetings and emails keep insertion order.
//   - **Contract layer**: Decode/Encode validate presence, types, closed enums and value constraints.
//   - **Persistence**: snapshots saved on every transition, restored on open, reloaded on external edits.
//   - **Two products**: Erika and Marvin share the container and differ only in seed data.
//
// Usage:
//
//	s := assistant.NewErika(assistant.WithLogger(logger))
//	s.Dispatch(assistant.AddTopic{Topic: core.Topic{ID: "5", Name: "HR"}})
//
//	thread, err := assistant.Decode("chatThread", payload)
package assistant
