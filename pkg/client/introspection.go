package client

import (
	"github.com/aretw0/introspection"
)

// GatewayState exposes call counters for observability.
type GatewayState struct {
	DataMode      string `json:"data_mode"`
	LiveTransport bool   `json:"live_transport"`
	Calls         uint64 `json:"calls"`
	Failures      uint64 `json:"transport_failures"`
	Rejected      uint64 `json:"rejected"`
}

// State implements introspection.Introspectable.
func (g *Gateway) State() any {
	return GatewayState{
		DataMode:      string(g.store.Current().DataMode),
		LiveTransport: g.live != nil,
		Calls:         g.calls.Load(),
		Failures:      g.failures.Load(),
		Rejected:      g.rejected.Load(),
	}
}

// ComponentType implements introspection.Component.
func (g *Gateway) ComponentType() string {
	return "gateway"
}

var _ introspection.Introspectable = (*Gateway)(nil)
var _ introspection.Component = (*Gateway)(nil)
