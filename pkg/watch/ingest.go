package watch

import (
	"context"

	"github.com/aretw0/assistant/pkg/client"
)

// IngestInto returns a Handler that ingests each file into collection through g.
func IngestInto(g *client.Gateway, collection string) Handler {
	return func(ctx context.Context, path string) error {
		_, err := g.IngestLocal(ctx, collection, path)
		return err
	}
}
