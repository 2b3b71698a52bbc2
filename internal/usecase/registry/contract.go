package registry

import (
	"context"

	"github.com/kailas-cloud/minewatch/internal/domain/site"
	"github.com/kailas-cloud/minewatch/internal/domain/usage"
)

// Store defines the persistence contract for the registry: load everything
// once at construction, overwrite everything after each mutation.
type Store interface {
	Load(ctx context.Context) (map[string][]usage.Record, error)
	Save(ctx context.Context, sites []site.Site) error
}
