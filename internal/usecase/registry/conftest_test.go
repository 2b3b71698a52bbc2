package registry

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minewatch/internal/domain/site"
	"github.com/kailas-cloud/minewatch/internal/domain/usage"
)

// mockStore implements Store for tests.
type mockStore struct {
	loadFn func(ctx context.Context) (map[string][]usage.Record, error)
	saveFn func(ctx context.Context, sites []site.Site) error

	saves     int
	lastSaved []site.Site
}

func (m *mockStore) Load(ctx context.Context) (map[string][]usage.Record, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return map[string][]usage.Record{}, nil
}

func (m *mockStore) Save(ctx context.Context, sites []site.Site) error {
	m.saves++
	m.lastSaved = sites
	if m.saveFn != nil {
		return m.saveFn(ctx, sites)
	}
	return nil
}

func defaultLimits() []SiteLimit {
	return []SiteLimit{
		{Name: "Rosemont", WaterLimit: 6000},
		{Name: "Sierrita", WaterLimit: 27180},
		{Name: "Mission", WaterLimit: 12590},
	}
}

func makeService(t *testing.T, store Store) *Service {
	t.Helper()
	svc, err := New(context.Background(), store, defaultLimits(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func makeRecord(t *testing.T, date string, water, land float64) usage.Record {
	t.Helper()
	rec, err := usage.New(date, water, land)
	if err != nil {
		t.Fatalf("usage.New: %v", err)
	}
	return rec
}
