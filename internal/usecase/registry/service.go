package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minewatch/internal/domain"
	"github.com/kailas-cloud/minewatch/internal/domain/site"
	"github.com/kailas-cloud/minewatch/internal/domain/usage"
	"github.com/kailas-cloud/minewatch/internal/metrics"
)

// SiteLimit configures one site and its annual water allowance.
type SiteLimit struct {
	Name       string
	WaterLimit float64
}

// Confirmation is the result of a successfully recorded usage entry.
type Confirmation struct {
	Site      string
	Record    usage.Record
	TotalUsed float64
	Remaining float64
}

// Report is the query view of one site's usage history.
type Report struct {
	Site       string
	WaterLimit float64
	TotalUsed  float64
	Remaining  float64
	Records    []usage.Record
}

// Summary renders the report's closing display line.
func (r *Report) Summary() string {
	return fmt.Sprintf("Total water used: %.2f acre-feet, Water remaining: %.2f acre-feet",
		r.TotalUsed, r.Remaining)
}

// Status is the per-site line of a registry listing.
type Status struct {
	Site       string
	WaterLimit float64
	TotalUsed  float64
	Remaining  float64
	Records    int
}

// Service owns the fixed site map and routes record/query requests. Sites
// are loaded from the store once at construction; every successful mutation
// persists the whole store before it is committed in memory, so a failed
// save leaves memory at the last durably saved state.
type Service struct {
	mu     sync.Mutex // guards sites; the file itself stays last-writer-wins across processes
	store  Store
	sites  map[string]site.Site
	names  []string // sorted, fixes the save order
	logger *zap.Logger
}

// New creates the registry from the configured site limits and loads the
// persisted usage file. Groups for unconfigured site names are dropped with
// a warning; malformed or invariant-violating data fails the whole load.
func New(ctx context.Context, store Store, limits []SiteLimit, logger *zap.Logger) (*Service, error) {
	if len(limits) == 0 {
		return nil, fmt.Errorf("at least one site must be configured")
	}

	sites := make(map[string]site.Site, len(limits))
	names := make([]string, 0, len(limits))
	for _, l := range limits {
		if _, ok := sites[l.Name]; ok {
			return nil, fmt.Errorf("duplicate site %q in configuration", l.Name)
		}
		st, err := site.New(l.Name, l.WaterLimit)
		if err != nil {
			return nil, fmt.Errorf("configure site: %w", err)
		}
		sites[l.Name] = st
		names = append(names, l.Name)
	}
	sort.Strings(names)

	s := &Service{store: store, sites: sites, names: names, logger: logger}
	if err := s.loadAll(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) loadAll(ctx context.Context) error {
	groups, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load usage data: %w", err)
	}

	for name, recs := range groups {
		configured, ok := s.sites[name]
		if !ok {
			s.logger.Warn("Dropping usage records for unconfigured site",
				zap.String("site", name),
				zap.Int("records", len(recs)),
			)
			continue
		}

		hydrated := site.Reconstruct(name, configured.WaterLimit(), recs)
		if hydrated.WaterRemaining() < 0 {
			return fmt.Errorf("load usage data: site %s holds %.2f acre-feet against a limit of %.2f",
				name, hydrated.TotalWaterUsed(), hydrated.WaterLimit())
		}
		s.sites[name] = hydrated
	}

	for _, name := range s.names {
		st := s.sites[name]
		metrics.WaterRemaining.WithLabelValues(name).Set(st.WaterRemaining())
		s.logger.Info("Site loaded",
			zap.String("site", name),
			zap.Float64("water_limit", st.WaterLimit()),
			zap.Float64("water_used", st.TotalWaterUsed()),
			zap.Int("records", len(st.Records())),
		)
	}
	return nil
}

// RecordUsage validates and appends one usage entry for the named site,
// persisting the entire store on success. Fails with ErrUnknownSite,
// ErrInvalidRecord, ErrLimitExceeded, or the save error; in every failure
// case neither memory nor the file changes.
func (s *Service) RecordUsage(ctx context.Context, siteName string, water, land float64, date string) (Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sites[siteName]
	if !ok {
		return Confirmation{}, fmt.Errorf("%w: %s", domain.ErrUnknownSite, siteName)
	}

	rec, err := usage.New(date, water, land)
	if err != nil {
		return Confirmation{}, fmt.Errorf("validate record: %w: %w", domain.ErrInvalidRecord, err)
	}

	updated, err := current.AddUsage(rec)
	if err != nil {
		metrics.UsageRejectionsTotal.WithLabelValues(siteName).Inc()
		return Confirmation{}, fmt.Errorf("record usage: %w", err)
	}

	if err := s.store.Save(ctx, s.snapshotWith(updated)); err != nil {
		return Confirmation{}, fmt.Errorf("persist usage: %w", err)
	}
	s.sites[siteName] = updated

	metrics.UsageRecordsTotal.WithLabelValues(siteName).Inc()
	metrics.WaterRemaining.WithLabelValues(siteName).Set(updated.WaterRemaining())
	s.logger.Info("Usage recorded",
		zap.String("site", siteName),
		zap.String("date", date),
		zap.Float64("water", water),
		zap.Float64("land", land),
		zap.Float64("remaining", updated.WaterRemaining()),
	)

	return Confirmation{
		Site:      siteName,
		Record:    rec,
		TotalUsed: updated.TotalWaterUsed(),
		Remaining: updated.WaterRemaining(),
	}, nil
}

// Report returns the named site's usage history and totals. An empty site
// reports zero records with the full allowance remaining.
func (s *Service) Report(_ context.Context, siteName string) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sites[siteName]
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", domain.ErrUnknownSite, siteName)
	}
	return Report{
		Site:       st.Name(),
		WaterLimit: st.WaterLimit(),
		TotalUsed:  st.TotalWaterUsed(),
		Remaining:  st.WaterRemaining(),
		Records:    st.Records(),
	}, nil
}

// Sites returns the status of every configured site in sorted name order.
func (s *Service) Sites(_ context.Context) []Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Status, 0, len(s.names))
	for _, name := range s.names {
		st := s.sites[name]
		out = append(out, Status{
			Site:       st.Name(),
			WaterLimit: st.WaterLimit(),
			TotalUsed:  st.TotalWaterUsed(),
			Remaining:  st.WaterRemaining(),
			Records:    len(st.Records()),
		})
	}
	return out
}

// snapshotWith assembles the full-store save order with one site replaced
// by its updated value. Callers hold the lock.
func (s *Service) snapshotWith(updated site.Site) []site.Site {
	snapshot := make([]site.Site, 0, len(s.names))
	for _, name := range s.names {
		if name == updated.Name() {
			snapshot = append(snapshot, updated)
			continue
		}
		snapshot = append(snapshot, s.sites[name])
	}
	return snapshot
}
