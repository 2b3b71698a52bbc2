package registry

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minewatch/internal/domain"
	"github.com/kailas-cloud/minewatch/internal/domain/site"
	"github.com/kailas-cloud/minewatch/internal/domain/usage"
)

func TestNew_RequiresSites(t *testing.T) {
	_, err := New(context.Background(), &mockStore{}, nil, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty site configuration")
	}
}

func TestNew_RejectsDuplicateSites(t *testing.T) {
	limits := []SiteLimit{
		{Name: "Rosemont", WaterLimit: 6000},
		{Name: "Rosemont", WaterLimit: 100},
	}
	_, err := New(context.Background(), &mockStore{}, limits, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for duplicate site")
	}
}

func TestNew_LoadsPersistedRecords(t *testing.T) {
	store := &mockStore{
		loadFn: func(context.Context) (map[string][]usage.Record, error) {
			return map[string][]usage.Record{
				"Rosemont": {usage.Reconstruct("2024-01-01", 5000, 10)},
			}, nil
		},
	}
	svc := makeService(t, store)

	report, err := svc.Report(context.Background(), "Rosemont")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.TotalUsed != 5000 {
		t.Errorf("expected total 5000, got %f", report.TotalUsed)
	}
	if report.Remaining != 1000 {
		t.Errorf("expected remaining 1000, got %f", report.Remaining)
	}
}

func TestNew_DropsUnconfiguredSiteGroups(t *testing.T) {
	store := &mockStore{
		loadFn: func(context.Context) (map[string][]usage.Record, error) {
			return map[string][]usage.Record{
				"Twin Buttes": {usage.Reconstruct("2024-01-01", 100, 1)},
			}, nil
		},
	}
	svc := makeService(t, store)

	if _, err := svc.Report(context.Background(), "Twin Buttes"); !errors.Is(err, domain.ErrUnknownSite) {
		t.Fatalf("expected ErrUnknownSite for dropped group, got %v", err)
	}
}

func TestNew_RejectsOverLimitFile(t *testing.T) {
	store := &mockStore{
		loadFn: func(context.Context) (map[string][]usage.Record, error) {
			return map[string][]usage.Record{
				"Rosemont": {usage.Reconstruct("2024-01-01", 7000, 10)},
			}, nil
		},
	}
	_, err := New(context.Background(), store, defaultLimits(), zap.NewNop())
	if err == nil {
		t.Fatal("expected error for over-limit persisted data")
	}
}

func TestRecordUsage_SuccessPersistsWholeStore(t *testing.T) {
	store := &mockStore{}
	svc := makeService(t, store)

	conf, err := svc.RecordUsage(context.Background(), "Rosemont", 5000, 10, "2024-01-01")
	if err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if conf.Remaining != 1000 {
		t.Errorf("expected remaining 1000, got %f", conf.Remaining)
	}
	if conf.TotalUsed != 5000 {
		t.Errorf("expected total 5000, got %f", conf.TotalUsed)
	}
	if store.saves != 1 {
		t.Fatalf("expected 1 save, got %d", store.saves)
	}
	// Full-state dump: every configured site is in the snapshot, sorted.
	if len(store.lastSaved) != 3 {
		t.Fatalf("expected 3 sites in snapshot, got %d", len(store.lastSaved))
	}
	names := []string{"Mission", "Rosemont", "Sierrita"}
	for i, want := range names {
		if got := store.lastSaved[i].Name(); got != want {
			t.Errorf("snapshot[%d]: expected %s, got %s", i, want, got)
		}
	}
}

func TestRecordUsage_LimitExceededNoStateChange(t *testing.T) {
	store := &mockStore{}
	svc := makeService(t, store)

	if _, err := svc.RecordUsage(context.Background(), "Rosemont", 5000, 10, "2024-01-01"); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	saves := store.saves

	_, err := svc.RecordUsage(context.Background(), "Rosemont", 1500, 5, "2024-02-01")
	if !errors.Is(err, domain.ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if store.saves != saves {
		t.Errorf("rejected record must not be persisted")
	}

	report, err := svc.Report(context.Background(), "Rosemont")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Remaining != 1000 {
		t.Errorf("expected remaining still 1000, got %f", report.Remaining)
	}
	if len(report.Records) != 1 {
		t.Errorf("expected 1 record, got %d", len(report.Records))
	}
}

func TestRecordUsage_UnknownSiteNoSave(t *testing.T) {
	store := &mockStore{}
	svc := makeService(t, store)

	_, err := svc.RecordUsage(context.Background(), "Unknown", 10, 10, "2024-01-01")
	if !errors.Is(err, domain.ErrUnknownSite) {
		t.Fatalf("expected ErrUnknownSite, got %v", err)
	}
	if store.saves != 0 {
		t.Errorf("expected no save, got %d", store.saves)
	}
}

func TestRecordUsage_InvalidRecordNoSave(t *testing.T) {
	store := &mockStore{}
	svc := makeService(t, store)

	_, err := svc.RecordUsage(context.Background(), "Rosemont", -10, 10, "2024-01-01")
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if store.saves != 0 {
		t.Errorf("expected no save, got %d", store.saves)
	}
}

func TestRecordUsage_SaveFailureNotCommitted(t *testing.T) {
	saveErr := errors.New("disk full")
	store := &mockStore{
		saveFn: func(context.Context, []site.Site) error { return saveErr },
	}
	svc := makeService(t, store)

	_, err := svc.RecordUsage(context.Background(), "Rosemont", 5000, 10, "2024-01-01")
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected save error surfaced, got %v", err)
	}

	// Memory stays at the last durably saved state.
	report, err := svc.Report(context.Background(), "Rosemont")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.Records) != 0 {
		t.Errorf("expected no committed records after failed save, got %d", len(report.Records))
	}
	if report.Remaining != 6000 {
		t.Errorf("expected remaining 6000, got %f", report.Remaining)
	}
}

func TestReport_EmptySite(t *testing.T) {
	svc := makeService(t, &mockStore{})

	report, err := svc.Report(context.Background(), "Sierrita")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.Records) != 0 {
		t.Errorf("expected zero records, got %d", len(report.Records))
	}
	if report.Remaining != 27180 {
		t.Errorf("expected remaining 27180, got %f", report.Remaining)
	}
	want := "Total water used: 0.00 acre-feet, Water remaining: 27180.00 acre-feet"
	if got := report.Summary(); got != want {
		t.Errorf("unexpected summary:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestReport_UnknownSite(t *testing.T) {
	svc := makeService(t, &mockStore{})

	if _, err := svc.Report(context.Background(), "Unknown"); !errors.Is(err, domain.ErrUnknownSite) {
		t.Fatalf("expected ErrUnknownSite, got %v", err)
	}
}

func TestSites_SortedStatuses(t *testing.T) {
	svc := makeService(t, &mockStore{})

	if _, err := svc.RecordUsage(context.Background(), "Mission", 90, 2, "2024-01-01"); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}

	statuses := svc.Sites(context.Background())
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if statuses[0].Site != "Mission" || statuses[1].Site != "Rosemont" || statuses[2].Site != "Sierrita" {
		t.Errorf("expected sorted order, got %+v", statuses)
	}
	if statuses[0].Records != 1 || statuses[0].Remaining != 12500 {
		t.Errorf("unexpected Mission status: %+v", statuses[0])
	}
}

func TestScenario_SequentialAccumulation(t *testing.T) {
	store := &mockStore{}
	svc := makeService(t, store)
	ctx := context.Background()

	amounts := []float64{1000, 2000, 2500, 500}
	var total float64
	for i, w := range amounts {
		conf, err := svc.RecordUsage(ctx, "Rosemont", w, 1, "2024-01-01")
		if err != nil {
			t.Fatalf("RecordUsage %d: %v", i, err)
		}
		total += w
		if conf.TotalUsed != total {
			t.Errorf("after %d records: expected total %f, got %f", i+1, total, conf.TotalUsed)
		}
	}
	if store.saves != len(amounts) {
		t.Errorf("expected %d saves, got %d", len(amounts), store.saves)
	}
}
