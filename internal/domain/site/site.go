package site

import (
	"fmt"

	"github.com/kailas-cloud/minewatch/internal/domain"
	"github.com/kailas-cloud/minewatch/internal/domain/usage"
)

// Site is one mining operation with a fixed annual water allowance and its
// usage history (immutable aggregate: AddUsage returns a new value).
type Site struct {
	name       string
	waterLimit float64 // acre-feet, fixed at construction
	records    []usage.Record
}

// New validates and creates an empty Site.
func New(name string, waterLimit float64) (Site, error) {
	if name == "" {
		return Site{}, fmt.Errorf("site name is required")
	}
	if waterLimit <= 0 {
		return Site{}, fmt.Errorf("site %s: water limit must be positive, got %.2f", name, waterLimit)
	}
	return Site{name: name, waterLimit: waterLimit}, nil
}

// Reconstruct creates a Site with existing records (storage hydration).
// The limit invariant is checked by the caller before committing the value.
func Reconstruct(name string, waterLimit float64, records []usage.Record) Site {
	return Site{name: name, waterLimit: waterLimit, records: records}
}

// Name returns the unique site name.
func (s *Site) Name() string { return s.name }

// WaterLimit returns the annual water allowance in acre-feet.
func (s *Site) WaterLimit() float64 { return s.waterLimit }

// Records returns the usage history in insertion order.
func (s *Site) Records() []usage.Record { return s.records }

// TotalWaterUsed returns the sum of water usage over all records.
func (s *Site) TotalWaterUsed() float64 {
	var total float64
	for i := range s.records {
		total += s.records[i].Water()
	}
	return total
}

// WaterRemaining returns the unused part of the annual allowance.
func (s *Site) WaterRemaining() float64 {
	return s.waterLimit - s.TotalWaterUsed()
}

// AddUsage returns a copy of the site with the record appended, or a
// LimitExceededError when the requested water exceeds the remaining
// allowance. Exactly consuming the remainder is allowed. The receiver is
// never mutated, so a rejected or unpersisted add leaves no trace.
func (s *Site) AddUsage(rec usage.Record) (Site, error) {
	remaining := s.WaterRemaining()
	if rec.Water() > remaining {
		return Site{}, domain.NewLimitExceeded(s.name, rec.Water(), remaining)
	}

	records := make([]usage.Record, len(s.records), len(s.records)+1)
	copy(records, s.records)
	records = append(records, rec)

	return Site{name: s.name, waterLimit: s.waterLimit, records: records}, nil
}
