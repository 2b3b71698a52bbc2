package usage

import (
	"fmt"
	"math"
	"strings"
)

// Record is one dated usage entry against a site's allowance (immutable value object).
type Record struct {
	date  string
	water float64 // acre-feet
	land  float64 // acres
}

// New validates and creates a Record.
// The date is caller-supplied free text and is not checked for calendar
// correctness, but it must be non-empty and free of CSV delimiters so the
// persisted line stays parseable. Amounts are quantized to the two-decimal
// precision of the persisted form, so a value never changes across a
// save/load cycle and limit checks see exactly what the file will hold.
func New(date string, water, land float64) (Record, error) {
	if date == "" {
		return Record{}, fmt.Errorf("date is required")
	}
	if strings.ContainsAny(date, ",\r\n") {
		return Record{}, fmt.Errorf("date %q must not contain commas or line breaks", date)
	}
	if err := validAmount("water usage", water); err != nil {
		return Record{}, err
	}
	if err := validAmount("land usage", land); err != nil {
		return Record{}, err
	}
	return Record{date: date, water: quantize(water), land: quantize(land)}, nil
}

// quantize rounds to the two decimals the usage file stores.
func quantize(v float64) float64 {
	return math.Round(v*100) / 100
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(date string, water, land float64) Record {
	return Record{date: date, water: water, land: land}
}

// Date returns the caller-supplied date string.
func (r *Record) Date() string { return r.date }

// Water returns the water usage in acre-feet.
func (r *Record) Water() float64 { return r.water }

// Land returns the land usage in acres.
func (r *Record) Land() float64 { return r.land }

// String renders the human-readable display line.
func (r *Record) String() string {
	return fmt.Sprintf("Date: %s, Water used: %.2f acre-feet, Land used: %.2f acres",
		r.date, r.water, r.land)
}

func validAmount(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number", what)
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative, got %.2f", what, v)
	}
	return nil
}
