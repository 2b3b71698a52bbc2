package usagefile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/minewatch/internal/domain/usage"
)

// Persisted line format: siteName,date,waterUsage,landUsage with the
// amounts fixed to two decimals. No header, no quoting.
const fieldsPerLine = 4

// encodeLine converts one record to its persisted line.
func encodeLine(siteName string, rec usage.Record) string {
	return fmt.Sprintf("%s,%s,%.2f,%.2f", siteName, rec.Date(), rec.Water(), rec.Land())
}

// decodeLine parses one persisted line into its site name and record.
func decodeLine(line string) (string, usage.Record, error) {
	parts := strings.Split(line, ",")
	if len(parts) != fieldsPerLine {
		return "", usage.Record{}, fmt.Errorf("expected %d comma-separated fields, got %d", fieldsPerLine, len(parts))
	}

	siteName := parts[0]
	if siteName == "" {
		return "", usage.Record{}, fmt.Errorf("site name is empty")
	}

	water, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", usage.Record{}, fmt.Errorf("invalid water usage %q: %w", parts[2], err)
	}
	land, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return "", usage.Record{}, fmt.Errorf("invalid land usage %q: %w", parts[3], err)
	}

	rec, err := usage.New(parts[1], water, land)
	if err != nil {
		return "", usage.Record{}, err
	}
	return siteName, rec, nil
}
