// Package usagefile persists the whole registry to a single flat text file.
// Every save is a full-state overwrite, not an incremental log; the file is
// the durable source of truth between process runs.
package usagefile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kailas-cloud/minewatch/internal/domain"
	"github.com/kailas-cloud/minewatch/internal/domain/site"
	"github.com/kailas-cloud/minewatch/internal/domain/usage"
)

// Store implements usecase/registry.Store on a flat file.
type Store struct {
	path string
}

// New creates a file store at the given path. The file is created on the
// first save; a missing file loads as an empty registry.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the usage file and groups records by their leading site-name
// token, preserving per-site insertion order. A missing file yields an
// empty map. Any malformed line fails the whole load rather than silently
// dropping data.
func (s *Store) Load(_ context.Context) (map[string][]usage.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]usage.Record{}, nil
		}
		return nil, fmt.Errorf("open usage file %s: %w", s.path, err)
	}
	defer f.Close()

	groups := map[string][]usage.Record{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		siteName, rec, err := decodeLine(line)
		if err != nil {
			return nil, domain.NewParseError(lineNo, line, err)
		}
		groups[siteName] = append(groups[siteName], rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read usage file %s: %w", s.path, err)
	}

	return groups, nil
}

// Save serializes every site's full record list and overwrites the file
// entirely. All of one site's lines are emitted consecutively, sites in the
// order given by the caller.
func (s *Store) Save(_ context.Context, sites []site.Site) error {
	var b strings.Builder
	for i := range sites {
		name := sites[i].Name()
		for _, rec := range sites[i].Records() {
			b.WriteString(encodeLine(name, rec))
			b.WriteByte('\n')
		}
	}

	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write usage file %s: %w", s.path, err)
	}
	return nil
}
