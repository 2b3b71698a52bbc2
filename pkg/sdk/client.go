// Package minewatch provides an embedded Go client for the mine usage
// registry: the same core the CLI and HTTP API use, wired behind a small
// Client for programs that want to record and query usage in-process.
//
//	client, _ := minewatch.New(ctx, minewatch.WithStoragePath("mine_usage.txt"))
//	conf, _ := client.RecordUsage(ctx, "Rosemont", 5000, 10, "2024-01-01")
//	report, _ := client.Report(ctx, "Rosemont")
package minewatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minewatch/internal/config"
	"github.com/kailas-cloud/minewatch/internal/repository/usagefile"
	registryuc "github.com/kailas-cloud/minewatch/internal/usecase/registry"
)

// Site configures one site and its annual water allowance in acre-feet.
type Site struct {
	Name       string
	WaterLimit float64
}

// Confirmation is the result of a successfully recorded usage entry.
type Confirmation = registryuc.Confirmation

// Report is the query view of one site's usage history.
type Report = registryuc.Report

// Status is the per-site line of a registry listing.
type Status = registryuc.Status

// Client is the minewatch SDK entry point.
type Client struct {
	registry *registryuc.Service
}

// New creates a Client, loading any existing usage file. The provided
// context covers the initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		path:   "mine_usage.txt",
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	sites := cfg.sites
	if len(sites) == 0 {
		for _, s := range config.DefaultSites() {
			sites = append(sites, Site{Name: s.Name, WaterLimit: s.WaterLimitAcreFeet})
		}
	}

	limits := make([]registryuc.SiteLimit, len(sites))
	for i, s := range sites {
		limits[i] = registryuc.SiteLimit{Name: s.Name, WaterLimit: s.WaterLimit}
	}

	store := usagefile.New(cfg.path)
	reg, err := registryuc.New(ctx, store, limits, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("minewatch: %w", err)
	}
	return &Client{registry: reg}, nil
}

// RecordUsage appends one usage entry for the named site and persists the
// whole store. Check failures with errors.Is against ErrUnknownSite,
// ErrLimitExceeded, or ErrInvalidRecord.
func (c *Client) RecordUsage(ctx context.Context, site string, water, land float64, date string) (Confirmation, error) {
	return c.registry.RecordUsage(ctx, site, water, land, date)
}

// Report returns the named site's usage history and totals.
func (c *Client) Report(ctx context.Context, site string) (Report, error) {
	return c.registry.Report(ctx, site)
}

// Sites returns the status of every configured site in sorted name order.
func (c *Client) Sites(ctx context.Context) []Status {
	return c.registry.Sites(ctx)
}
