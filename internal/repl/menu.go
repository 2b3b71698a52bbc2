// Package repl provides the interactive console menu for the usage
// registry. The menu is a client of the registry service, not its owner: it
// only prompts, parses, and prints. All validation and persistence happens
// behind the service's two operations.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/minewatch/internal/domain"
	"github.com/kailas-cloud/minewatch/internal/usecase/registry"
)

// Menu is the interactive read-prompt loop over stdin/stdout (or any
// reader/writer pair, which is what the tests use).
type Menu struct {
	registry *registry.Service

	in  *bufio.Scanner
	out io.Writer
}

// New creates a menu attached to a constructed registry.
func New(reg *registry.Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		registry: reg,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run starts the menu loop. It blocks until the user exits, input ends, or
// the context is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printf("\nMenu:\n")
		m.printf("1. Look at records\n")
		m.printf("2. Type in new data\n")
		m.printf("3. Exit\n")

		choice, ok := m.prompt("Choose an option (1/2/3): ")
		if !ok {
			return m.in.Err()
		}

		switch choice {
		case "1":
			if !m.viewRecords(ctx) {
				return m.in.Err()
			}
		case "2":
			if !m.addUsage(ctx) {
				return m.in.Err()
			}
		case "3":
			m.printf("Exiting the program.\n")
			return nil
		default:
			m.printf("Invalid choice. Please choose 1, 2, or 3.\n")
		}
	}
}

// viewRecords handles menu option 1. Returns false when input ended.
func (m *Menu) viewRecords(ctx context.Context) bool {
	siteName, ok := m.prompt("Enter mine name: ")
	if !ok {
		return false
	}

	report, err := m.registry.Report(ctx, siteName)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownSite) {
			m.printf("No records found for this mine.\n")
		} else {
			m.printf("Error: %v\n", err)
		}
		return true
	}

	for i := range report.Records {
		m.printf("%s\n", report.Records[i].String())
	}
	m.printf("%s\n", report.Summary())
	return true
}

// addUsage handles menu option 2. Returns false when input ended.
func (m *Menu) addUsage(ctx context.Context) bool {
	siteName, ok := m.prompt("Enter mine name: ")
	if !ok {
		return false
	}
	date, ok := m.prompt("Enter date (YYYY-MM-DD): ")
	if !ok {
		return false
	}
	land, ok := m.promptFloat("Enter land usage (in acres): ")
	if !ok {
		return false
	}
	water, ok := m.promptFloat("Enter water usage (in acre-feet): ")
	if !ok {
		return false
	}

	conf, err := m.registry.RecordUsage(ctx, siteName, water, land, date)
	switch {
	case err == nil:
		m.printf("Usage updated successfully. %.2f acre-feet remaining.\n", conf.Remaining)
	case errors.Is(err, domain.ErrUnknownSite):
		m.printf("Unknown mine, please provide documentation.\n")
	case errors.Is(err, domain.ErrLimitExceeded):
		var lee *domain.LimitExceededError
		if errors.As(err, &lee) {
			m.printf("Water usage exceeds the limit for the year (%.2f acre-feet remaining).\n", lee.Remaining)
		} else {
			m.printf("Water usage exceeds the limit for the year.\n")
		}
	default:
		m.printf("Error: %v\n", err)
	}
	return true
}

// prompt prints the label and reads one trimmed line. ok is false when
// input ended.
func (m *Menu) prompt(label string) (string, bool) {
	m.printf("%s", label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// promptFloat reads a number, re-prompting on malformed input instead of
// aborting the loop.
func (m *Menu) promptFloat(label string) (float64, bool) {
	for {
		text, ok := m.prompt(label)
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			m.printf("Please enter a number.\n")
			continue
		}
		return v, true
	}
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
