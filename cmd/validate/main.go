// Command validate checks the reference data the generator depends on: the
// address CSV, the hub and sub terminal tables, and a dry run of event
// generation against them. It prints PASS or FAIL per phase and exits
// non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv files/addr_data.csv \
//	  -hub files/hub_terminal.json \
//	  -sub files/sub_terminal.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/couchcryptid/delivery-event-generator/internal/adapter/csvfile"
	"github.com/couchcryptid/delivery-event-generator/internal/adapter/tables"
	"github.com/couchcryptid/delivery-event-generator/internal/config"
	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// maxDryRun caps the number of events generated in the dry-run phase.
const maxDryRun = 200

var (
	dryRunTime = time.Date(2025, time.March, 4, 9, 15, 30, 123_000_000, time.UTC)
	eventIDRe  = regexp.MustCompile(`^EVT-\d{14}-\d{4}$`)
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}

	csvPath := flag.String("csv", cfg.AddressFile, "address CSV file")
	hubPath := flag.String("hub", cfg.HubTerminalFile, "hub terminal table (.json, .yaml, .yml)")
	subPath := flag.String("sub", cfg.SubTerminalFile, "sub terminal table (.json, .yaml, .yml)")
	flag.Parse()

	os.Exit(run(os.Stdout, *csvPath, *hubPath, *subPath))
}

func run(w io.Writer, csvPath, hubPath, subPath string) int {
	fmt.Fprintln(w, "=== Delivery Reference Data Validation ===")
	fmt.Fprintln(w)

	src, err := csvfile.Open(csvPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}
	hubs, err := tables.Load(hubPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load hub table: %v\n", err)
		return 1
	}
	subs, err := tables.Load(subPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load sub table: %v\n", err)
		return 1
	}

	records := src.Records()
	phases := []*phase{
		validateAddresses(records),
		validateHubs(hubs),
		validateSubCoverage(records, subs),
		validateGeneration(src, hubs, subs, min(len(records), maxDryRun)),
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d addresses, %d hubs, %d subs\n", len(records), len(hubs), len(subs))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Address file ──
// Every row carries all fields, a district and in-range coordinates.

func validateAddresses(records []domain.Record) *phase {
	p := &phase{name: "Phase 1: Address File"}
	if len(records) == 0 {
		p.errorf("no data rows")
		return p
	}

	for i, rec := range records {
		line := i + 2
		for _, f := range domain.RecordFields {
			if _, ok := rec[f]; !ok {
				p.errorf("line %d: missing column %q", line, f)
			}
		}
		if rec.Field(domain.FieldDistrictName) == "" {
			p.errorf("line %d: empty %s", line, domain.FieldDistrictName)
		}
		checkCoordinate(p, line, rec, domain.FieldLatitude, 90)
		checkCoordinate(p, line, rec, domain.FieldLongitude, 180)
	}
	return p
}

func checkCoordinate(p *phase, line int, rec domain.Record, field string, limit float64) {
	raw := rec.Field(field)
	v, err := strconv.ParseFloat(raw, 64)
	switch {
	case err != nil:
		p.errorf("line %d: %s %q is not a number", line, field, raw)
	case math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit:
		p.errorf("line %d: %s %v out of range", line, field, v)
	}
}

// ── Phase 2: Hub table ──

func validateHubs(hubs domain.Table) *phase {
	p := &phase{name: "Phase 2: Hub Terminals"}
	for n := 1; n <= domain.HubCount; n++ {
		key := domain.HubKey(n)
		name, ok := hubs[key]
		if !ok {
			p.errorf("missing %q (events would use %q)", key, domain.UnknownHub)
			continue
		}
		if name == "" {
			p.errorf("%q has an empty name", key)
		}
	}
	return p
}

// ── Phase 3: Sub coverage ──
// Every district in the address file resolves to a sub terminal.

func validateSubCoverage(records []domain.Record, subs domain.Table) *phase {
	p := &phase{name: "Phase 3: Sub Terminal Coverage"}

	districts := lo.Uniq(lo.FilterMap(records, func(r domain.Record, _ int) (string, bool) {
		d := r.Field(domain.FieldDistrictName)
		return d, d != ""
	}))
	slices.Sort(districts)

	for _, d := range districts {
		if _, ok := subs[d]; !ok {
			p.errorf("district %q has no sub terminal (events would use %q)", d, domain.UnknownSub)
		}
	}
	return p
}

// ── Phase 4: Dry run ──
// Generates events against the loaded data with a frozen clock and checks the
// wire shape of each.

var (
	eventKeys       = []string{"event_id", "type", "datetime", "hub_station", "sub_station", "destination"}
	destinationKeys = domain.RecordFields
)

func validateGeneration(src domain.DataSource, hubs, subs domain.Table, n int) *phase {
	p := &phase{name: "Phase 4: Event Generation (dry run)"}

	domain.SetClock(clockwork.NewFakeClockAt(dryRunTime))
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := domain.NewGenerator(src, hubs, subs, rand.New(rand.NewPCG(1, 2)), logger)
	wantDatetime := domain.FormatDatetime(dryRunTime)

	for i := range n {
		e, err := gen.Generate(context.Background())
		if err != nil {
			p.errorf("event %d: %v", i+1, err)
			return p
		}
		if !eventIDRe.MatchString(e.EventID) {
			p.errorf("event %d: malformed event_id %q", i+1, e.EventID)
		}
		if e.Datetime != wantDatetime {
			p.errorf("event %d: datetime %q, want %q", i+1, e.Datetime, wantDatetime)
		}
		checkWireShape(p, i+1, e)
	}
	return p
}

func checkWireShape(p *phase, n int, e domain.Event) {
	data, err := domain.MarshalEvent(e)
	if err != nil {
		p.errorf("event %d: marshal: %v", n, err)
		return
	}
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		p.errorf("event %d: unmarshal: %v", n, err)
		return
	}
	if got := lo.Keys(wire); !sameSet(got, eventKeys) {
		p.errorf("event %d: top-level keys %v, want %v", n, got, eventKeys)
	}

	var dest map[string]json.RawMessage
	if err := json.Unmarshal(wire["destination"], &dest); err != nil {
		p.errorf("event %d: destination: %v", n, err)
		return
	}
	if got := lo.Keys(dest); !sameSet(got, destinationKeys) {
		p.errorf("event %d: destination keys %v, want %v", n, got, destinationKeys)
	}
}

func sameSet(a, b []string) bool {
	return len(a) == len(b) && len(lo.Intersect(a, b)) == len(b)
}
