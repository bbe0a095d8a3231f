package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"session-reconciler/internal/model"
	"session-reconciler/internal/reconcile"
)

// batchInput is the offline batch format: claims plus the calendar events
// they should reconcile against, both as naive local times.
type batchInput struct {
	Timezone string                `json:"timezone"`
	Claims   []model.SessionClaim  `json:"claims"`
	Events   []model.CalendarEvent `json:"events"`
}

type batchOutput struct {
	Outcomes []model.ReconciliationOutcome `json:"outcomes"`
	Approved []reconcile.ApprovedSession   `json:"approved"`
	Skipped  []reconcile.SkippedEvent      `json:"skipped_events,omitempty"`
}

// main runs the pure reconciliation pipeline over a JSON batch file, with no
// network dependencies. Useful for replaying disputed batches and for
// dry-running rule changes.
func main() {
	var (
		inputPath = flag.String("input", "", "path to the batch JSON file (claims + events)")
		timezone  = flag.String("timezone", "", "IANA timezone override (defaults to the batch file's)")
		threshold = flag.Float64("overlap-threshold", reconcile.DefaultOverlapThreshold, "fraction of the claim an event must cover")
		tolerance = flag.Int("tolerance-minutes", reconcile.DefaultToleranceMinutes, "max summed start/end deviation for a full match")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: reconciler -input batch.json [-timezone Europe/London]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to read batch file:", err)
		os.Exit(1)
	}

	var batch batchInput
	if err := json.Unmarshal(data, &batch); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to parse batch file:", err)
		os.Exit(1)
	}

	tz := batch.Timezone
	if *timezone != "" {
		tz = *timezone
	}
	if tz == "" {
		tz = "Europe/London"
	}

	engine, err := reconcile.NewEngine(reconcile.Config{
		Timezone:         tz,
		OverlapThreshold: *threshold,
		ToleranceMinutes: *tolerance,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}

	for i := range batch.Claims {
		if batch.Claims[i].Ref == "" {
			batch.Claims[i].Ref = fmt.Sprintf("claim-%d", i+1)
		}
	}

	report := engine.Reconcile(batch.Claims, batch.Events)

	out := batchOutput{
		Outcomes: report.Outcomes,
		Approved: report.Approved,
		Skipped:  report.SkippedEvents,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to encode report:", err)
		os.Exit(1)
	}
}
