// Package core has core logic for scoring, ranking and evidence gathering.
package core

import (
	"context"
	"time"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/internal/narrative"
	"github.com/joonpark/srnav/internal/outwriter"
	"github.com/joonpark/srnav/schema"
)

// ExecutorFunc defines the function signature for executing different search modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, q schema.Query, provider contract.RecordProvider) error

// writer serves every Execute* entry point.
var writer = outwriter.NewOutWriter()

// ExecuteSRSearch runs the SR similarity search and prints results to stdout.
// It serves as the main entry point for the 'sr' mode.
func ExecuteSRSearch(ctx context.Context, cfg *contract.Config, q schema.Query, provider contract.RecordProvider) error {
	start := time.Now()
	records, err := provider.SRRecords(ctx)
	if err != nil {
		return err
	}
	engine, err := NewSREngine(cfg)
	if err != nil {
		return err
	}
	matches, err := engine.Search(ctx, q, records)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return writer.WriteSRResults(matches, cfg, duration)
}

// ExecuteIncidentSearch runs the incident correlation search and prints
// results to stdout. It serves as the main entry point for the 'incidents'
// mode.
func ExecuteIncidentSearch(ctx context.Context, cfg *contract.Config, q schema.Query, provider contract.RecordProvider) error {
	start := time.Now()
	records, err := provider.IncidentRecords(ctx)
	if err != nil {
		return err
	}
	engine, err := NewIncidentEngine(cfg)
	if err != nil {
		return err
	}
	matches, err := engine.Search(ctx, q, records)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return writer.WriteIncidentResults(matches, cfg, duration)
}

// ExecuteGather runs both engines concurrently and prints the combined
// evidence bundle. It serves as the main entry point for the 'gather' mode.
func ExecuteGather(ctx context.Context, cfg *contract.Config, q schema.Query, provider contract.RecordProvider) error {
	start := time.Now()
	bundle, err := NewGatherer(cfg, provider).Gather(ctx, q, cfg.EffectiveSRLimit(), cfg.EffectiveIncidentLimit())
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return writer.WriteBundle(bundle, cfg, duration)
}

// ExecuteGatherPrompt runs both engines and prints the grounded risk-review
// prompt built from the evidence bundle, instead of the bundle itself.
func ExecuteGatherPrompt(ctx context.Context, cfg *contract.Config, q schema.Query, provider contract.RecordProvider) error {
	bundle, err := NewGatherer(cfg, provider).Gather(ctx, q, cfg.EffectiveSRLimit(), cfg.EffectiveIncidentLimit())
	if err != nil {
		return err
	}
	return outwriter.PrintPrompt(narrative.BuildFMEAPrompt(bundle), cfg)
}

// ExecuteFactors displays the formal definitions of both engines' scoring
// factors. This is a static display that does not touch the record store.
func ExecuteFactors(_ context.Context, cfg *contract.Config) error {
	return writer.WriteFactorDefinitions(cfg)
}
