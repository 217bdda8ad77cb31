// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSRResults prints SR search results using the configured output format.
func (ow *OutWriter) WriteSRResults(results []schema.SRMatch, cfg *contract.Config, duration time.Duration) error {
	return PrintSRResults(results, cfg, duration)
}

// WriteIncidentResults prints incident search results using the configured output format.
func (ow *OutWriter) WriteIncidentResults(results []schema.IncidentMatch, cfg *contract.Config, duration time.Duration) error {
	return PrintIncidentResults(results, cfg, duration)
}

// WriteBundle prints a combined evidence bundle using the configured output format.
func (ow *OutWriter) WriteBundle(bundle *schema.EvidenceBundle, cfg *contract.Config, duration time.Duration) error {
	return PrintBundle(bundle, cfg, duration)
}

// WriteFactorDefinitions prints both engines' factor definitions.
func (ow *OutWriter) WriteFactorDefinitions(cfg *contract.Config) error {
	return PrintFactorDefinitions(cfg)
}

// WriteStoreStatus prints record store status using the configured output format.
func (ow *OutWriter) WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return PrintStoreStatus(status, cfg)
}
