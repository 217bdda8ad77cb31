package outwriter

import (
	"fmt"
	"io"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// PrintStoreStatus outputs record store status, dispatching based on the output format configured.
func PrintStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusText(w, status)
		}, "Wrote text")
	}
}

// writeStatusText displays store status in human-readable text format.
func writeStatusText(w io.Writer, status schema.StoreStatus) error {
	connected := "no"
	if status.Connected {
		connected = "yes"
	}
	if _, err := fmt.Fprintf(w, "Record store status (backend: %s, connected: %s)\n", status.Backend, connected); err != nil {
		return err
	}
	if !status.Connected {
		return nil
	}
	if _, err := fmt.Fprintf(w, "  SR records:       %d\n", status.SRCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Incident records: %d\n", status.IncidentCount); err != nil {
		return err
	}
	if !status.LastImportTime.IsZero() {
		if _, err := fmt.Fprintf(w, "  Last import:      %s\n", status.LastImportTime.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	if !status.NewestSRDate.IsZero() {
		if _, err := fmt.Fprintf(w, "  Newest SR:        %s\n", status.NewestSRDate.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	if !status.NewestIncident.IsZero() {
		if _, err := fmt.Fprintf(w, "  Newest incident:  %s\n", status.NewestIncident.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	if status.TableSizesBytes > 0 {
		if _, err := fmt.Fprintf(w, "  Storage size:     %.1f KB\n", float64(status.TableSizesBytes)/1024.0); err != nil {
			return err
		}
	}
	return nil
}
