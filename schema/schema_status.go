package schema

import "time"

// StoreStatus represents the status of the record store.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	SRCount         int       `json:"sr_count"`
	IncidentCount   int       `json:"incident_count"`
	LastImportTime  time.Time `json:"last_import_time"`
	NewestSRDate    time.Time `json:"newest_sr_date"`
	NewestIncident  time.Time `json:"newest_incident"`
	TableSizesBytes int64     `json:"table_sizes_bytes"`
}
