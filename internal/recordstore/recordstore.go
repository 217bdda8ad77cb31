// Package recordstore persists SR and incident records across runs.
package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// Table names for record storage.
const (
	srTable       = "srnav_sr_records"
	incidentTable = "srnav_incident_records"
)

// dateFormat is how dates are stored; a zero time is stored as the empty
// string so unknown dates round-trip as unknown.
const dateFormat = time.RFC3339

// SQLStore implements the RecordStore interface over SQLite, MySQL or
// PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.RecordStore = &SQLStore{} // Compile-time check

// NewStore initializes and returns a new record store for the backend type.
// The NoneBackend returns a connected-to-nothing store whose reads come back
// empty and whose writes are dropped.
func NewStore(backend schema.DatabaseBackend, connStr string) (contract.RecordStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetStoreDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite store at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL store: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL store: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return &SQLStore{db: nil, backend: backend, connStr: connStr}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	for _, query := range getCreateTableQueries(backend) {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create record tables: %w", err)
		}
	}

	return &SQLStore{db: db, backend: backend, connStr: connStr}, nil
}

// getCreateTableQueries returns the CREATE TABLE statements for the backend.
func getCreateTableQueries(backend schema.DatabaseBackend) []string {
	idType := "TEXT"
	if backend == schema.MySQLBackend {
		idType = "VARCHAR(64)"
	}
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id %s PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT NOT NULL,
				system_name TEXT NOT NULL,
				priority TEXT NOT NULL,
				category TEXT NOT NULL,
				technical_requirements TEXT NOT NULL,
				affected_components TEXT NOT NULL,
				created_date TEXT NOT NULL,
				imported_at BIGINT NOT NULL
			);
		`, srTable, idType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id %s PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT NOT NULL,
				system_name TEXT NOT NULL,
				affected_components TEXT NOT NULL,
				severity TEXT NOT NULL,
				root_cause TEXT NOT NULL,
				occurred_date TEXT NOT NULL,
				duration_minutes BIGINT NOT NULL,
				affected_users BIGINT NOT NULL,
				business_impact TEXT NOT NULL,
				resolution TEXT NOT NULL,
				imported_at BIGINT NOT NULL
			);
		`, incidentTable, idType),
	}
}

// placeholders returns n parameter placeholders for the backend, starting at 1.
func (s *SQLStore) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if s.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func decodeList(data string) []string {
	var items []string
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return []string{}
	}
	return items
}

func encodeDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateFormat)
}

func decodeDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// srUpsertQuery returns the backend-specific UPSERT for SR records.
func (s *SQLStore) srUpsertQuery() string {
	cols := "id, title, description, system_name, priority, category, technical_requirements, affected_components, created_date, imported_at"
	ph := s.placeholders(10)
	values := fmt.Sprintf("(%s)", strings.Join(ph, ", "))

	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s AS new
			ON DUPLICATE KEY UPDATE title = new.title, description = new.description, system_name = new.system_name,
			priority = new.priority, category = new.category, technical_requirements = new.technical_requirements,
			affected_components = new.affected_components, created_date = new.created_date, imported_at = new.imported_at`,
			srTable, cols, values)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s
			ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description,
			system_name = EXCLUDED.system_name, priority = EXCLUDED.priority, category = EXCLUDED.category,
			technical_requirements = EXCLUDED.technical_requirements, affected_components = EXCLUDED.affected_components,
			created_date = EXCLUDED.created_date, imported_at = EXCLUDED.imported_at`,
			srTable, cols, values)
	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES %s`, srTable, cols, values)
	}
}

// incidentUpsertQuery returns the backend-specific UPSERT for incidents.
func (s *SQLStore) incidentUpsertQuery() string {
	cols := "id, title, description, system_name, affected_components, severity, root_cause, occurred_date, duration_minutes, affected_users, business_impact, resolution, imported_at"
	ph := s.placeholders(13)
	values := fmt.Sprintf("(%s)", strings.Join(ph, ", "))

	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s AS new
			ON DUPLICATE KEY UPDATE title = new.title, description = new.description, system_name = new.system_name,
			affected_components = new.affected_components, severity = new.severity, root_cause = new.root_cause,
			occurred_date = new.occurred_date, duration_minutes = new.duration_minutes, affected_users = new.affected_users,
			business_impact = new.business_impact, resolution = new.resolution, imported_at = new.imported_at`,
			incidentTable, cols, values)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s
			ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description,
			system_name = EXCLUDED.system_name, affected_components = EXCLUDED.affected_components, severity = EXCLUDED.severity,
			root_cause = EXCLUDED.root_cause, occurred_date = EXCLUDED.occurred_date, duration_minutes = EXCLUDED.duration_minutes,
			affected_users = EXCLUDED.affected_users, business_impact = EXCLUDED.business_impact,
			resolution = EXCLUDED.resolution, imported_at = EXCLUDED.imported_at`,
			incidentTable, cols, values)
	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES %s`, incidentTable, cols, values)
	}
}

// PutSRRecords upserts SR records by ID.
func (s *SQLStore) PutSRRecords(ctx context.Context, records []schema.SRRecord) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	query := s.srUpsertQuery()
	for _, r := range records {
		_, err := tx.ExecContext(ctx, query,
			r.ID, r.Title, r.Description, r.System, string(r.Priority), r.Category,
			encodeList(r.TechnicalRequirements), encodeList(r.AffectedComponents),
			encodeDate(r.CreatedDate), now)
		if err != nil {
			return fmt.Errorf("failed to upsert SR record %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// PutIncidentRecords upserts incident records by ID.
func (s *SQLStore) PutIncidentRecords(ctx context.Context, records []schema.IncidentRecord) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	query := s.incidentUpsertQuery()
	for _, r := range records {
		_, err := tx.ExecContext(ctx, query,
			r.ID, r.Title, r.Description, r.System, encodeList(r.AffectedComponents),
			string(r.Severity), r.RootCause, encodeDate(r.OccurredDate),
			int64(r.Duration/time.Minute), r.AffectedUsers, r.BusinessImpact, r.Resolution, now)
		if err != nil {
			return fmt.Errorf("failed to upsert incident record %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// SRRecords returns every stored service request.
func (s *SQLStore) SRRecords(ctx context.Context) ([]schema.SRRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return []schema.SRRecord{}, nil
	}

	query := fmt.Sprintf(`SELECT id, title, description, system_name, priority, category,
		technical_requirements, affected_components, created_date FROM %s ORDER BY id`, srTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query SR records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.SRRecord
	for rows.Next() {
		var r schema.SRRecord
		var priority, techReqs, components, created string
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.System, &priority,
			&r.Category, &techReqs, &components, &created); err != nil {
			return nil, err
		}
		r.Priority = schema.Priority(priority)
		r.TechnicalRequirements = decodeList(techReqs)
		r.AffectedComponents = decodeList(components)
		r.CreatedDate = decodeDate(created)
		records = append(records, r)
	}
	return records, rows.Err()
}

// IncidentRecords returns every stored incident.
func (s *SQLStore) IncidentRecords(ctx context.Context) ([]schema.IncidentRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return []schema.IncidentRecord{}, nil
	}

	query := fmt.Sprintf(`SELECT id, title, description, system_name, affected_components, severity,
		root_cause, occurred_date, duration_minutes, affected_users, business_impact, resolution
		FROM %s ORDER BY id`, incidentTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query incident records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.IncidentRecord
	for rows.Next() {
		var r schema.IncidentRecord
		var components, severity, occurred string
		var durationMinutes int64
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.System, &components, &severity,
			&r.RootCause, &occurred, &durationMinutes, &r.AffectedUsers, &r.BusinessImpact, &r.Resolution); err != nil {
			return nil, err
		}
		r.AffectedComponents = decodeList(components)
		r.Severity = schema.Severity(severity)
		r.OccurredDate = decodeDate(occurred)
		r.Duration = time.Duration(durationMinutes) * time.Minute
		records = append(records, r)
	}
	return records, rows.Err()
}

// Clear removes every stored record.
func (s *SQLStore) Clear(ctx context.Context) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}
	for _, table := range []string{srTable, incidentTable} {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// GetStatus returns status information about the record store.
func (s *SQLStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", srTable))
	if err := row.Scan(&status.SRCount); err != nil {
		return status, fmt.Errorf("failed to count SR records: %w", err)
	}
	row = s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", incidentTable))
	if err := row.Scan(&status.IncidentCount); err != nil {
		return status, fmt.Errorf("failed to count incident records: %w", err)
	}

	if status.SRCount+status.IncidentCount > 0 {
		var lastImport int64
		row = s.db.QueryRow(fmt.Sprintf(
			"SELECT MAX(t) FROM (SELECT MAX(imported_at) AS t FROM %s UNION ALL SELECT MAX(imported_at) FROM %s) latest",
			srTable, incidentTable))
		if err := row.Scan(&lastImport); err == nil {
			status.LastImportTime = time.Unix(lastImport, 0)
		}
	}
	if status.SRCount > 0 {
		var newest string
		row = s.db.QueryRow(fmt.Sprintf("SELECT MAX(created_date) FROM %s WHERE created_date != ''", srTable))
		if err := row.Scan(&newest); err == nil {
			status.NewestSRDate = decodeDate(newest)
		}
	}
	if status.IncidentCount > 0 {
		var newest string
		row = s.db.QueryRow(fmt.Sprintf("SELECT MAX(occurred_date) FROM %s WHERE occurred_date != ''", incidentTable))
		if err := row.Scan(&newest); err == nil {
			status.NewestIncident = decodeDate(newest)
		}
	}

	// Table size is exact for SQLite and a rough estimate elsewhere.
	switch s.backend {
	case schema.SQLiteBackend:
		row = s.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&status.TableSizesBytes); err != nil {
			status.TableSizesBytes = 0
		}
	case schema.MySQLBackend:
		status.TableSizesBytes = int64(status.SRCount+status.IncidentCount) * 1000
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables WHERE table_schema = ? AND table_name IN (?, ?)"
		row = s.db.QueryRow(sizeQuery, cfg.DBName, srTable, incidentTable)
		if err := row.Scan(&status.TableSizesBytes); err != nil {
			status.TableSizesBytes = int64(status.SRCount+status.IncidentCount) * 1000
		}
	case schema.PostgreSQLBackend:
		row = s.db.QueryRow("SELECT pg_total_relation_size($1) + pg_total_relation_size($2)", srTable, incidentTable)
		if err := row.Scan(&status.TableSizesBytes); err != nil {
			status.TableSizesBytes = int64(status.SRCount+status.IncidentCount) * 1000
		}
	}

	return status, nil
}

// Close closes the underlying DB connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
