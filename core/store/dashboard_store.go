package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// StationStatusCount is one row of the per-station rollup.
type StationStatusCount struct {
	StationID int64
	Status    string
	Count     int64
}

// RawTypeCount carries the crime_type_ids column verbatim; the value may
// be a JSON array, a comma string, or a bare integer in legacy rows and
// is parsed by the aggregation layer.
type RawTypeCount struct {
	Raw   string
	Count int64
}

// TimedStatus is a single crime or escalation occurrence used for
// in-process month bucketing of the trend charts.
type TimedStatus struct {
	Bucket string
	At     time.Time
}

// DashboardStore serves the grouped aggregate queries behind the
// dashboard endpoints. Trends are fetched as one window query each and
// bucketed by month in process rather than issuing a count query per
// month and status.
type DashboardStore interface {
	StatusCounts(ctx context.Context, scope StationScope) (map[string]int64, error)
	StationStatusCounts(ctx context.Context, scope StationScope) ([]StationStatusCount, error)
	CrimeTypeRawCounts(ctx context.Context, scope StationScope) ([]RawTypeCount, error)
	ReminderTypeCounts(ctx context.Context, scope StationScope) (map[string]int64, error)
	CrimeStatusSince(ctx context.Context, scope StationScope, since time.Time) ([]TimedStatus, error)
	CrimeCategorySince(ctx context.Context, scope StationScope, since time.Time) ([]TimedStatus, error)
	EscalationStatusSince(ctx context.Context, scope StationScope, since time.Time) ([]TimedStatus, error)
}

type dashboardStore struct {
	db *sql.DB
}

func NewDashboardStore(db *sql.DB) DashboardStore {
	return &dashboardStore{db: db}
}

func (s *dashboardStore) StatusCounts(ctx context.Context, scope StationScope) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM crimes`
	var args []any
	if c, a, ok := stationScopeClause(scope, "station_id"); ok {
		query += " WHERE " + c
		args = a
	}
	query += " GROUP BY status"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (s *dashboardStore) StationStatusCounts(ctx context.Context, scope StationScope) ([]StationStatusCount, error) {
	query := `SELECT station_id, status, COUNT(*) FROM crimes`
	var args []any
	if c, a, ok := stationScopeClause(scope, "station_id"); ok {
		query += " WHERE " + c
		args = a
	}
	query += " GROUP BY station_id, status ORDER BY station_id ASC"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []StationStatusCount
	for rows.Next() {
		var row StationStatusCount
		if err := rows.Scan(&row.StationID, &row.Status, &row.Count); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func (s *dashboardStore) CrimeTypeRawCounts(ctx context.Context, scope StationScope) ([]RawTypeCount, error) {
	query := `SELECT crime_type_ids, COUNT(*) FROM crimes`
	var args []any
	if c, a, ok := stationScopeClause(scope, "station_id"); ok {
		query += " WHERE " + c
		args = a
	}
	query += " GROUP BY crime_type_ids"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []RawTypeCount
	for rows.Next() {
		var row RawTypeCount
		if err := rows.Scan(&row.Raw, &row.Count); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func (s *dashboardStore) ReminderTypeCounts(ctx context.Context, scope StationScope) (map[string]int64, error) {
	query := `
		SELECT r.reminder_type, COUNT(*)
		FROM reminders r
		JOIN crimes c ON c.crime_id = r.crime_id`
	var args []any
	if c, a, ok := stationScopeClause(scope, "c.station_id"); ok {
		query += " WHERE " + c
		args = a
	}
	query += " GROUP BY r.reminder_type"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[string]int64{}
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}

func (s *dashboardStore) CrimeStatusSince(ctx context.Context, scope StationScope, since time.Time) ([]TimedStatus, error) {
	return s.timedQuery(ctx, `SELECT status, created_at FROM crimes`, "station_id", "created_at", scope, since)
}

func (s *dashboardStore) CrimeCategorySince(ctx context.Context, scope StationScope, since time.Time) ([]TimedStatus, error) {
	return s.timedQuery(ctx, `SELECT category, created_at FROM crimes`, "station_id", "created_at", scope, since)
}

func (s *dashboardStore) EscalationStatusSince(ctx context.Context, scope StationScope, since time.Time) ([]TimedStatus, error) {
	return s.timedQuery(ctx, `
		SELECT e.status, e.raised_at
		FROM escalations e
		JOIN crimes c ON c.crime_id = e.crime_id`, "c.station_id", "e.raised_at", scope, since)
}

func (s *dashboardStore) timedQuery(ctx context.Context, base, scopeCol, timeCol string, scope StationScope, since time.Time) ([]TimedStatus, error) {
	var clauses []string
	var args []any
	if c, a, ok := stationScopeClause(scope, scopeCol); ok {
		clauses = append(clauses, c)
		args = append(args, a...)
	}
	clauses = append(clauses, timeCol+">=?")
	args = append(args, since.UTC())
	query := base + " WHERE " + strings.Join(clauses, " AND ")
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []TimedStatus
	for rows.Next() {
		var row TimedStatus
		if err := rows.Scan(&row.Bucket, &row.At); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}
