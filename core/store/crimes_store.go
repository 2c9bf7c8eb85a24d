package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StationScope is the set of stations a caller is allowed to see.
// All overrides StationIDs; an empty non-All scope matches nothing.
type StationScope struct {
	All        bool
	StationIDs []int64
}

func ScopeAll() StationScope {
	return StationScope{All: true}
}

func ScopeStations(ids ...int64) StationScope {
	return StationScope{StationIDs: ids}
}

type Crime struct {
	ID                 int64      `json:"crime_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	Status             string     `json:"status"`
	StationID          int64      `json:"station_id"`
	AssignedToID       int64      `json:"assigned_to_id"`
	CrimeTypeIDs       []int64    `json:"crime_type_ids"`
	ComplainantName    string     `json:"complainant_name,omitempty"`
	ComplainantPhone   string     `json:"complainant_phone,omitempty"`
	ComplainantAddress string     `json:"complainant_address,omitempty"`
	IncidentDate       *time.Time `json:"incident_date,omitempty"`
	IncidentLocation   string     `json:"incident_location,omitempty"`
	EvidenceDetails    string     `json:"evidence_details,omitempty"`
	WitnessDetails     string     `json:"witness_details,omitempty"`
	SuspectDetails     string     `json:"suspect_details,omitempty"`
	CasePriority       string     `json:"case_priority"`
	ResolutionDays     int        `json:"resolution_days"`
	CreatedAt          time.Time  `json:"created_at"`

	// Denormalized by list queries.
	StationName     string `json:"station_name,omitempty"`
	AssignedToName  string `json:"assigned_to_name,omitempty"`
	AssignedToEmail string `json:"-"`
}

// CrimeFilter composes the resolved station scope with the optional
// caller-supplied filters. All constraints are conjunctive, so an
// explicit station filter intersects the scope instead of widening it.
type CrimeFilter struct {
	Scope         StationScope
	StationID     int64
	ACPStationIDs []int64 // set when a DCP filters by ACP; nil means unset
	Status        string
	ExcludeStatus string
	Category      string
	AssignedToID  int64
	MonthStart    time.Time
	MonthEnd      time.Time
}

// MonthWindow returns the calendar-month range [start, nextMonthStart)
// for month m of the current year.
func MonthWindow(m int, now time.Time) (time.Time, time.Time) {
	year := now.UTC().Year()
	start := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

type CrimesStore interface {
	CreateCrime(ctx context.Context, crime *Crime) (int64, error)
	GetCrime(ctx context.Context, id int64) (*Crime, error)
	ListCrimes(ctx context.Context, filter CrimeFilter) ([]Crime, error)
	CountCrimes(ctx context.Context, filter CrimeFilter) (int64, error)
}

type crimesStore struct {
	db *sql.DB
}

func NewCrimesStore(db *sql.DB) CrimesStore {
	return &crimesStore{db: db}
}

const crimeColumns = `c.crime_id, c.title, c.description, c.category, c.status, c.station_id, c.assigned_to_id,
	c.crime_type_ids, c.complainant_name, c.complainant_phone, c.complainant_address, c.incident_date,
	c.incident_location, c.evidence_details, c.witness_details, c.suspect_details, c.case_priority,
	c.resolution_days, c.created_at`

func (s *crimesStore) CreateCrime(ctx context.Context, crime *Crime) (int64, error) {
	if strings.TrimSpace(crime.Status) == "" {
		crime.Status = StatusPending
	}
	if strings.TrimSpace(crime.CasePriority) == "" {
		crime.CasePriority = DefaultCasePriority
	}
	if crime.ResolutionDays <= 0 {
		crime.ResolutionDays = DefaultResolutionDays
	}
	if crime.CreatedAt.IsZero() {
		crime.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO crimes(title, description, category, status, station_id, assigned_to_id, crime_type_ids,
			complainant_name, complainant_phone, complainant_address, incident_date, incident_location,
			evidence_details, witness_details, suspect_details, case_priority, resolution_days, created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		strings.TrimSpace(crime.Title), crime.Description, crime.Category, crime.Status,
		crime.StationID, crime.AssignedToID, typeIDsToJSON(crime.CrimeTypeIDs),
		crime.ComplainantName, crime.ComplainantPhone, crime.ComplainantAddress,
		nullableTime(crime.IncidentDate), crime.IncidentLocation,
		crime.EvidenceDetails, crime.WitnessDetails, crime.SuspectDetails,
		crime.CasePriority, crime.ResolutionDays, crime.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	crime.ID = id
	return id, nil
}

func (s *crimesStore) GetCrime(ctx context.Context, id int64) (*Crime, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+crimeColumns+`, COALESCE(st.name, ''), COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM crimes c
		LEFT JOIN stations st ON st.station_id = c.station_id
		LEFT JOIN users u ON u.user_id = c.assigned_to_id
		WHERE c.crime_id=?`, id)
	crime, err := scanCrime(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return crime, nil
}

func (s *crimesStore) ListCrimes(ctx context.Context, filter CrimeFilter) ([]Crime, error) {
	clauses, args := crimeFilterClauses(filter, "c")
	query := `
		SELECT ` + crimeColumns + `, COALESCE(st.name, ''), COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM crimes c
		LEFT JOIN stations st ON st.station_id = c.station_id
		LEFT JOIN users u ON u.user_id = c.assigned_to_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY c.created_at DESC, c.crime_id DESC"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Crime
	for rows.Next() {
		crime, err := scanCrime(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *crime)
	}
	return res, rows.Err()
}

func (s *crimesStore) CountCrimes(ctx context.Context, filter CrimeFilter) (int64, error) {
	clauses, args := crimeFilterClauses(filter, "c")
	query := `SELECT COUNT(*) FROM crimes c`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// crimeFilterClauses turns a CrimeFilter into WHERE fragments over the
// crimes table aliased as alias.
func crimeFilterClauses(filter CrimeFilter, alias string) ([]string, []any) {
	col := func(name string) string { return alias + "." + name }
	var clauses []string
	var args []any
	if c, a, ok := stationScopeClause(filter.Scope, col("station_id")); ok {
		clauses = append(clauses, c)
		args = append(args, a...)
	}
	if filter.StationID > 0 {
		clauses = append(clauses, col("station_id")+"=?")
		args = append(args, filter.StationID)
	}
	if filter.ACPStationIDs != nil {
		c, a := idInClause(col("station_id"), filter.ACPStationIDs)
		clauses = append(clauses, c)
		args = append(args, a...)
	}
	if filter.Status != "" {
		clauses = append(clauses, col("status")+"=?")
		args = append(args, filter.Status)
	}
	if filter.ExcludeStatus != "" {
		clauses = append(clauses, col("status")+"!=?")
		args = append(args, filter.ExcludeStatus)
	}
	if filter.Category != "" {
		clauses = append(clauses, col("category")+"=?")
		args = append(args, filter.Category)
	}
	if filter.AssignedToID > 0 {
		clauses = append(clauses, col("assigned_to_id")+"=?")
		args = append(args, filter.AssignedToID)
	}
	if !filter.MonthStart.IsZero() {
		clauses = append(clauses, col("created_at")+">=?")
		args = append(args, filter.MonthStart)
	}
	if !filter.MonthEnd.IsZero() {
		clauses = append(clauses, col("created_at")+"<?")
		args = append(args, filter.MonthEnd)
	}
	return clauses, args
}

func stationScopeClause(scope StationScope, column string) (string, []any, bool) {
	if scope.All {
		return "", nil, false
	}
	if len(scope.StationIDs) == 0 {
		// Empty scope sees nothing, by contract not by error.
		return "1=0", nil, true
	}
	c, a := idInClause(column, scope.StationIDs)
	return c, a, true
}

func idInClause(column string, ids []int64) (string, []any) {
	if len(ids) == 0 {
		return "1=0", nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return fmt.Sprintf("%s IN (%s)", column, placeholders), args
}

func typeIDsToJSON(ids []int64) string {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func scanCrime(scan func(dest ...any) error) (*Crime, error) {
	var c Crime
	var typeIDsRaw string
	var incidentDate sql.NullTime
	if err := scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Status, &c.StationID, &c.AssignedToID,
		&typeIDsRaw, &c.ComplainantName, &c.ComplainantPhone, &c.ComplainantAddress, &incidentDate,
		&c.IncidentLocation, &c.EvidenceDetails, &c.WitnessDetails, &c.SuspectDetails, &c.CasePriority,
		&c.ResolutionDays, &c.CreatedAt,
		&c.StationName, &c.AssignedToName, &c.AssignedToEmail); err != nil {
		return nil, err
	}
	if incidentDate.Valid {
		c.IncidentDate = &incidentDate.Time
	}
	// Rows written by this service hold a JSON array; legacy values are
	// left for the aggregation layer to parse defensively.
	_ = json.Unmarshal([]byte(typeIDsRaw), &c.CrimeTypeIDs)
	return &c, nil
}
