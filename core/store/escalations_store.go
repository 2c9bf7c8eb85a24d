package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

type Escalation struct {
	ID         int64     `json:"escalation_id"`
	CrimeID    int64     `json:"crime_id"`
	Status     string    `json:"status"`
	RaisedByID int64     `json:"raised_by_id"`
	RaisedToID int64     `json:"raised_to_id"`
	Reason     string    `json:"reason"`
	RaisedAt   time.Time `json:"raised_at"`

	CrimeTitle     string `json:"crime_title,omitempty"`
	StationName    string `json:"station_name,omitempty"`
	AssignedToName string `json:"assigned_to_name,omitempty"`
}

type EscalationFilter struct {
	Scope         StationScope
	StationID     int64
	ACPStationIDs []int64
	Status        string
	MonthStart    time.Time
	MonthEnd      time.Time
}

type EscalationsStore interface {
	CreateEscalation(ctx context.Context, esc *Escalation) (int64, error)
	ListEscalations(ctx context.Context, filter EscalationFilter) ([]Escalation, error)
	CountEscalations(ctx context.Context, filter EscalationFilter) (int64, error)
}

type escalationsStore struct {
	db *sql.DB
}

func NewEscalationsStore(db *sql.DB) EscalationsStore {
	return &escalationsStore{db: db}
}

func (s *escalationsStore) CreateEscalation(ctx context.Context, esc *Escalation) (int64, error) {
	if strings.TrimSpace(esc.Status) == "" {
		esc.Status = StatusPending
	}
	if strings.TrimSpace(esc.Reason) == "" {
		esc.Reason = "Auto-generated escalation"
	}
	if esc.RaisedAt.IsZero() {
		esc.RaisedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO escalations(crime_id, status, raised_by_id, raised_to_id, reason, raised_at)
		VALUES(?,?,?,?,?,?)`,
		esc.CrimeID, esc.Status, esc.RaisedByID, esc.RaisedToID, esc.Reason, esc.RaisedAt)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	esc.ID = id
	return id, nil
}

func (s *escalationsStore) ListEscalations(ctx context.Context, filter EscalationFilter) ([]Escalation, error) {
	clauses, args := escalationFilterClauses(filter)
	query := `
		SELECT e.escalation_id, e.crime_id, e.status, e.raised_by_id, e.raised_to_id, e.reason, e.raised_at,
			COALESCE(c.title, ''), COALESCE(st.name, ''), COALESCE(u.name, '')
		FROM escalations e
		JOIN crimes c ON c.crime_id = e.crime_id
		LEFT JOIN stations st ON st.station_id = c.station_id
		LEFT JOIN users u ON u.user_id = c.assigned_to_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY e.raised_at DESC, e.escalation_id DESC"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Escalation
	for rows.Next() {
		var e Escalation
		if err := rows.Scan(&e.ID, &e.CrimeID, &e.Status, &e.RaisedByID, &e.RaisedToID, &e.Reason, &e.RaisedAt,
			&e.CrimeTitle, &e.StationName, &e.AssignedToName); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (s *escalationsStore) CountEscalations(ctx context.Context, filter EscalationFilter) (int64, error) {
	clauses, args := escalationFilterClauses(filter)
	query := `SELECT COUNT(*) FROM escalations e JOIN crimes c ON c.crime_id = e.crime_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Escalations are station-scoped through their crime row.
func escalationFilterClauses(filter EscalationFilter) ([]string, []any) {
	var clauses []string
	var args []any
	if c, a, ok := stationScopeClause(filter.Scope, "c.station_id"); ok {
		clauses = append(clauses, c)
		args = append(args, a...)
	}
	if filter.StationID > 0 {
		clauses = append(clauses, "c.station_id=?")
		args = append(args, filter.StationID)
	}
	if filter.ACPStationIDs != nil {
		c, a := idInClause("c.station_id", filter.ACPStationIDs)
		clauses = append(clauses, c)
		args = append(args, a...)
	}
	if filter.Status != "" {
		clauses = append(clauses, "e.status=?")
		args = append(args, filter.Status)
	}
	if !filter.MonthStart.IsZero() {
		clauses = append(clauses, "e.raised_at>=?")
		args = append(args, filter.MonthStart)
	}
	if !filter.MonthEnd.IsZero() {
		clauses = append(clauses, "e.raised_at<?")
		args = append(args, filter.MonthEnd)
	}
	return clauses, args
}
