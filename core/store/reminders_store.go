package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"crimedesk/core/utils"
)

type Reminder struct {
	ID           int64     `json:"reminder_id"`
	CrimeID      int64     `json:"crime_id"`
	ReminderType string    `json:"reminder_type"`
	ReminderDate time.Time `json:"reminder_date"`

	CrimeTitle     string `json:"crime_title,omitempty"`
	StationName    string `json:"station_name,omitempty"`
	AssignedToName string `json:"assigned_to_name,omitempty"`
}

type ReminderFilter struct {
	Scope         StationScope
	StationID     int64
	ACPStationIDs []int64
	ReminderType  string
	MonthStart    time.Time
	MonthEnd      time.Time
}

type RemindersStore interface {
	CreateReminder(ctx context.Context, rem *Reminder) (int64, error)
	ListReminders(ctx context.Context, filter ReminderFilter) ([]Reminder, error)
	// HasReminderOn reports whether a reminder of the given type was
	// already logged for the crime on the calendar day containing t.
	HasReminderOn(ctx context.Context, crimeID int64, reminderType string, t time.Time) (bool, error)
}

type remindersStore struct {
	db *sql.DB
}

func NewRemindersStore(db *sql.DB) RemindersStore {
	return &remindersStore{db: db}
}

func (s *remindersStore) CreateReminder(ctx context.Context, rem *Reminder) (int64, error) {
	if rem.ReminderDate.IsZero() {
		rem.ReminderDate = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders(crime_id, reminder_type, reminder_date) VALUES(?,?,?)`,
		rem.CrimeID, strings.TrimSpace(rem.ReminderType), rem.ReminderDate)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	rem.ID = id
	return id, nil
}

func (s *remindersStore) ListReminders(ctx context.Context, filter ReminderFilter) ([]Reminder, error) {
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
	if filter.ReminderType != "" {
		clauses = append(clauses, "r.reminder_type=?")
		args = append(args, filter.ReminderType)
	}
	if !filter.MonthStart.IsZero() {
		clauses = append(clauses, "r.reminder_date>=?")
		args = append(args, filter.MonthStart)
	}
	if !filter.MonthEnd.IsZero() {
		clauses = append(clauses, "r.reminder_date<?")
		args = append(args, filter.MonthEnd)
	}
	query := `
		SELECT r.reminder_id, r.crime_id, r.reminder_type, r.reminder_date,
			COALESCE(c.title, ''), COALESCE(st.name, ''), COALESCE(u.name, '')
		FROM reminders r
		JOIN crimes c ON c.crime_id = r.crime_id
		LEFT JOIN stations st ON st.station_id = c.station_id
		LEFT JOIN users u ON u.user_id = c.assigned_to_id`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY r.reminder_date DESC, r.reminder_id DESC"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.ID, &r.CrimeID, &r.ReminderType, &r.ReminderDate,
			&r.CrimeTitle, &r.StationName, &r.AssignedToName); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func (s *remindersStore) HasReminderOn(ctx context.Context, crimeID int64, reminderType string, t time.Time) (bool, error) {
	start := utils.StartOfDay(t)
	end := start.AddDate(0, 0, 1)
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reminders
		WHERE crime_id=? AND reminder_type=? AND reminder_date>=? AND reminder_date<?`,
		crimeID, reminderType, start, end).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
