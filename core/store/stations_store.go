package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type Station struct {
	ID    int64  `json:"station_id"`
	Name  string `json:"name"`
	ACPID *int64 `json:"acp_id,omitempty"`
}

type StationsStore interface {
	CreateStation(ctx context.Context, station *Station) (int64, error)
	GetStation(ctx context.Context, id int64) (*Station, error)
	ListStations(ctx context.Context) ([]Station, error)
	ListStationsByACP(ctx context.Context, acpID int64) ([]Station, error)
	ListStationIDsByACP(ctx context.Context, acpID int64) ([]int64, error)
	AssignACP(ctx context.Context, stationID, acpID int64) error
}

type stationsStore struct {
	db *sql.DB
}

func NewStationsStore(db *sql.DB) StationsStore {
	return &stationsStore{db: db}
}

func (s *stationsStore) CreateStation(ctx context.Context, station *Station) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO stations(name, acp_id) VALUES(?,?)`,
		strings.TrimSpace(station.Name), nullableID(station.ACPID))
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	station.ID = id
	return id, nil
}

func (s *stationsStore) GetStation(ctx context.Context, id int64) (*Station, error) {
	row := s.db.QueryRowContext(ctx, `SELECT station_id, name, acp_id FROM stations WHERE station_id=?`, id)
	var st Station
	var acpID sql.NullInt64
	if err := row.Scan(&st.ID, &st.Name, &acpID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if acpID.Valid {
		st.ACPID = &acpID.Int64
	}
	return &st, nil
}

func (s *stationsStore) ListStations(ctx context.Context) ([]Station, error) {
	return s.list(ctx, `SELECT station_id, name, acp_id FROM stations ORDER BY name ASC`)
}

func (s *stationsStore) ListStationsByACP(ctx context.Context, acpID int64) ([]Station, error) {
	return s.list(ctx, `SELECT station_id, name, acp_id FROM stations WHERE acp_id=? ORDER BY name ASC`, acpID)
}

func (s *stationsStore) ListStationIDsByACP(ctx context.Context, acpID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT station_id FROM stations WHERE acp_id=?`, acpID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *stationsStore) AssignACP(ctx context.Context, stationID, acpID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE stations SET acp_id=? WHERE station_id=?`, acpID, stationID)
	return err
}

func (s *stationsStore) list(ctx context.Context, query string, args ...any) ([]Station, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Station
	for rows.Next() {
		var st Station
		var acpID sql.NullInt64
		if err := rows.Scan(&st.ID, &st.Name, &acpID); err != nil {
			return nil, err
		}
		if acpID.Valid {
			st.ACPID = &acpID.Int64
		}
		res = append(res, st)
	}
	return res, rows.Err()
}
