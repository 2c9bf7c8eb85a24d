package store

import (
	"context"
	"database/sql"
	"strings"
)

type CrimeType struct {
	ID      int64  `json:"crime_type_id"`
	Heading string `json:"heading"`
	Type    string `json:"type"`
}

type CrimeTypesStore interface {
	CreateCrimeType(ctx context.Context, ct *CrimeType) (int64, error)
	ListCrimeTypes(ctx context.Context) ([]CrimeType, error)
}

type crimeTypesStore struct {
	db *sql.DB
}

func NewCrimeTypesStore(db *sql.DB) CrimeTypesStore {
	return &crimeTypesStore{db: db}
}

func (s *crimeTypesStore) CreateCrimeType(ctx context.Context, ct *CrimeType) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO crime_types(heading, type) VALUES(?,?)`,
		strings.TrimSpace(ct.Heading), strings.TrimSpace(ct.Type))
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	ct.ID = id
	return id, nil
}

func (s *crimeTypesStore) ListCrimeTypes(ctx context.Context) ([]CrimeType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT crime_type_id, heading, type FROM crime_types ORDER BY heading ASC, crime_type_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []CrimeType
	for rows.Next() {
		var ct CrimeType
		if err := rows.Scan(&ct.ID, &ct.Heading, &ct.Type); err != nil {
			return nil, err
		}
		res = append(res, ct)
	}
	return res, rows.Err()
}
