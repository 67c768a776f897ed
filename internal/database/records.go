package database

import (
	"database/sql"
	"time"

	"github.com/hydrolog-io/hydrolog/internal/models"
)

// RecordStore provides access to the per-day water_records table. It
// satisfies the water.Store interface.
type RecordStore struct{}

// NewRecordStore returns a store backed by the shared connection.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Upsert writes the record for (user, day) with a single conditional
// insert-or-replace against the UNIQUE(user_id, day) constraint. Concurrent
// calls for the same key serialize into one row, last writer wins. The
// stored row is read back so the caller sees the surviving id and
// created_at.
func (s *RecordStore) Upsert(rec *models.WaterRecord) (*models.WaterRecord, error) {
	now := time.Now().UTC()
	var err error

	if dbType == "postgres" {
		_, err = dbConn.Exec(
			`INSERT INTO water_records (id, user_id, day, full_bottles, half_bottles, total_bottles, total_ml, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (user_id, day) DO UPDATE SET
				full_bottles = EXCLUDED.full_bottles,
				half_bottles = EXCLUDED.half_bottles,
				total_bottles = EXCLUDED.total_bottles,
				total_ml = EXCLUDED.total_ml,
				updated_at = EXCLUDED.updated_at`,
			GenerateID(), rec.UserID, rec.Date, rec.FullBottles, rec.HalfBottles, rec.TotalBottles, rec.TotalML, now, now,
		)
	} else {
		_, err = dbConn.Exec(
			`INSERT INTO water_records (id, user_id, day, full_bottles, half_bottles, total_bottles, total_ml, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, day) DO UPDATE SET
				full_bottles = excluded.full_bottles,
				half_bottles = excluded.half_bottles,
				total_bottles = excluded.total_bottles,
				total_ml = excluded.total_ml,
				updated_at = excluded.updated_at`,
			GenerateID(), rec.UserID, rec.Date, rec.FullBottles, rec.HalfBottles, rec.TotalBottles, rec.TotalML, now, now,
		)
	}
	if err != nil {
		return nil, err
	}

	return s.Get(rec.UserID, rec.Date)
}

// Get returns the record for (user, day), or nil when none exists.
func (s *RecordStore) Get(userID, day string) (*models.WaterRecord, error) {
	rec := &models.WaterRecord{}
	var err error

	if dbType == "postgres" {
		err = dbConn.QueryRow(
			`SELECT id, user_id, day, full_bottles, half_bottles, total_bottles, total_ml, created_at, updated_at
			FROM water_records WHERE user_id = $1 AND day = $2`,
			userID, day,
		).Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.FullBottles, &rec.HalfBottles, &rec.TotalBottles, &rec.TotalML, &rec.CreatedAt, &rec.UpdatedAt)
	} else {
		err = dbConn.QueryRow(
			`SELECT id, user_id, day, full_bottles, half_bottles, total_bottles, total_ml, created_at, updated_at
			FROM water_records WHERE user_id = ? AND day = ?`,
			userID, day,
		).Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.FullBottles, &rec.HalfBottles, &rec.TotalBottles, &rec.TotalML, &rec.CreatedAt, &rec.UpdatedAt)
	}

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns up to limit records for the user, newest day first. The
// result is fully materialized before return.
func (s *RecordStore) List(userID string, limit int) ([]*models.WaterRecord, error) {
	var rows *sql.Rows
	var err error

	if dbType == "postgres" {
		rows, err = dbConn.Query(
			`SELECT id, user_id, day, full_bottles, half_bottles, total_bottles, total_ml, created_at, updated_at
			FROM water_records WHERE user_id = $1 ORDER BY day DESC LIMIT $2`,
			userID, limit,
		)
	} else {
		rows, err = dbConn.Query(
			`SELECT id, user_id, day, full_bottles, half_bottles, total_bottles, total_ml, created_at, updated_at
			FROM water_records WHERE user_id = ? ORDER BY day DESC LIMIT ?`,
			userID, limit,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.WaterRecord{}
	for rows.Next() {
		rec := &models.WaterRecord{}
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.FullBottles, &rec.HalfBottles, &rec.TotalBottles, &rec.TotalML, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
