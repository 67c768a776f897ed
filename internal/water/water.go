// Package water implements the per-user, per-day consumption ledger. Each
// user has at most one record per calendar day; writes replace the whole
// record, and the derived totals are always recomputed from the two counts.
package water

import (
	"errors"
	"time"

	"github.com/hydrolog-io/hydrolog/internal/models"
)

// HistoryLimit is the number of days returned by History.
const HistoryLimit = 30

var ErrInvalidQuantity = errors.New("bottle counts must be non-negative integers")

// Store is the durable ledger keyed by (user, day). Upsert must be an atomic
// create-or-replace backed by a uniqueness constraint, never a read followed
// by a write. Get returns nil when no row exists for the key.
type Store interface {
	Upsert(rec *models.WaterRecord) (*models.WaterRecord, error)
	Get(userID, day string) (*models.WaterRecord, error)
	List(userID string, limit int) ([]*models.WaterRecord, error)
}

// Engine enforces the one-record-per-user-per-day invariant and derives
// aggregate fields.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// DayKey returns the ledger key for t: the UTC calendar date. All records
// attach to UTC midnight boundaries.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Totals computes the derived fields from the two counts. Stored totals are
// a read projection of this rule and are never trusted independently.
func Totals(fullBottles, halfBottles int) (totalBottles, totalML float64) {
	totalBottles = float64(fullBottles) + 0.5*float64(halfBottles)
	totalML = totalBottles * models.MLPerBottle
	return totalBottles, totalML
}

// Today returns the caller's record for the current day, or a zero-valued
// record when none exists. It never creates a row.
func (e *Engine) Today(userID string) (*models.WaterRecord, error) {
	day := DayKey(time.Now())
	rec, err := e.store.Get(userID, day)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &models.WaterRecord{UserID: userID, Date: day}, nil
	}
	return rec, nil
}

// Upsert replaces today's counts and derived totals for the caller. Applying
// the same counts any number of times yields the same stored state.
func (e *Engine) Upsert(userID string, fullBottles, halfBottles int) (*models.WaterRecord, error) {
	if fullBottles < 0 || halfBottles < 0 {
		return nil, ErrInvalidQuantity
	}

	totalBottles, totalML := Totals(fullBottles, halfBottles)
	rec := &models.WaterRecord{
		UserID:       userID,
		Date:         DayKey(time.Now()),
		FullBottles:  fullBottles,
		HalfBottles:  halfBottles,
		TotalBottles: totalBottles,
		TotalML:      totalML,
	}

	return e.store.Upsert(rec)
}

// History returns up to HistoryLimit of the caller's records, newest day
// first, as a fully materialized slice.
func (e *Engine) History(userID string) ([]*models.WaterRecord, error) {
	records, err := e.store.List(userID, HistoryLimit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.WaterRecord{}
	}
	return records, nil
}
