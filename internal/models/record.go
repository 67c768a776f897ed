package models

import (
	"time"
)

// MLPerBottle is the volume of one full bottle in milliliters.
const MLPerBottle = 500

// WaterRecord is one day's consumption for one user. There is exactly one
// row per (user, day); the day is a UTC calendar date in YYYY-MM-DD form.
type WaterRecord struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"userId" db:"user_id"`
	Date         string    `json:"date" db:"day"`
	FullBottles  int       `json:"fullBottles" db:"full_bottles"`
	HalfBottles  int       `json:"halfBottles" db:"half_bottles"`
	TotalBottles float64   `json:"totalBottles" db:"total_bottles"`
	TotalML      float64   `json:"totalML" db:"total_ml"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
