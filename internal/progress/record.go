// Package progress stores each user's points and daily attempt counter.
package progress

import (
	"errors"
	"time"
)

// DateLayout is the ISO date format used for DailyAttempts.Date.
const DateLayout = "2006-01-02"

// ErrInsufficientPoints is returned by Reserve when the balance is too low.
var ErrInsufficientPoints = errors.New("insufficient points")

// DailyAttempts counts problems generated on Date.
type DailyAttempts struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Record is one user's progress.
type Record struct {
	Points        int           `json:"points"`
	DailyAttempts DailyAttempts `json:"dailyAttempts"`
}

// Today formats t as an attempts date. Dates are UTC calendar days so the
// rollover instant does not depend on the machine's time zone.
func Today(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Default returns a fresh record for today.
func Default(today string) Record {
	return Record{DailyAttempts: DailyAttempts{Date: today}}
}

// RolloverIfStale resets the attempt counter when it belongs to another day.
// It is the only place that applies the date policy.
func RolloverIfStale(r Record, today string) Record {
	if r.DailyAttempts.Date != today {
		r.DailyAttempts = DailyAttempts{Date: today}
	}
	return r
}

// RecordAttempt rolls over if needed and counts one generated problem.
func (r *Record) RecordAttempt(today string) {
	*r = RolloverIfStale(*r, today)
	r.DailyAttempts.Count++
}

// AttemptsLeft reports how many problems may still be generated today.
func (r Record) AttemptsLeft(today string, max int) int {
	left := max - RolloverIfStale(r, today).DailyAttempts.Count
	if left < 0 {
		return 0
	}
	return left
}

// Award credits points.
func (r *Record) Award(points int) {
	r.Points += points
}

// Reservation is a pending debit against a Record. Exactly one of Commit or
// Release takes effect; later calls are no-ops.
type Reservation struct {
	record  *Record
	amount  int
	settled bool
}

// Reserve debits cost immediately and returns the pending reservation.
func (r *Record) Reserve(cost int) (*Reservation, error) {
	if r.Points < cost {
		return nil, ErrInsufficientPoints
	}
	r.Points -= cost
	return &Reservation{record: r, amount: cost}, nil
}

// Amount is the reserved cost.
func (res *Reservation) Amount() int { return res.amount }

// Commit keeps the debit.
func (res *Reservation) Commit() {
	res.settled = true
}

// Release refunds the debit. It reports whether a refund happened.
func (res *Reservation) Release() bool {
	if res.settled {
		return false
	}
	res.settled = true
	res.record.Points += res.amount
	return true
}

// validate reports whether a decoded record is well formed.
func (r Record) validate() bool {
	if r.Points < 0 || r.DailyAttempts.Count < 0 {
		return false
	}
	_, err := time.Parse(DateLayout, r.DailyAttempts.Date)
	return err == nil
}
