package repository

import (
	"context"
	"database/sql"
)

// repos binds every MySQL repository to one Querier.
type repos struct {
	accommodations *AccommodationRepo
	rooms          *RoomRepo
	bookings       *BookingRepo
	payments       *PaymentRepo
	reports        *ReportRepo
	events         *EventRepo
}

func newRepos(q Querier) repos {
	return repos{
		accommodations: NewAccommodationRepo(q),
		rooms:          NewRoomRepo(q),
		bookings:       NewBookingRepo(q),
		payments:       NewPaymentRepo(q),
		reports:        NewReportRepo(q),
		events:         NewEventRepo(q),
	}
}

func (r repos) Accommodations() AccommodationStore { return r.accommodations }
func (r repos) Rooms() RoomStore                   { return r.rooms }
func (r repos) Bookings() BookingStore             { return r.bookings }
func (r repos) Payments() PaymentStore             { return r.payments }
func (r repos) Reports() ReportStore               { return r.reports }
func (r repos) Events() EventDirectory             { return r.events }

// MySQLStore is the production Store backed by a *sql.DB pool.
type MySQLStore struct {
	repos
	db *sql.DB
}

// NewMySQLStore wraps an open pool.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{repos: newRepos(db), db: db}
}

// DB exposes the pool for health checks and migrations.
func (s *MySQLStore) DB() *sql.DB { return s.db }

// Begin starts a transaction.  Read-write transactions run at InnoDB's
// default REPEATABLE READ; correctness of check-then-insert relies on the
// explicit row locks taken by LockRoom and LockBooking, not on the
// isolation level.
func (s *MySQLStore) Begin(ctx context.Context, opts TxOptions) (Tx, error) {
	txOpts := &sql.TxOptions{ReadOnly: opts.ReadOnly}
	if opts.ReadOnly {
		txOpts.Isolation = sql.LevelRepeatableRead
	}
	tx, err := s.db.BeginTx(ctx, txOpts)
	if err != nil {
		return nil, err
	}
	return &mysqlTx{repos: newRepos(tx), tx: tx}, nil
}

type mysqlTx struct {
	repos
	tx   *sql.Tx
	done bool
}

func (t *mysqlTx) Commit() error {
	t.done = true
	return t.tx.Commit()
}

func (t *mysqlTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}
