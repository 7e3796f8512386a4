// Package memory is an in-process implementation of repository.Store.  It
// backs STORE_DRIVER=memory and the service and handler tests.
//
// Transactions serialise on a single mutex held from Begin until Commit or
// Rollback.  A read-write transaction works on a copy of the data that
// replaces the committed state on Commit, so a rolled back transaction
// leaves no trace.  Calls made outside a transaction take the same mutex
// for the duration of the call.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// ErrReadOnly is returned when a write is attempted inside a read-only
// transaction.
var ErrReadOnly = errors.New("memory: write in read-only transaction")

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

type state struct {
	accommodations map[uint64]model.Accommodation
	rooms          map[uint64]model.Room
	bookings       map[uint64]model.Booking
	payments       []model.Payment
	events         map[uint64]struct{}

	nextAccommodation uint64
	nextRoom          uint64
	nextBooking       uint64
	nextPayment       uint64
}

func newState() *state {
	return &state{
		accommodations: map[uint64]model.Accommodation{},
		rooms:          map[uint64]model.Room{},
		bookings:       map[uint64]model.Booking{},
		events:         map[uint64]struct{}{},
	}
}

func (s *state) clone() *state {
	c := *s
	c.accommodations = make(map[uint64]model.Accommodation, len(s.accommodations))
	for k, v := range s.accommodations {
		c.accommodations[k] = v
	}
	c.rooms = make(map[uint64]model.Room, len(s.rooms))
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	c.bookings = make(map[uint64]model.Booking, len(s.bookings))
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	c.payments = append([]model.Payment(nil), s.payments...)
	c.events = make(map[uint64]struct{}, len(s.events))
	for k := range s.events {
		c.events[k] = struct{}{}
	}
	return &c
}

// Option configures a Store.
type Option func(*Store)

// WithEvents seeds the event directory.
func WithEvents(ids ...uint64) Option {
	return func(s *Store) {
		for _, id := range ids {
			s.st.events[id] = struct{}{}
		}
	}
}

// WithClock overrides the source of created_at/updated_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the in-memory repository.Store.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{st: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddEvent registers an event id outside any transaction.
func (s *Store) AddEvent(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.events[id] = struct{}{}
}

func (s *Store) view() *view { return &view{store: s} }

func (s *Store) Accommodations() repository.AccommodationStore { return s.view() }
func (s *Store) Rooms() repository.RoomStore                   { return s.view() }
func (s *Store) Bookings() repository.BookingStore             { return s.view() }
func (s *Store) Payments() repository.PaymentStore             { return s.view() }
func (s *Store) Reports() repository.ReportStore               { return s.view() }
func (s *Store) Events() repository.EventDirectory             { return s.view() }

// Begin blocks until no other transaction is open.
func (s *Store) Begin(ctx context.Context, opts repository.TxOptions) (repository.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	t := &tx{store: s, readOnly: opts.ReadOnly}
	if opts.ReadOnly {
		t.st = s.st
	} else {
		t.st = s.st.clone()
	}
	return t, nil
}

type tx struct {
	store    *Store
	st       *state
	readOnly bool
	done     bool
}

func (t *tx) view() *view { return &view{store: t.store, tx: t} }

func (t *tx) Accommodations() repository.AccommodationStore { return t.view() }
func (t *tx) Rooms() repository.RoomStore                   { return t.view() }
func (t *tx) Bookings() repository.BookingStore             { return t.view() }
func (t *tx) Payments() repository.PaymentStore             { return t.view() }
func (t *tx) Reports() repository.ReportStore               { return t.view() }
func (t *tx) Events() repository.EventDirectory             { return t.view() }

func (t *tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	if !t.readOnly {
		t.store.st = t.st
	}
	t.store.mu.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

// view implements every store port over either the committed state or a
// transaction's working copy.
type view struct {
	store *Store
	tx    *tx
}

func (v *view) read(fn func(st *state) error) error {
	if v.tx != nil {
		if v.tx.done {
			return ErrTxDone
		}
		return fn(v.tx.st)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func (v *view) write(fn func(st *state) error) error {
	if v.tx != nil && v.tx.readOnly {
		return ErrReadOnly
	}
	return v.read(fn)
}

func (v *view) now() time.Time { return v.store.now().UTC() }
