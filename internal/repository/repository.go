package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-lodging/internal/model"
)

// AccommodationStore persists accommodations.
type AccommodationStore interface {
	GetAccommodation(ctx context.Context, id uint64) (*model.Accommodation, error)
	ListAccommodations(ctx context.Context, f model.AccommodationFilter) ([]model.Accommodation, error)
	CreateAccommodation(ctx context.Context, a *model.Accommodation) error
	UpdateAccommodation(ctx context.Context, a *model.Accommodation) error
	DeleteAccommodation(ctx context.Context, id uint64) error
}

// RoomStore persists the rooms of an accommodation.  LockRoom reads the
// room and holds a write lock on it until the surrounding transaction
// ends; it is how concurrent bookings of one room are serialised.
type RoomStore interface {
	GetRoom(ctx context.Context, id uint64) (*model.Room, error)
	LockRoom(ctx context.Context, id uint64) (*model.Room, error)
	ListRooms(ctx context.Context, accommodationID uint64) ([]model.Room, error)
	CreateRoom(ctx context.Context, r *model.Room) error
	UpdateRoom(ctx context.Context, r *model.Room) error
	DeleteRoom(ctx context.Context, accommodationID, roomID uint64) (bool, error)
}

// BookingStore persists bookings.  FindConflicts and ConflictingRoomIDs
// only consider non-cancelled bookings.
type BookingStore interface {
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	LockBooking(ctx context.Context, id uint64) (*model.Booking, error)
	ListBookings(ctx context.Context, f model.BookingFilter) ([]model.Booking, error)
	CountBookings(ctx context.Context, f model.BookingFilter) (int, error)
	FindConflicts(ctx context.Context, roomID uint64, stay model.DateRange) ([]model.Booking, error)
	ConflictingRoomIDs(ctx context.Context, accommodationID uint64, stay model.DateRange) ([]uint64, error)
	CountOutstandingByAccommodation(ctx context.Context, accommodationID uint64) (int, error)
	CountOutstandingByRoom(ctx context.Context, roomID uint64) (int, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus, cancelledAt *time.Time) error
	UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) error
}

// PaymentStore is the append-only ledger.  There is deliberately no
// update or delete.
type PaymentStore interface {
	AppendPayment(ctx context.Context, p *model.Payment) error
	ListPayments(ctx context.Context, bookingID uint64) ([]model.Payment, error)
	SumPayments(ctx context.Context, bookingID uint64) (int64, error)
}

// ReportStore feeds the reporting aggregator.
type ReportStore interface {
	BookingFacts(ctx context.Context, f model.ReportFilter) ([]model.BookingFact, error)
	RoomRefs(ctx context.Context, accommodationID uint64) ([]model.RoomRef, error)
}

// EventDirectory answers whether a platform event exists.  Events are
// owned by the wider platform; the engine only checks references.
type EventDirectory interface {
	EventExists(ctx context.Context, id uint64) (bool, error)
}

// Stores groups every store reachable inside or outside a transaction.
type Stores interface {
	Accommodations() AccommodationStore
	Rooms() RoomStore
	Bookings() BookingStore
	Payments() PaymentStore
	Reports() ReportStore
	Events() EventDirectory
}

// Tx is a unit of work.  Callers must end it with Commit or Rollback;
// Rollback after Commit is a no-op.
type Tx interface {
	Stores
	Commit() error
	Rollback() error
}

// TxOptions configures Begin.  ReadOnly transactions give reporting a
// consistent snapshot.
type TxOptions struct {
	ReadOnly bool
}

// Store is the entry point handed to services.
type Store interface {
	Stores
	Begin(ctx context.Context, opts TxOptions) (Tx, error)
}

// Querier is satisfied by both *sql.DB and *sql.Tx so every MySQL store
// runs unchanged inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
