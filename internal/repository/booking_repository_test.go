package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-lodging/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var bookingCols = []string{
	"id", "user_id", "event_id", "room_id", "accommodation_id", "check_in_date", "check_out_date",
	"nights", "total_price_cents", "amount_paid_cents", "status", "payment_status", "payment_method",
	"special_requests", "cancelled_at", "created_at", "updated_at",
}

func bookingRow(id int64, in, out time.Time, status string) []driver.Value {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	return []driver.Value{id, 5, 1, 11, 2, in, out, 4, 40000, 1000, status, "partial", nil, nil, nil, now, now}
}

func rowsOf(cols []string, rows ...[]driver.Value) *sqlmock.Rows {
	r := sqlmock.NewRows(cols)
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

func TestFindConflictsUsesHalfOpenOverlap(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)
	in := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	out := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.room_id = ? AND b.status <> 'cancelled'")).
		WithArgs(11, "2025-05-05", "2025-05-01").
		WillReturnRows(rowsOf(bookingCols, bookingRow(9, in, out, "confirmed")))

	got, err := repo.FindConflicts(context.Background(), 11, model.DateRange{CheckIn: in, CheckOut: out})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.EqualValues(t, 9, got[0].ID)
	assert.Equal(t, model.BookingConfirmed, got[0].Status)
	assert.Equal(t, model.PaymentPartial, got[0].PaymentStatus)
	assert.EqualValues(t, 1000, got[0].AmountPaidCents)
	assert.Nil(t, got[0].PaymentMethod)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockBookingNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = ? FOR UPDATE")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := NewBookingRepo(db).LockBooking(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsFilterAndPagination(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.user_id = ? AND b.status = ? ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?")).
		WithArgs(5, "pending", 20, 40).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	got, err := NewBookingRepo(db).ListBookings(context.Background(), model.BookingFilter{
		UserID: 5, Status: model.BookingPending, Limit: 20, Offset: 40,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatusMissingRow(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accommodation_bookings")).
		WithArgs("confirmed", sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewBookingRepo(db).UpdateBookingStatus(context.Background(), 3, model.BookingConfirmed, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRoomDuplicateNumber(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accommodation_rooms")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := NewRoomRepo(db).CreateRoom(context.Background(), &model.Room{AccommodationID: 1, RoomNumber: "101", RoomType: "double", Capacity: 2})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestDeleteRoomReportsMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accommodation_rooms")).
		WithArgs(9, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accommodation_rooms")).
		WithArgs(10, 1).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "foreign key"})

	repo := NewRoomRepo(db)
	deleted, err := repo.DeleteRoom(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.DeleteRoom(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestEventExists(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM events WHERE id = ?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM events WHERE id = ?")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := NewEventRepo(db)
	ok, err := repo.EventExists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.EventExists(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSumPaymentsCoalesces(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount_cents), 0) FROM accommodation_payments")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(25000)))

	total, err := NewPaymentRepo(db).SumPayments(context.Background(), 7)
	require.NoError(t, err)
	assert.EqualValues(t, 25000, total)
}

func TestMySQLStoreCommit(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accommodation_bookings SET payment_status = ?")).
		WithArgs("completed", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := NewMySQLStore(db)
	tx, err := store.Begin(context.Background(), TxOptions{})
	require.NoError(t, err)
	defer tx.Rollback()
	require.NoError(t, tx.Bookings().UpdatePaymentStatus(context.Background(), 4, model.PaymentCompleted))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
