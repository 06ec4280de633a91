package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"driveus/internal/domain"
)

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "pickup", "dropoff", "distance_km", "price",
		"pickup_at", "created_at", "status", "deposit_amount", "deposit_paid",
		"payment_status", "payment_session_ref", "payment_confirmation_ref",
		"customer_name", "customer_phone", "customer_email", "notes",
	})
}

func addBookingRow(rows *sqlmock.Rows, id string, createdAt time.Time, status domain.BookingStatus) {
	rows.AddRow(
		id, nil, "Gare de Lyon", "Orly", 18.0, 54.0,
		createdAt, createdAt, string(status), 10.0, false,
		string(domain.PaymentDepositPending), nil, nil,
		nil, nil, nil, nil,
	)
}

func newMockDB(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBookingRepository(db), mock
}

func TestBookingRepository_GetAll_OrdersNewestFirst(t *testing.T) {
	t.Parallel()

	repo, mock := newMockDB(t)

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	rows := bookingRows()
	addBookingRow(rows, "b-new", base.Add(2*time.Hour), domain.BookingStatusPending)
	addBookingRow(rows, "b-old", base, domain.BookingStatusPending)

	mock.ExpectQuery(`SELECT (.+) FROM bookings ORDER BY created_at DESC`).
		WillReturnRows(rows)

	bookings, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(bookings) != 2 || bookings[0].ID != "b-new" || bookings[1].ID != "b-old" {
		t.Errorf("unexpected listing order: %v", bookings)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_GetByStatus_OrdersNewestFirst(t *testing.T) {
	t.Parallel()

	repo, mock := newMockDB(t)

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	rows := bookingRows()
	addBookingRow(rows, "b-new", base.Add(time.Hour), domain.BookingStatusConfirmed)
	addBookingRow(rows, "b-old", base, domain.BookingStatusConfirmed)

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE status = \$1 ORDER BY created_at DESC`).
		WithArgs("confirmed").
		WillReturnRows(rows)

	bookings, err := repo.GetByStatus(context.Background(), domain.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(bookings) != 2 || bookings[0].ID != "b-new" || bookings[1].ID != "b-old" {
		t.Errorf("unexpected listing order: %v", bookings)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_UpdateStatus_StalePreconditionMisses(t *testing.T) {
	t.Parallel()

	repo, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1 WHERE id = \$2 AND status = \$3`).
		WithArgs("confirmed", "booking-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateStatus(context.Background(), "booking-1", domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if ok {
		t.Error("expected a stale precondition to affect zero rows")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_MarkDepositPaid_GuardMisses(t *testing.T) {
	t.Parallel()

	repo, mock := newMockDB(t)

	// Already deposit_paid: the WHERE guard matches no row.
	mock.ExpectExec(`UPDATE bookings`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkDepositPaid(context.Background(), "booking-1", "pi_1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if ok {
		t.Error("expected no row to be affected for a paid deposit")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
