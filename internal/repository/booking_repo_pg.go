package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
)

type BookingRepository interface {
	InsertIfAbsent(ctx context.Context, booking *domain.Booking) error
	GetByConfirmationID(ctx context.Context, confirmationID string) (*domain.Booking, error)
	UpdateStatusOwned(ctx context.Context, confirmationID, userID string, status domain.BookingStatus) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	PurgeCancelledBefore(ctx context.Context, deadline time.Time) (int64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, confirmation_id, user_id, hotel_name, room_name, check_in, check_out, nights, nightly_rate_cents, total_cents, guest_count, contact_email, payment_method, payment_status, special_requests, status, created_at, updated_at`

// InsertIfAbsent writes the booking keyed by its confirmation id. A duplicate
// key inserts nothing and returns ErrConfirmationConflict, so of two
// concurrent writers with the same id exactly one wins.
func (r *PGBookingRepository) InsertIfAbsent(ctx context.Context, booking *domain.Booking) error {
	err := r.db.QueryRow(ctx, `INSERT INTO bookings
		(confirmation_id, user_id, hotel_name, room_name, check_in, check_out, nights, nightly_rate_cents, total_cents, guest_count, contact_email, payment_method, payment_status, special_requests, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (confirmation_id) DO NOTHING
		RETURNING id, created_at, updated_at`,
		booking.ConfirmationID, booking.UserID, booking.HotelName, booking.RoomName,
		booking.CheckIn, booking.CheckOut, booking.Nights, booking.NightlyRateCents,
		booking.TotalCents, booking.GuestCount, booking.ContactEmail, booking.PaymentMethod,
		booking.PaymentStatus, booking.SpecialRequests, booking.Status, booking.CreatedAt).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrConfirmationConflict
	}
	return err
}

func (r *PGBookingRepository) GetByConfirmationID(ctx context.Context, confirmationID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE confirmation_id=$1`, confirmationID)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatusOwned is owner-guarded: the row only changes when both the
// confirmation id and the owning user match.
func (r *PGBookingRepository) UpdateStatusOwned(ctx context.Context, confirmationID, userID string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE confirmation_id=$2 AND user_id=$3
		RETURNING `+bookingColumns, status, confirmationID, userID)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) PurgeCancelledBefore(ctx context.Context, deadline time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE status=$1 AND updated_at <= $2`,
		domain.BookingStatusCancelled, deadline)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.ConfirmationID, &b.UserID, &b.HotelName, &b.RoomName,
		&b.CheckIn, &b.CheckOut, &b.Nights, &b.NightlyRateCents, &b.TotalCents,
		&b.GuestCount, &b.ContactEmail, &b.PaymentMethod, &b.PaymentStatus,
		&b.SpecialRequests, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
