package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
)

type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	GetByName(ctx context.Context, hotelName, roomName string) (*domain.Room, error)
}

type PGRoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) RoomRepository {
	return &PGRoomRepository{db: db}
}

func (r *PGRoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT id, hotel_name, name, description, nightly_rate_cents, max_guests, created_at, updated_at FROM rooms ORDER BY hotel_name, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.HotelName, &rm.Name, &rm.Description, &rm.NightlyRateCents, &rm.MaxGuests, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}

func (r *PGRoomRepository) GetByName(ctx context.Context, hotelName, roomName string) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT id, hotel_name, name, description, nightly_rate_cents, max_guests, created_at, updated_at FROM rooms WHERE hotel_name=$1 AND name=$2`, hotelName, roomName)
	var rm domain.Room
	if err := row.Scan(&rm.ID, &rm.HotelName, &rm.Name, &rm.Description, &rm.NightlyRateCents, &rm.MaxGuests, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

var _ RoomRepository = (*PGRoomRepository)(nil)
