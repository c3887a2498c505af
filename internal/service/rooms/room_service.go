package rooms

import (
	"context"

	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
	"github.com/moeageli22/TravelInn-app-sub000/internal/repository"
)

type RoomUseCase interface {
	List(ctx context.Context) ([]domain.Room, error)
	GetByName(ctx context.Context, hotelName, roomName string) (*domain.Room, error)
}

// Cache is the read-through room catalog cache.
type Cache interface {
	GetRooms(ctx context.Context) ([]domain.Room, error)
	SetRooms(ctx context.Context, rooms []domain.Room) error
}

type RoomService struct {
	repo  repository.RoomRepository
	cache Cache
}

func NewRoomService(repo repository.RoomRepository, cache Cache) *RoomService {
	return &RoomService{repo: repo, cache: cache}
}

func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRooms(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetRooms(ctx, rooms)
	}
	return rooms, nil
}

func (s *RoomService) GetByName(ctx context.Context, hotelName, roomName string) (*domain.Room, error) {
	return s.repo.GetByName(ctx, hotelName, roomName)
}

var _ RoomUseCase = (*RoomService)(nil)
