package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moeageli22/TravelInn-app-sub000/config"
	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	roomsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, roomsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		roomsTTL: roomsTTL,
	}
}

func (c *RedisCache) GetRooms(ctx context.Context) ([]domain.Room, error) {
	data, err := c.client.Get(ctx, roomsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var rooms []domain.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *RedisCache) SetRooms(ctx context.Context, rooms []domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, roomsKey(), payload, c.roomsTTL).Err()
}

// AcquireBookingHold guards against a double-submit: the same user booking the
// same room for the same stay range holds the key until the confirm attempt
// finishes or the TTL runs out.
func (c *RedisCache) AcquireBookingHold(ctx context.Context, userID, hotelName, roomName string, checkIn, checkOut time.Time, ttl time.Duration) (bool, error) {
	key := bookingHoldKey(userID, hotelName, roomName, checkIn, checkOut)
	return c.client.SetNX(ctx, key, "held", ttl).Result()
}

func (c *RedisCache) ReleaseBookingHold(ctx context.Context, userID, hotelName, roomName string, checkIn, checkOut time.Time) error {
	return c.client.Del(ctx, bookingHoldKey(userID, hotelName, roomName, checkIn, checkOut)).Err()
}

func roomsKey() string {
	return "cache:rooms"
}

func bookingHoldKey(userID, hotelName, roomName string, checkIn, checkOut time.Time) string {
	return fmt.Sprintf("hold:booking:%s:%s:%s:%s:%s", userID, hotelName, roomName, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
}
