package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moeageli22/TravelInn-app-sub000/config"
	"github.com/moeageli22/TravelInn-app-sub000/internal/bootstrap"
	"github.com/moeageli22/TravelInn-app-sub000/internal/cache"
	"github.com/moeageli22/TravelInn-app-sub000/internal/email"
	"github.com/moeageli22/TravelInn-app-sub000/internal/kafka"
	"github.com/moeageli22/TravelInn-app-sub000/internal/repository"
	"github.com/moeageli22/TravelInn-app-sub000/internal/service/booking"
	"github.com/moeageli22/TravelInn-app-sub000/internal/service/rooms"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.RoomsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	roomRepo := repository.NewRoomRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	roomService := rooms.NewRoomService(roomRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		email.NewLogSender(),
		time.Duration(cfg.Booking.PersistTimeoutSeconds)*time.Second,
		time.Duration(cfg.Booking.NotifyTimeoutSeconds)*time.Second,
		booking.WithCache(redisCache, time.Duration(cfg.Booking.HoldTTLSeconds)*time.Second),
		booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, roomService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
