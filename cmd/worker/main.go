package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moeageli22/TravelInn-app-sub000/config"
	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
	"github.com/moeageli22/TravelInn-app-sub000/internal/email"
	"github.com/moeageli22/TravelInn-app-sub000/internal/kafka"
	"github.com/moeageli22/TravelInn-app-sub000/internal/repository"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	bookingRepo := repository.NewBookingRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewLogSender()
	maxRetries := cfg.Worker.SendMaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			// Confirmation mail is sent inline by the booking workflow; the
			// worker only handles follow-up notifications.
			if event.Type != "booking_cancelled" {
				return nil
			}
			b := bookingFromEvent(event)
			if err := email.SendWithRetry(ctx, sender, b.ContactEmail, email.CancellationSubject(b), email.CancellationBody(b), maxRetries); err != nil {
				log.Printf("send cancellation mail for %s: %v", b.ConfirmationID, err)
			}
			return nil
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepInterval := time.Duration(cfg.Worker.RetentionSweepMinutes) * time.Minute
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	retention := time.Duration(cfg.Booking.CancelledRetentionDays) * 24 * time.Hour

	sweepTicker := time.NewTicker(sweepInterval)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			if retention <= 0 {
				continue
			}
			purged, err := bookingRepo.PurgeCancelledBefore(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				log.Printf("purge cancelled bookings error: %v", err)
				continue
			}
			if purged > 0 {
				log.Printf("purged %d cancelled bookings", purged)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}

func bookingFromEvent(event kafka.BookingEvent) *domain.Booking {
	return &domain.Booking{
		ConfirmationID:  event.ConfirmationID,
		HotelName:       event.HotelName,
		RoomName:        event.RoomName,
		ContactEmail:    event.Email,
		CheckIn:         event.CheckIn,
		CheckOut:        event.CheckOut,
		Nights:          event.Nights,
		TotalCents:      event.TotalCents,
		GuestCount:      event.GuestCount,
		SpecialRequests: event.SpecialRequests,
		Status:          domain.BookingStatus(event.Status),
	}
}
