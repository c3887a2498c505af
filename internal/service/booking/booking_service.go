package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/moeageli22/TravelInn-app-sub000/internal/clock"
	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
	"github.com/moeageli22/TravelInn-app-sub000/internal/email"
	"github.com/moeageli22/TravelInn-app-sub000/internal/kafka"
	"github.com/moeageli22/TravelInn-app-sub000/internal/pricing"
	"github.com/moeageli22/TravelInn-app-sub000/internal/repository"
)

type BookingUseCase interface {
	Confirm(ctx context.Context, input ConfirmBookingInput, ownerID string) (*ConfirmationResult, error)
	Cancel(ctx context.Context, confirmationID, ownerID string) (*domain.Booking, error)
	ListForUser(ctx context.Context, ownerID string) ([]domain.Booking, error)
}

type Cache interface {
	AcquireBookingHold(ctx context.Context, userID, hotelName, roomName string, checkIn, checkOut time.Time, ttl time.Duration) (bool, error)
	ReleaseBookingHold(ctx context.Context, userID, hotelName, roomName string, checkIn, checkOut time.Time) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type RoomSelection struct {
	HotelName        string `json:"hotel_name"`
	RoomName         string `json:"room_name"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
	MaxGuests        int    `json:"max_guests"`
}

// CardDetails exists only for the lifetime of the request.
type CardDetails struct {
	HolderName string
	Number     string
	Expiry     string
	CVV        string
}

type ConfirmBookingInput struct {
	Room            RoomSelection
	CheckIn         time.Time
	CheckOut        time.Time
	GuestCount      int
	ContactEmail    string
	PaymentMethod   domain.PaymentMethod
	Card            *CardDetails
	SpecialRequests string
}

// ConfirmationResult reports every terminal outcome of a confirm attempt.
// A persisted booking with NotifyErr set means the booking stands but
// delivery of the confirmation message is uncertain.
type ConfirmationResult struct {
	Booking   *domain.Booking
	Notified  bool
	NotifyErr error
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	notifier           email.Sender
	clk                clock.Clock
	bookingEventsTopic string
	notificationsTopic string
	holdTTL            time.Duration
	persistTimeout     time.Duration
	notifyTimeout      time.Duration
}

type BookingServiceOption func(*BookingService)

func WithClock(clk clock.Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.clk = clk
	}
}

func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingEventsTopic = topic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCache(cache Cache, holdTTL time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
		s.holdTTL = holdTTL
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	notifier email.Sender,
	persistTimeout, notifyTimeout time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		notifier:       notifier,
		clk:            clock.NewSystem(),
		persistTimeout: persistTimeout,
		notifyTimeout:  notifyTimeout,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Confirm runs validate -> persist -> notify. Validation failures reject the
// attempt before any external call. A persist failure means the booking was
// not created and the caller must retry; the retry gets a fresh confirmation
// id. A notify failure never rolls back the persisted booking.
func (s *BookingService) Confirm(ctx context.Context, input ConfirmBookingInput, ownerID string) (*ConfirmationResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	held := false
	if s.cache != nil {
		ok, err := s.cache.AcquireBookingHold(ctx, ownerID, input.Room.HotelName, input.Room.RoomName, input.CheckIn, input.CheckOut, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrBookingInProgress
		}
		held = true
		defer func() {
			if held {
				_ = s.cache.ReleaseBookingHold(ctx, ownerID, input.Room.HotelName, input.Room.RoomName, input.CheckIn, input.CheckOut)
			}
		}()
	}

	nights, err := pricing.Nights(input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		ConfirmationID:   NewConfirmationID(),
		UserID:           ownerID,
		HotelName:        input.Room.HotelName,
		RoomName:         input.Room.RoomName,
		CheckIn:          input.CheckIn,
		CheckOut:         input.CheckOut,
		Nights:           nights,
		NightlyRateCents: input.Room.NightlyRateCents,
		TotalCents:       pricing.Total(nights, input.Room.NightlyRateCents),
		GuestCount:       input.GuestCount,
		ContactEmail:     input.ContactEmail,
		PaymentMethod:    input.PaymentMethod,
		PaymentStatus:    domain.PaymentStatusPaid,
		SpecialRequests:  input.SpecialRequests,
		Status:           domain.BookingStatusConfirmed,
		CreatedAt:        s.clk.Now(),
	}

	persistCtx, cancelPersist := context.WithTimeout(ctx, s.persistTimeout)
	defer cancelPersist()
	if err := s.bookings.InsertIfAbsent(persistCtx, b); err != nil {
		return nil, fmt.Errorf("booking was not created: %w", err)
	}

	if err := s.publish(ctx, "booking_confirmed", b); err != nil {
		log.Printf("WARNING: failed to publish booking_confirmed event for %s: %v", b.ConfirmationID, err)
	}

	result := &ConfirmationResult{Booking: b, Notified: true}
	notifyCtx, cancelNotify := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancelNotify()
	if err := s.notifier.Send(notifyCtx, b.ContactEmail, email.ConfirmationSubject(b), email.ConfirmationBody(b)); err != nil {
		result.Notified = false
		result.NotifyErr = err
	}
	return result, nil
}

// Cancel is owner-only and irreversible. A stay whose check-out is already in
// the past can no longer be cancelled.
func (s *BookingService) Cancel(ctx context.Context, confirmationID, ownerID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByConfirmationID(ctx, confirmationID)
	if err != nil {
		return nil, err
	}
	if current.UserID != ownerID {
		return nil, domain.ErrNotOwner
	}
	if current.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if s.clk.Now().After(current.CheckOut) {
		return nil, domain.ErrStayCompleted
	}

	updated, err := s.bookings.UpdateStatusOwned(ctx, confirmationID, ownerID, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, "booking_cancelled", updated); err != nil {
		log.Printf("WARNING: failed to publish booking_cancelled event for %s: %v", updated.ConfirmationID, err)
	}
	return updated, nil
}

func (s *BookingService) ListForUser(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, ownerID)
}

// PurgeCancelled removes cancelled bookings older than the retention window.
func (s *BookingService) PurgeCancelled(ctx context.Context, retention time.Duration) (int64, error) {
	return s.bookings.PurgeCancelledBefore(ctx, s.clk.Now().Add(-retention))
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) error {
	if s.producer == nil || s.bookingEventsTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		ConfirmationID:  b.ConfirmationID,
		HotelName:       b.HotelName,
		RoomName:        b.RoomName,
		Email:           b.ContactEmail,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		Nights:          b.Nights,
		TotalCents:      b.TotalCents,
		GuestCount:      b.GuestCount,
		SpecialRequests: b.SpecialRequests,
		Status:          string(b.Status),
	}
	if err := s.producer.Publish(ctx, s.bookingEventsTopic, b.ConfirmationID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, b.ConfirmationID, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
