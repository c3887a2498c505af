package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moeageli22/TravelInn-app-sub000/internal/clock"
	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) InsertIfAbsent(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByConfirmationID(ctx context.Context, confirmationID string) (*domain.Booking, error) {
	args := m.Called(ctx, confirmationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatusOwned(ctx context.Context, confirmationID, userID string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, confirmationID, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) PurgeCancelledBefore(ctx context.Context, deadline time.Time) (int64, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireBookingHold(ctx context.Context, userID, hotelName, roomName string, checkIn, checkOut time.Time, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, userID, hotelName, roomName, checkIn, checkOut, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseBookingHold(ctx context.Context, userID, hotelName, roomName string, checkIn, checkOut time.Time) error {
	args := m.Called(ctx, userID, hotelName, roomName, checkIn, checkOut)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validInput() ConfirmBookingInput {
	return ConfirmBookingInput{
		Room: RoomSelection{
			HotelName:        "Grand Palace",
			RoomName:         "Deluxe King",
			NightlyRateCents: 68000,
			MaxGuests:        3,
		},
		CheckIn:       date(2025, 6, 1),
		CheckOut:      date(2025, 6, 4),
		GuestCount:    2,
		ContactEmail:  "guest@example.com",
		PaymentMethod: domain.PaymentMethodCard,
		Card: &CardDetails{
			HolderName: "A Guest",
			Number:     "4242424242424242",
			Expiry:     "12/27",
			CVV:        "123",
		},
	}
}

func newTestService(repo *MockBookingRepository, notifier *MockNotifier, opts ...BookingServiceOption) *BookingService {
	opts = append([]BookingServiceOption{WithClock(clock.NewFixed(testNow))}, opts...)
	return NewBookingService(repo, notifier, time.Second, time.Second, opts...)
}

func TestConfirm_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, mockNotifier)

	mockRepo.On("InsertIfAbsent", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockNotifier.On("Send", mock.Anything, "guest@example.com", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.Confirm(context.Background(), validInput(), "user-1")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.Notified)
	assert.NoError(t, result.NotifyErr)

	b := result.Booking
	assert.Equal(t, "user-1", b.UserID)
	assert.Equal(t, 3, b.Nights)
	assert.Equal(t, int64(204000), b.TotalCents)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	assert.Equal(t, domain.PaymentStatusPaid, b.PaymentStatus)
	assert.Equal(t, testNow, b.CreatedAt)
	assert.Contains(t, b.ConfirmationID, "TI-")

	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestConfirm_ValidationRejectsBeforeAnyExternalCall(t *testing.T) {
	testCases := []struct {
		name         string
		mutate       func(*ConfirmBookingInput)
		expectedCode domain.ValidationCode
	}{
		{
			name:         "check-out before check-in",
			mutate:       func(in *ConfirmBookingInput) { in.CheckOut = date(2025, 5, 30) },
			expectedCode: domain.CodeBadDateRange,
		},
		{
			name:         "check-out equals check-in",
			mutate:       func(in *ConfirmBookingInput) { in.CheckOut = in.CheckIn },
			expectedCode: domain.CodeBadDateRange,
		},
		{
			name:         "zero guests",
			mutate:       func(in *ConfirmBookingInput) { in.GuestCount = 0 },
			expectedCode: domain.CodeGuestCount,
		},
		{
			name:         "too many guests",
			mutate:       func(in *ConfirmBookingInput) { in.GuestCount = 4 },
			expectedCode: domain.CodeGuestCount,
		},
		{
			name:         "malformed email",
			mutate:       func(in *ConfirmBookingInput) { in.ContactEmail = "not-an-email" },
			expectedCode: domain.CodeBadEmail,
		},
		{
			name:         "unknown payment method",
			mutate:       func(in *ConfirmBookingInput) { in.PaymentMethod = "cheque" },
			expectedCode: domain.CodeBadPayment,
		},
		{
			name:         "card method without card details",
			mutate:       func(in *ConfirmBookingInput) { in.Card = nil },
			expectedCode: domain.CodeBadCard,
		},
		{
			name:         "card holder missing",
			mutate:       func(in *ConfirmBookingInput) { in.Card.HolderName = "  " },
			expectedCode: domain.CodeBadCard,
		},
		{
			name:         "card number too short",
			mutate:       func(in *ConfirmBookingInput) { in.Card.Number = "1234" },
			expectedCode: domain.CodeBadCard,
		},
		{
			name:         "bad expiry",
			mutate:       func(in *ConfirmBookingInput) { in.Card.Expiry = "13/27" },
			expectedCode: domain.CodeBadCard,
		},
		{
			name:         "bad cvv",
			mutate:       func(in *ConfirmBookingInput) { in.Card.CVV = "12" },
			expectedCode: domain.CodeBadCard,
		},
		{
			name:         "missing hotel name",
			mutate:       func(in *ConfirmBookingInput) { in.Room.HotelName = "" },
			expectedCode: domain.CodeMissingField,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &MockBookingRepository{}
			mockNotifier := &MockNotifier{}
			service := newTestService(mockRepo, mockNotifier)

			input := validInput()
			tc.mutate(&input)

			result, err := service.Confirm(context.Background(), input, "user-1")

			assert.Nil(t, result)
			var vErr *domain.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.expectedCode, vErr.Code)

			mockRepo.AssertNotCalled(t, "InsertIfAbsent")
			mockNotifier.AssertNotCalled(t, "Send")
		})
	}
}

func TestConfirm_NonCardMethodsNeedNoCard(t *testing.T) {
	for _, method := range []domain.PaymentMethod{domain.PaymentMethodApplePay, domain.PaymentMethodGooglePay, domain.PaymentMethodPayPal} {
		t.Run(string(method), func(t *testing.T) {
			mockRepo := &MockBookingRepository{}
			mockNotifier := &MockNotifier{}
			service := newTestService(mockRepo, mockNotifier)

			mockRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil).Once()
			mockNotifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

			input := validInput()
			input.PaymentMethod = method
			input.Card = nil

			result, err := service.Confirm(context.Background(), input, "user-1")
			assert.NoError(t, err)
			assert.Equal(t, method, result.Booking.PaymentMethod)
		})
	}
}

func TestConfirm_PersistFailureMeansNoBooking(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, mockNotifier)

	mockRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	result, err := service.Confirm(context.Background(), validInput(), "user-1")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "booking was not created")

	mockRepo.AssertExpectations(t)
	mockNotifier.AssertNotCalled(t, "Send")
}

func TestConfirm_DuplicateKeyLosesRace(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, mockNotifier)

	mockRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(domain.ErrConfirmationConflict).Once()

	result, err := service.Confirm(context.Background(), validInput(), "user-1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrConfirmationConflict)
	mockNotifier.AssertNotCalled(t, "Send")
}

func TestConfirm_RetryGetsFreshConfirmationID(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, mockNotifier)

	var ids []string
	mockRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ids = append(ids, args.Get(1).(*domain.Booking).ConfirmationID)
	}).Return(errors.New("timeout")).Once()
	mockRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ids = append(ids, args.Get(1).(*domain.Booking).ConfirmationID)
	}).Return(nil).Once()
	mockNotifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := service.Confirm(context.Background(), validInput(), "user-1")
	assert.Error(t, err)

	result, err := service.Confirm(context.Background(), validInput(), "user-1")
	assert.NoError(t, err)
	assert.NotNil(t, result)

	assert.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestConfirm_NotificationFailureKeepsBooking(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockNotifier := &MockNotifier{}
	service := newTestService(mockRepo, mockNotifier)

	mockRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil).Once()
	sendErr := errors.New("smtp unavailable")
	mockNotifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sendErr).Once()

	result, err := service.Confirm(context.Background(), validInput(), "user-1")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.Notified)
	assert.ErrorIs(t, result.NotifyErr, sendErr)
	assert.Equal(t, domain.BookingStatusConfirmed, result.Booking.Status)

	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestConfirm_DoubleSubmitBlockedByHold(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockNotifier := &MockNotifier{}
	mockCache := &MockCache{}
	service := newTestService(mockRepo, mockNotifier, WithCache(mockCache, time.Minute))

	mockCache.On("AcquireBookingHold", mock.Anything, "user-1", "Grand Palace", "Deluxe King", date(2025, 6, 1), date(2025, 6, 4), time.Minute).Return(false, nil).Once()

	result, err := service.Confirm(context.Background(), validInput(), "user-1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrBookingInProgress)
	mockRepo.AssertNotCalled(t, "InsertIfAbsent")
	mockCache.AssertExpectations(t)
}

func TestConfirm_HoldReleasedAfterSuccess(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockNotifier := &MockNotifier{}
	mockCache := &MockCache{}
	service := newTestService(mockRepo, mockNotifier, WithCache(mockCache, time.Minute))

	mockCache.On("AcquireBookingHold", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Once()
	mockCache.On("ReleaseBookingHold", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil).Once()
	mockNotifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := service.Confirm(context.Background(), validInput(), "user-1")

	assert.NoError(t, err)
	mockCache.AssertExpectations(t)
}

func TestConfirm_PublishFailureDoesNotFailBooking(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockNotifier := &MockNotifier{}
	mockProducer := &MockProducer{}
	service := newTestService(mockRepo, mockNotifier, WithProducer(mockProducer, "booking-events"))

	mockRepo.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", mock.Anything, "booking-events", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	mockNotifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.Confirm(context.Background(), validInput(), "user-1")

	assert.NoError(t, err)
	assert.True(t, result.Notified)
	mockProducer.AssertExpectations(t)
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:             7,
		ConfirmationID: "TI-ABC123-XYZXYZXYZ0",
		UserID:         "user-1",
		HotelName:      "Grand Palace",
		RoomName:       "Deluxe King",
		CheckIn:        date(2025, 6, 1),
		CheckOut:       date(2025, 6, 4),
		Status:         domain.BookingStatusConfirmed,
	}
}

func TestCancel_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockNotifier{})

	current := confirmedBooking()
	cancelled := *current
	cancelled.Status = domain.BookingStatusCancelled

	mockRepo.On("GetByConfirmationID", mock.Anything, current.ConfirmationID).Return(current, nil).Once()
	mockRepo.On("UpdateStatusOwned", mock.Anything, current.ConfirmationID, "user-1", domain.BookingStatusCancelled).Return(&cancelled, nil).Once()

	updated, err := service.Cancel(context.Background(), current.ConfirmationID, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, updated.Status)
	mockRepo.AssertExpectations(t)
}

func TestCancel_NotOwner(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockNotifier{})

	current := confirmedBooking()
	mockRepo.On("GetByConfirmationID", mock.Anything, current.ConfirmationID).Return(current, nil).Once()

	updated, err := service.Cancel(context.Background(), current.ConfirmationID, "intruder")

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	mockRepo.AssertNotCalled(t, "UpdateStatusOwned")
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockNotifier{})

	current := confirmedBooking()
	current.Status = domain.BookingStatusCancelled
	mockRepo.On("GetByConfirmationID", mock.Anything, current.ConfirmationID).Return(current, nil).Once()

	updated, err := service.Cancel(context.Background(), current.ConfirmationID, "user-1")

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	mockRepo.AssertNotCalled(t, "UpdateStatusOwned")
}

func TestCancel_StayAlreadyCompleted(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockNotifier{})

	// Check-out was yesterday relative to the fixed clock.
	current := confirmedBooking()
	current.CheckIn = date(2025, 4, 27)
	current.CheckOut = date(2025, 4, 30)
	mockRepo.On("GetByConfirmationID", mock.Anything, current.ConfirmationID).Return(current, nil).Once()

	updated, err := service.Cancel(context.Background(), current.ConfirmationID, "user-1")

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrStayCompleted)
	assert.Equal(t, domain.BookingStatusConfirmed, current.Status)
	mockRepo.AssertNotCalled(t, "UpdateStatusOwned")
}

func TestCancel_NotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockNotifier{})

	mockRepo.On("GetByConfirmationID", mock.Anything, "TI-UNKNOWN").Return(nil, domain.ErrBookingNotFound).Once()

	updated, err := service.Cancel(context.Background(), "TI-UNKNOWN", "user-1")

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestListForUser(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockNotifier{})

	bookings := []domain.Booking{*confirmedBooking()}
	mockRepo.On("ListByUser", mock.Anything, "user-1").Return(bookings, nil).Once()

	got, err := service.ListForUser(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, bookings, got)
}

func TestPurgeCancelled(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockNotifier{})

	retention := 90 * 24 * time.Hour
	mockRepo.On("PurgeCancelledBefore", mock.Anything, testNow.Add(-retention)).Return(int64(4), nil).Once()

	purged, err := service.PurgeCancelled(context.Background(), retention)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), purged)
	mockRepo.AssertExpectations(t)
}
