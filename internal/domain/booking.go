package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPaid PaymentStatus = "PAID"
)

type PaymentMethod string

const (
	PaymentMethodCard      PaymentMethod = "card"
	PaymentMethodApplePay  PaymentMethod = "apple_pay"
	PaymentMethodGooglePay PaymentMethod = "google_pay"
	PaymentMethodPayPal    PaymentMethod = "paypal"
)

func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCard, PaymentMethodApplePay, PaymentMethodGooglePay, PaymentMethodPayPal:
		return true
	}
	return false
}

// Booking is write-once after creation except for Status, which may move
// CONFIRMED -> CANCELLED exactly once. Raw card data never appears here.
type Booking struct {
	ID               int64
	ConfirmationID   string
	UserID           string
	HotelName        string
	RoomName         string
	CheckIn          time.Time
	CheckOut         time.Time
	Nights           int
	NightlyRateCents int64
	TotalCents       int64
	GuestCount       int
	ContactEmail     string
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	SpecialRequests  string
	Status           BookingStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
