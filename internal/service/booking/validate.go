package booking

import (
	"regexp"
	"strings"

	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
	"github.com/moeageli22/TravelInn-app-sub000/internal/pricing"
)

var (
	emailRe      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	cardNumberRe = regexp.MustCompile(`^\d{13,19}$`)
	cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVRe    = regexp.MustCompile(`^\d{3,4}$`)
)

// validate rejects a request before any identifier is consumed or any
// external call is made.
func validate(input ConfirmBookingInput) error {
	if input.Room.HotelName == "" {
		return domain.NewValidationError(domain.CodeMissingField, "hotelName", "hotel name is required")
	}
	if input.Room.RoomName == "" {
		return domain.NewValidationError(domain.CodeMissingField, "roomName", "room name is required")
	}
	if input.Room.NightlyRateCents <= 0 {
		return domain.NewValidationError(domain.CodeMissingField, "nightlyRate", "nightly rate must be positive")
	}
	if _, err := pricing.Nights(input.CheckIn, input.CheckOut); err != nil {
		return domain.NewValidationError(domain.CodeBadDateRange, "checkOut", "check-out must be after check-in")
	}
	if input.GuestCount < 1 || input.GuestCount > input.Room.MaxGuests {
		return domain.NewValidationError(domain.CodeGuestCount, "guests", "guest count is out of room capacity")
	}
	if !emailRe.MatchString(input.ContactEmail) {
		return domain.NewValidationError(domain.CodeBadEmail, "email", "contact email is malformed")
	}
	if !domain.IsValidPaymentMethod(input.PaymentMethod) {
		return domain.NewValidationError(domain.CodeBadPayment, "paymentMethod", "unknown payment method")
	}
	if input.PaymentMethod == domain.PaymentMethodCard {
		return validateCard(input.Card)
	}
	return nil
}

// Format checks only. The service never talks to a payment network and raw
// card data never outlives the request.
func validateCard(card *CardDetails) error {
	if card == nil {
		return domain.NewValidationError(domain.CodeBadCard, "card", "card details are required")
	}
	if strings.TrimSpace(card.HolderName) == "" {
		return domain.NewValidationError(domain.CodeBadCard, "card.holderName", "card holder name is required")
	}
	number := strings.ReplaceAll(card.Number, " ", "")
	if !cardNumberRe.MatchString(number) {
		return domain.NewValidationError(domain.CodeBadCard, "card.number", "card number is malformed")
	}
	if !cardExpiryRe.MatchString(card.Expiry) {
		return domain.NewValidationError(domain.CodeBadCard, "card.expiry", "card expiry must be MM/YY")
	}
	if !cardCVVRe.MatchString(card.CVV) {
		return domain.NewValidationError(domain.CodeBadCard, "card.cvv", "card cvv is malformed")
	}
	return nil
}
