package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
	"github.com/moeageli22/TravelInn-app-sub000/internal/pricing"
	"github.com/moeageli22/TravelInn-app-sub000/internal/service/booking"
	"github.com/moeageli22/TravelInn-app-sub000/internal/service/rooms"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	bookings booking.BookingUseCase
	rooms    rooms.RoomUseCase
}

type cardRequest struct {
	HolderName string `json:"holderName"`
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

type confirmBookingRequest struct {
	Email           string       `json:"email"`
	HotelName       string       `json:"hotelName"`
	RoomName        string       `json:"roomName"`
	CheckIn         string       `json:"checkIn"`
	CheckOut        string       `json:"checkOut"`
	Guests          int          `json:"guests"`
	PaymentMethod   string       `json:"paymentMethod"`
	Card            *cardRequest `json:"card,omitempty"`
	SpecialRequests string       `json:"specialRequests,omitempty"`
}

type bookingDetails struct {
	ConfirmationID  string `json:"confirmationId"`
	HotelName       string `json:"hotelName"`
	RoomName        string `json:"roomName"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	Nights          int    `json:"nights"`
	Guests          int    `json:"guests"`
	TotalPrice      string `json:"totalPrice"`
	PaymentMethod   string `json:"paymentMethod"`
	Status          string `json:"status"`
	SpecialRequests string `json:"specialRequests,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

type confirmBookingResponse struct {
	Success        bool           `json:"success"`
	ConfirmationID string         `json:"confirmationId"`
	BookingDetails bookingDetails `json:"bookingDetails"`
	Notified       bool           `json:"notified"`
	Message        string         `json:"message,omitempty"`
}

func NewBookingHandler(bookings booking.BookingUseCase, roomSvc rooms.RoomUseCase) *BookingHandler {
	return &BookingHandler{bookings: bookings, rooms: roomSvc}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.confirm)
	router.GET("", h.list)
	router.DELETE("/:confirmationId", h.cancel)
}

func (h *BookingHandler) confirm(c *gin.Context) {
	var req confirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	if msg, ok := req.missingField(); !ok {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		fail(c, http.StatusBadRequest, "checkIn must be a YYYY-MM-DD date")
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		fail(c, http.StatusBadRequest, "checkOut must be a YYYY-MM-DD date")
		return
	}

	// The catalog, not the client, supplies rate and capacity.
	room, err := h.rooms.GetByName(c.Request.Context(), req.HotelName, req.RoomName)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			fail(c, http.StatusNotFound, "room not found")
			return
		}
		fail(c, http.StatusInternalServerError, "room lookup failed")
		return
	}

	input := booking.ConfirmBookingInput{
		Room: booking.RoomSelection{
			HotelName:        room.HotelName,
			RoomName:         room.Name,
			NightlyRateCents: room.NightlyRateCents,
			MaxGuests:        room.MaxGuests,
		},
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		GuestCount:      req.Guests,
		ContactEmail:    req.Email,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		SpecialRequests: req.SpecialRequests,
	}
	if req.Card != nil {
		input.Card = &booking.CardDetails{
			HolderName: req.Card.HolderName,
			Number:     req.Card.Number,
			Expiry:     req.Card.Expiry,
			CVV:        req.Card.CVV,
		}
	}

	result, err := h.bookings.Confirm(c.Request.Context(), input, ownerID(c))
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			fail(c, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, domain.ErrInvalidDateRange):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrBookingInProgress):
			fail(c, http.StatusConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, "booking was not created, please retry")
		}
		return
	}

	resp := confirmBookingResponse{
		Success:        true,
		ConfirmationID: result.Booking.ConfirmationID,
		BookingDetails: toBookingDetails(result.Booking),
		Notified:       result.Notified,
	}
	if !result.Notified {
		resp.Message = "booking is confirmed, but the confirmation email could not be delivered"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	confirmationID := c.Param("confirmationId")
	cancelled, err := h.bookings.Cancel(c.Request.Context(), confirmationID, ownerID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrNotOwner):
			fail(c, http.StatusForbidden, err.Error())
		case errors.Is(err, domain.ErrAlreadyCancelled), errors.Is(err, domain.ErrStayCompleted):
			fail(c, http.StatusConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookingDetails": toBookingDetails(cancelled)})
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.bookings.ListForUser(c.Request.Context(), ownerID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	details := make([]bookingDetails, 0, len(bookings))
	for i := range bookings {
		details = append(details, toBookingDetails(&bookings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": details})
}

func (r confirmBookingRequest) missingField() (string, bool) {
	switch {
	case r.Email == "":
		return "email is required", false
	case r.HotelName == "":
		return "hotelName is required", false
	case r.RoomName == "":
		return "roomName is required", false
	case r.CheckIn == "":
		return "checkIn is required", false
	case r.CheckOut == "":
		return "checkOut is required", false
	case r.PaymentMethod == "":
		return "paymentMethod is required", false
	}
	return "", true
}

func toBookingDetails(b *domain.Booking) bookingDetails {
	return bookingDetails{
		ConfirmationID:  b.ConfirmationID,
		HotelName:       b.HotelName,
		RoomName:        b.RoomName,
		CheckIn:         b.CheckIn.Format(dateLayout),
		CheckOut:        b.CheckOut.Format(dateLayout),
		Nights:          b.Nights,
		Guests:          b.GuestCount,
		TotalPrice:      pricing.FormatCents(b.TotalCents),
		PaymentMethod:   string(b.PaymentMethod),
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
