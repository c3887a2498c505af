package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
	"github.com/moeageli22/TravelInn-app-sub000/internal/pricing"
	"github.com/moeageli22/TravelInn-app-sub000/internal/service/rooms"
)

type RoomHandler struct {
	service rooms.RoomUseCase
}

type roomResponse struct {
	HotelName   string `json:"hotelName"`
	RoomName    string `json:"roomName"`
	Description string `json:"description,omitempty"`
	NightlyRate string `json:"nightlyRate"`
	MaxGuests   int    `json:"maxGuests"`
}

func NewRoomHandler(service rooms.RoomUseCase) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
}

func (h *RoomHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]roomResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toRoomResponse(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": resp})
}

func toRoomResponse(r *domain.Room) roomResponse {
	return roomResponse{
		HotelName:   r.HotelName,
		RoomName:    r.Name,
		Description: r.Description,
		NightlyRate: pricing.FormatCents(r.NightlyRateCents),
		MaxGuests:   r.MaxGuests,
	}
}
