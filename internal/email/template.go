package email

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/moeageli22/TravelInn-app-sub000/internal/domain"
	"github.com/moeageli22/TravelInn-app-sub000/internal/pricing"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(
	`Dear guest,

Your booking at {{.HotelName}} is confirmed.

Confirmation number: {{.ConfirmationID}}
Room: {{.RoomName}}
Check-in: {{.CheckIn}}
Check-out: {{.CheckOut}}
Nights: {{.Nights}}
Guests: {{.GuestCount}}
Total paid: ${{.Total}}
{{- if .SpecialRequests}}
Special requests: {{.SpecialRequests}}
{{- end}}

We look forward to your stay.

TravelInn
`))

var cancellationTmpl = template.Must(template.New("cancellation").Parse(
	`Dear guest,

Your booking {{.ConfirmationID}} at {{.HotelName}} ({{.RoomName}}) has been cancelled.

TravelInn
`))

type mailData struct {
	ConfirmationID  string
	HotelName       string
	RoomName        string
	CheckIn         string
	CheckOut        string
	Nights          int
	GuestCount      int
	Total           string
	SpecialRequests string
}

func ConfirmationSubject(b *domain.Booking) string {
	return fmt.Sprintf("Booking confirmed - %s", b.ConfirmationID)
}

func ConfirmationBody(b *domain.Booking) string {
	return render(confirmationTmpl, b)
}

func CancellationSubject(b *domain.Booking) string {
	return fmt.Sprintf("Booking cancelled - %s", b.ConfirmationID)
}

func CancellationBody(b *domain.Booking) string {
	return render(cancellationTmpl, b)
}

func render(tmpl *template.Template, b *domain.Booking) string {
	var sb strings.Builder
	data := mailData{
		ConfirmationID:  b.ConfirmationID,
		HotelName:       b.HotelName,
		RoomName:        b.RoomName,
		CheckIn:         b.CheckIn.Format("2006-01-02"),
		CheckOut:        b.CheckOut.Format("2006-01-02"),
		Nights:          b.Nights,
		GuestCount:      b.GuestCount,
		Total:           pricing.FormatCents(b.TotalCents),
		SpecialRequests: b.SpecialRequests,
	}
	if err := tmpl.Execute(&sb, data); err != nil {
		return ""
	}
	return sb.String()
}
