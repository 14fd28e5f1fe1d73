// Package whatsapp builds the pre-filled chat deep links used for order
// placement. The hand-off is fire-and-forget: the server only constructs
// the https://wa.me/<number>?text=<message> URL, no delivery confirmation
// comes back.
package whatsapp

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// OrderLine is one cart entry in an outgoing order message.
type OrderLine struct {
	Quantity int
	Name     string
	Subtotal float64
	Currency string
}

// Order carries everything needed to compose an order message.
type Order struct {
	Lines    []OrderLine
	Total    float64
	Currency string
	Customer string
	Address  string
	Notes    string
}

// NormalizeNumber strips everything but digits from a phone number so it
// fits the wa.me path segment ("+234 701..." becomes "234701...").
func NormalizeNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Link builds a wa.me deep link for the given number and message text.
func Link(number, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizeNumber(number), url.QueryEscape(text))
}

// OrderMessage renders the order as the chat text customers send to the
// restaurant.
func OrderMessage(o Order) string {
	var lines []string
	for _, l := range o.Lines {
		lines = append(lines, fmt.Sprintf("%dx %s - %s%s", l.Quantity, l.Name, l.Currency, formatAmount(l.Subtotal)))
	}

	msg := fmt.Sprintf(`Hi! I want to order:

📋 ORDER DETAILS:
%s

💰 Total: %s%s

👤 Customer: %s
📍 Address: %s`,
		strings.Join(lines, "\n"),
		o.Currency, formatAmount(o.Total),
		o.Customer, o.Address,
	)
	if o.Notes != "" {
		msg += "\n📝 Notes: " + o.Notes
	}
	msg += "\n\nPlease confirm availability and delivery fee. Thank you!"
	return msg
}

// OrderLink builds the full deep link for an order.
func OrderLink(number string, o Order) string {
	return Link(number, OrderMessage(o))
}

// QR renders a deep link as a PNG QR code so the site can show a
// scan-to-order code next to the button.
func QR(link string, size int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("whatsapp qr: %w", err)
	}
	return png, nil
}

// formatAmount prints an amount with thousands separators and no decimals
// when whole ("3,500" / "3,500.50"), matching how prices appear in chat.
// Rounding happens in cents so a fraction that rounds up carries into the
// whole part.
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	cents := int64(math.Round(v * 100))
	whole := cents / 100
	frac := cents % 100

	s := fmt.Sprintf("%d", whole)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")

	if frac > 0 {
		out += fmt.Sprintf(".%02d", frac)
	}
	if neg {
		out = "-" + out
	}
	return out
}
