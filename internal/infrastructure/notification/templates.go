package notification

import (
	"fmt"
	"html"
	"strings"

	"github.com/storefront/backend/internal/domain/order"
)

// OrderConfirmation builds the confirmation email of a placed order
func OrderConfirmation(snap order.Snapshot) Message {
	var text, body strings.Builder
	fmt.Fprintf(&text, "Thank you for your order %s.\n\n", snap.OrderNumber)
	fmt.Fprintf(&body, "<p>Thank you for your order <strong>%s</strong>.</p><ul>", html.EscapeString(snap.OrderNumber))
	for _, item := range snap.Items {
		fmt.Fprintf(&text, "%d x %s  %s\n", item.Quantity, item.Title, item.TotalPrice.StringFixed(2))
		fmt.Fprintf(&body, "<li>%d &times; %s: %s</li>", item.Quantity, html.EscapeString(item.Title), item.TotalPrice.StringFixed(2))
	}
	fmt.Fprintf(&text, "\nTotal: %s\n", snap.TotalAmount.StringFixed(2))
	fmt.Fprintf(&body, "</ul><p>Total: <strong>%s</strong></p>", snap.TotalAmount.StringFixed(2))

	if a := snap.Address; a.Address != "" {
		fmt.Fprintf(&text, "Delivery to: %s, %s %s, %s\n", a.Address, a.ZipCode, a.City, a.Country)
		fmt.Fprintf(&body, "<p>Delivery to: %s, %s %s, %s</p>",
			html.EscapeString(a.Address), html.EscapeString(a.ZipCode), html.EscapeString(a.City), html.EscapeString(a.Country))
	}

	return Message{
		ToName:    snap.User.Username,
		ToEmail:   snap.User.Email,
		Subject:   "Your order " + snap.OrderNumber,
		PlainText: text.String(),
		HTML:      body.String(),
	}
}

// Welcome builds the greeting sent after sign-up
func Welcome(username, email string) Message {
	return Message{
		ToName:    username,
		ToEmail:   email,
		Subject:   "Welcome to the store",
		PlainText: fmt.Sprintf("Hi %s,\n\nyour account is ready. Happy shopping!\n", username),
		HTML:      fmt.Sprintf("<p>Hi %s,</p><p>your account is ready. Happy shopping!</p>", html.EscapeString(username)),
	}
}
