// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderdom "tienda/internal/domain/order"
)

// EmailClient is the minimal send port (SendGrid in production).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// OrderMailer formats and sends the post-checkout confirmation.
// It implements usecase.OrderMailer; the caller treats failures as
// best-effort (logged, never failing the checkout).
type OrderMailer struct {
	client EmailClient
	from   string
}

func NewOrderMailer(client EmailClient, from string) *OrderMailer {
	return &OrderMailer{client: client, from: from}
}

func (m *OrderMailer) SendOrderConfirmation(ctx context.Context, o orderdom.Order) error {
	if m == nil || m.client == nil {
		return errors.New("order_mailer: email client is not configured")
	}
	to := strings.TrimSpace(o.Buyer.Email)
	if to == "" {
		return errors.New("order_mailer: buyer has no email")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pedido %s\n\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %s (%s) x%d = %s\n", it.Name, it.Size(), it.Quantity, it.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nEstado: %s\n", o.Total.StringFixed(2), o.Status)

	subject := fmt.Sprintf("Confirmación de pedido %s", o.ID)
	return m.client.Send(ctx, m.from, to, subject, b.String())
}
