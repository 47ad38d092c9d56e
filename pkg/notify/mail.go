// Package notify sends transactional mail through SendGrid. Delivery is best
// effort; callers log failures and move on.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
)

type SendGridMailer struct {
	apiKey string
	from   string
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{apiKey: strings.TrimSpace(apiKey), from: strings.TrimSpace(from)}
}

func (m *SendGridMailer) Enabled() bool {
	return m != nil && m.apiKey != "" && m.from != ""
}

// SendOrderConfirmation mails the order receipt to the customer.
func (m *SendGridMailer) SendOrderConfirmation(ctx context.Context, to string, receipt types.OrderReceipt) error {
	if !m.Enabled() {
		return fmt.Errorf("sendgrid is not configured")
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	subject := fmt.Sprintf("Your order #%s is confirmed", receipt.OrderNumber)
	body := fmt.Sprintf(
		"Thanks for shopping with us!\n\nOrder number: %s\nItems: %d\nTotal: $%.2f\n\nWe'll let you know when it ships.",
		receipt.OrderNumber, receipt.ItemsCount, receipt.TotalAmount)

	message := mail.NewSingleEmail(
		mail.NewEmail("Voice Store", m.from),
		subject,
		mail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}
	return nil
}
